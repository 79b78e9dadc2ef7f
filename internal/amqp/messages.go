package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"billing/internal/storage"
)

// CollectionSyncMessage signals that one collection changed and should be
// mirrored. The worker re-reads the collection from the store, so the
// message carries only the collection name.
type CollectionSyncMessage struct {
	Collection string    `json:"collection"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewCollectionSyncMessage(collection string) *CollectionSyncMessage {
	return &CollectionSyncMessage{
		Collection: collection,
		Timestamp:  time.Now(),
	}
}

// Validate checks that the message names one of the fixed collections.
func (m *CollectionSyncMessage) Validate() error {
	switch m.Collection {
	case storage.KeyProducts, storage.KeyCustomers, storage.KeyInvoices, storage.KeySettings:
		return nil
	}
	return fmt.Errorf("unknown collection %q", m.Collection)
}

func (m *CollectionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func CollectionSyncMessageFromJSON(data []byte) (*CollectionSyncMessage, error) {
	var msg CollectionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
