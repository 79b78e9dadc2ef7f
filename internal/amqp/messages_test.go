package amqp

import (
	"testing"
	"time"

	"billing/internal/storage"
)

func TestCollectionSyncMessageRoundTrip(t *testing.T) {
	msg := NewCollectionSyncMessage(storage.KeyInvoices)
	if msg.Timestamp.IsZero() {
		t.Fatalf("timestamp should be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := CollectionSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Collection != storage.KeyInvoices {
		t.Errorf("collection = %q, want %q", decoded.Collection, storage.KeyInvoices)
	}
	if !decoded.Timestamp.Equal(msg.Timestamp.Truncate(0)) && decoded.Timestamp.Sub(msg.Timestamp) > time.Millisecond {
		t.Errorf("timestamp drifted: %v vs %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestCollectionSyncMessageValidate(t *testing.T) {
	tests := []struct {
		collection string
		wantErr    bool
	}{
		{storage.KeyProducts, false},
		{storage.KeyCustomers, false},
		{storage.KeyInvoices, false},
		{storage.KeySettings, false},
		{"orders", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			err := NewCollectionSyncMessage(tt.collection).Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for %q", tt.collection)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.collection, err)
			}
		})
	}
}

func TestCollectionSyncMessageFromJSONMalformed(t *testing.T) {
	if _, err := CollectionSyncMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}
