package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"billing/internal/amqp"
	"billing/internal/core"
	"billing/internal/storage"
)

// SettingsService holds the singleton company settings record. Saves
// overwrite it wholesale.
type SettingsService struct {
	mu         sync.RWMutex
	settings   core.CompanySettings
	store      storage.Store
	amqpClient *amqp.Client
}

var _ SettingsReader = (*SettingsService)(nil)

func NewSettingsService(ctx context.Context, store storage.Store, amqpClient *amqp.Client) (*SettingsService, error) {
	s := &SettingsService{store: store, amqpClient: amqpClient}

	err := store.Load(ctx, storage.KeySettings, &s.settings)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.settings = defaultSettings()
		if err := store.Save(ctx, storage.KeySettings, s.settings); err != nil {
			return nil, fmt.Errorf("seed settings: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return s, nil
}

func (s *SettingsService) Settings(_ context.Context) core.CompanySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *SettingsService) Save(ctx context.Context, settings core.CompanySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	if err := s.store.Save(ctx, storage.KeySettings, s.settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if s.amqpClient == nil {
		return nil
	}
	if err := s.amqpClient.PublishCollectionSync(ctx, storage.KeySettings); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"collection", storage.KeySettings, "error", err)
	}
	return nil
}
