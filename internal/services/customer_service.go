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

// CustomerService keeps the customer list in memory and mirrors every
// change wholesale into the store.
type CustomerService struct {
	mu         sync.RWMutex
	customers  []core.Customer
	store      storage.Store
	amqpClient *amqp.Client
}

func NewCustomerService(ctx context.Context, store storage.Store, amqpClient *amqp.Client) (*CustomerService, error) {
	s := &CustomerService{store: store, amqpClient: amqpClient}

	err := store.Load(ctx, storage.KeyCustomers, &s.customers)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.customers = sampleCustomers()
		if err := store.Save(ctx, storage.KeyCustomers, s.customers); err != nil {
			return nil, fmt.Errorf("seed customers: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load customers: %w", err)
	}

	return s, nil
}

func (s *CustomerService) List(_ context.Context) []core.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Customer(nil), s.customers...)
}

func (s *CustomerService) Get(_ context.Context, id string) (core.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Customer{}, ErrNotFound
}

func (s *CustomerService) Create(ctx context.Context, c core.Customer) (core.Customer, error) {
	if err := c.Validate(); err != nil {
		return core.Customer{}, err
	}
	c.ID = core.NewCustomerID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, c)
	if err := s.persist(ctx); err != nil {
		return core.Customer{}, err
	}
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, c core.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == c.ID {
			s.customers[i] = c
			return s.persist(ctx)
		}
	}
	return ErrNotFound
}

// Delete removes the customer if present. Unknown ids are a no-op.
// Invoices already issued to the customer keep their name snapshot.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.customers[:0]
	removed := false
	for _, c := range s.customers {
		if c.ID == id {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	s.customers = kept
	if !removed {
		return nil
	}
	return s.persist(ctx)
}

func (s *CustomerService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, storage.KeyCustomers, s.customers); err != nil {
		return fmt.Errorf("save customers: %w", err)
	}
	if s.amqpClient == nil {
		return nil
	}
	if err := s.amqpClient.PublishCollectionSync(ctx, storage.KeyCustomers); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"collection", storage.KeyCustomers, "error", err)
	}
	return nil
}
