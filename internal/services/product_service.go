package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"billing/internal/amqp"
	"billing/internal/core"
	"billing/internal/importer"
	"billing/internal/storage"
)

// ErrNotFound is returned by lookups and updates that target an unknown id.
// Deletes are deliberately tolerant and treat unknown ids as a no-op.
var ErrNotFound = errors.New("not found")

// ProductService keeps the product catalog in memory and mirrors every
// change wholesale into the store, then publishes a sync message.
type ProductService struct {
	mu         sync.RWMutex
	products   []core.Product
	store      storage.Store
	amqpClient *amqp.Client
}

func NewProductService(ctx context.Context, store storage.Store, amqpClient *amqp.Client) (*ProductService, error) {
	s := &ProductService{store: store, amqpClient: amqpClient}

	err := store.Load(ctx, storage.KeyProducts, &s.products)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.products = sampleProducts()
		if err := store.Save(ctx, storage.KeyProducts, s.products); err != nil {
			return nil, fmt.Errorf("seed products: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load products: %w", err)
	}

	return s, nil
}

// List returns a copy of the catalog in insertion order.
func (s *ProductService) List(_ context.Context) []core.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Product(nil), s.products...)
}

func (s *ProductService) Get(_ context.Context, id string) (core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Product{}, ErrNotFound
}

// Create validates the product, assigns a fresh id and appends it.
func (s *ProductService) Create(ctx context.Context, p core.Product) (core.Product, error) {
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}
	p.ID = core.NewProductID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	if err := s.persist(ctx); err != nil {
		return core.Product{}, err
	}
	return p, nil
}

// Update replaces the product with the same id in place.
func (s *ProductService) Update(ctx context.Context, p core.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			return s.persist(ctx)
		}
	}
	return ErrNotFound
}

// Delete removes the product if present. Unknown ids are a no-op.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.products[:0]
	removed := false
	for _, p := range s.products {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.products = kept
	if !removed {
		return nil
	}
	return s.persist(ctx)
}

// Import normalizes tabular rows and appends every accepted product.
// When no row survives normalization the catalog is left untouched.
func (s *ProductService) Import(ctx context.Context, rows []importer.Row) ([]core.Product, error) {
	imported, err := importer.Normalize(rows)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, imported...)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return imported, nil
}

// persist writes the whole catalog and fires a sync message. Callers must
// hold the write lock. Publish failures are logged, never surfaced; the
// local save already succeeded.
func (s *ProductService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, storage.KeyProducts, s.products); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	if s.amqpClient == nil {
		return nil
	}
	if err := s.amqpClient.PublishCollectionSync(ctx, storage.KeyProducts); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"collection", storage.KeyProducts, "error", err)
	}
	return nil
}
