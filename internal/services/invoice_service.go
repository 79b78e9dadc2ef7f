package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"billing/internal/amqp"
	"billing/internal/core"
	"billing/internal/storage"
)

type (
	// CustomerDirectory resolves the customer whose name is snapshotted
	// onto a new invoice.
	CustomerDirectory interface {
		Get(ctx context.Context, id string) (core.Customer, error)
	}

	// SettingsReader supplies the invoice number prefix.
	SettingsReader interface {
		Settings(ctx context.Context) core.CompanySettings
	}
)

// InvoiceService builds invoices from line items, keeps them in memory and
// mirrors every change wholesale into the store.
type InvoiceService struct {
	mu         sync.RWMutex
	invoices   []core.Invoice
	store      storage.Store
	amqpClient *amqp.Client
	customers  CustomerDirectory
	settings   SettingsReader
	now        func() time.Time
}

func NewInvoiceService(ctx context.Context, store storage.Store, amqpClient *amqp.Client, customers CustomerDirectory, settings SettingsReader) (*InvoiceService, error) {
	s := &InvoiceService{
		store:      store,
		amqpClient: amqpClient,
		customers:  customers,
		settings:   settings,
		now:        time.Now,
	}

	err := store.Load(ctx, storage.KeyInvoices, &s.invoices)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.invoices = []core.Invoice{}
		if err := store.Save(ctx, storage.KeyInvoices, s.invoices); err != nil {
			return nil, fmt.Errorf("init invoices: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load invoices: %w", err)
	}

	return s, nil
}

func (s *InvoiceService) List(_ context.Context) []core.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Invoice(nil), s.invoices...)
}

func (s *InvoiceService) Get(_ context.Context, id string) (core.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return core.Invoice{}, ErrNotFound
}

// Search filters invoices by a case-insensitive substring match on the
// invoice number or the customer name. An empty query returns everything.
func (s *InvoiceService) Search(_ context.Context, query string) []core.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := []core.Invoice{}
	for _, inv := range s.invoices {
		if query == "" ||
			strings.Contains(strings.ToLower(inv.InvoiceNumber), query) ||
			strings.Contains(strings.ToLower(inv.CustomerName), query) {
			out = append(out, inv)
		}
	}
	return out
}

// Create builds a priced invoice from the given line items. Item totals
// and invoice aggregates are recomputed here; caller-supplied totals are
// ignored. The customer name is snapshotted at creation time.
func (s *InvoiceService) Create(ctx context.Context, customerID string, items []core.InvoiceItem, status core.Status) (core.Invoice, error) {
	if status == "" {
		status = core.StatusDraft
	}

	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return core.Invoice{}, core.ErrNoCustomer
	}

	now := s.now()
	priced := core.PriceItems(items)
	totals := core.ComputeTotals(priced)

	inv := core.Invoice{
		ID:            core.NewInvoiceID(now),
		InvoiceNumber: core.NewInvoiceNumber(s.settings.Settings(ctx).InvoicePrefix, now),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Items:         priced,
		Subtotal:      totals.Subtotal,
		TotalDiscount: totals.TotalDiscount,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Date:          core.InvoiceDate(now),
		Status:        status,
	}
	if err := inv.Validate(); err != nil {
		return core.Invoice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, inv)
	if err := s.persist(ctx); err != nil {
		return core.Invoice{}, err
	}
	return inv, nil
}

// UpdateStatus sets the lifecycle label. Any known variant is accepted in
// any order; there is no transition table.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id string, status core.Status) error {
	if !status.Valid() {
		return core.ErrUnknownStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			s.invoices[i].Status = status
			return s.persist(ctx)
		}
	}
	return ErrNotFound
}

// Delete removes the invoice if present. Unknown ids are a no-op.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.invoices[:0]
	removed := false
	for _, inv := range s.invoices {
		if inv.ID == id {
			removed = true
			continue
		}
		kept = append(kept, inv)
	}
	s.invoices = kept
	if !removed {
		return nil
	}
	return s.persist(ctx)
}

func (s *InvoiceService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, storage.KeyInvoices, s.invoices); err != nil {
		return fmt.Errorf("save invoices: %w", err)
	}
	if s.amqpClient == nil {
		return nil
	}
	if err := s.amqpClient.PublishCollectionSync(ctx, storage.KeyInvoices); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"collection", storage.KeyInvoices, "error", err)
	}
	return nil
}
