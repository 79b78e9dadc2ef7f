package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"billing/internal/amqp"
	"billing/internal/core"
	"billing/internal/sheets"
	"billing/internal/storage"
)

// Tabs maps each collection to the spreadsheet tab it is mirrored into.
type Tabs struct {
	Products  string
	Customers string
	Invoices  string
	Settings  string
}

// SyncWorker mirrors collections from the local store to a spreadsheet.
// Each sync message names one collection; the worker re-reads it wholesale
// and overwrites the matching tab, so replays and duplicate messages are
// harmless.
type SyncWorker struct {
	store  storage.Store
	mirror sheets.MirrorWriter
	tabs   Tabs
}

func NewSyncWorker(store storage.Store, mirror sheets.MirrorWriter, tabs Tabs) *SyncWorker {
	return &SyncWorker{
		store:  store,
		mirror: mirror,
		tabs:   tabs,
	}
}

// HandleSyncMessage processes a single collection sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.CollectionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"collection", msg.Collection,
		"timestamp", msg.Timestamp)

	return w.syncCollection(ctx, msg.Collection)
}

// SyncAll mirrors every collection, used for the periodic full resync.
func (w *SyncWorker) SyncAll(ctx context.Context) error {
	for _, collection := range []string{
		storage.KeyProducts,
		storage.KeyCustomers,
		storage.KeyInvoices,
		storage.KeySettings,
	} {
		if err := w.syncCollection(ctx, collection); err != nil {
			return fmt.Errorf("sync %s: %w", collection, err)
		}
	}
	return nil
}

func (w *SyncWorker) syncCollection(ctx context.Context, collection string) error {
	var (
		rows [][]any
		tab  string
		err  error
	)

	switch collection {
	case storage.KeyProducts:
		tab = w.tabs.Products
		rows, err = w.productRows(ctx)
	case storage.KeyCustomers:
		tab = w.tabs.Customers
		rows, err = w.customerRows(ctx)
	case storage.KeyInvoices:
		tab = w.tabs.Invoices
		rows, err = w.invoiceRows(ctx)
	case storage.KeySettings:
		tab = w.tabs.Settings
		rows, err = w.settingsRows(ctx)
	default:
		return fmt.Errorf("unknown collection %q", collection)
	}
	if err != nil {
		return err
	}

	if err := w.mirror.Overwrite(ctx, tab, rows); err != nil {
		return fmt.Errorf("overwrite tab %s: %w", tab, err)
	}

	slog.InfoContext(ctx, "Collection mirrored",
		"collection", collection,
		"tab", tab,
		"rows", len(rows)-1)
	return nil
}

func (w *SyncWorker) productRows(ctx context.Context) ([][]any, error) {
	var products []core.Product
	if err := w.loadCollection(ctx, storage.KeyProducts, &products); err != nil {
		return nil, err
	}

	rows := [][]any{{"id", "name", "price", "discount", "category", "stock", "description"}}
	for _, p := range products {
		rows = append(rows, []any{p.ID, p.Name, p.Price, p.Discount, p.Category, p.Stock, p.Description})
	}
	return rows, nil
}

func (w *SyncWorker) customerRows(ctx context.Context) ([][]any, error) {
	var customers []core.Customer
	if err := w.loadCollection(ctx, storage.KeyCustomers, &customers); err != nil {
		return nil, err
	}

	rows := [][]any{{"id", "name", "email", "phone", "address"}}
	for _, c := range customers {
		rows = append(rows, []any{c.ID, c.Name, c.Email, c.Phone, c.Address})
	}
	return rows, nil
}

func (w *SyncWorker) invoiceRows(ctx context.Context) ([][]any, error) {
	var invoices []core.Invoice
	if err := w.loadCollection(ctx, storage.KeyInvoices, &invoices); err != nil {
		return nil, err
	}

	rows := [][]any{{"id", "invoiceNumber", "customerId", "customerName", "items", "subtotal", "totalDiscount", "tax", "total", "date", "status"}}
	for _, inv := range invoices {
		// Items stay nested in the domain model; the tab gets one row
		// per invoice with the items encoded as JSON.
		items, err := json.Marshal(inv.Items)
		if err != nil {
			return nil, fmt.Errorf("encode items of %s: %w", inv.ID, err)
		}
		rows = append(rows, []any{
			inv.ID, inv.InvoiceNumber, inv.CustomerID, inv.CustomerName,
			string(items), inv.Subtotal, inv.TotalDiscount, inv.Tax,
			inv.Total, inv.Date, string(inv.Status),
		})
	}
	return rows, nil
}

func (w *SyncWorker) settingsRows(ctx context.Context) ([][]any, error) {
	var settings core.CompanySettings
	if err := w.loadCollection(ctx, storage.KeySettings, &settings); err != nil {
		return nil, err
	}

	return [][]any{
		{"name", "email", "phone", "address", "taxRate", "currency", "invoicePrefix"},
		{
			settings.Name, settings.Email, settings.Phone, settings.Address,
			strconv.FormatFloat(settings.TaxRate, 'f', -1, 64),
			settings.Currency, settings.InvoicePrefix,
		},
	}, nil
}

// loadCollection reads a collection, treating a missing key as empty so a
// fresh database still produces a header-only tab.
func (w *SyncWorker) loadCollection(ctx context.Context, key string, v any) error {
	err := w.store.Load(ctx, key, v)
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("load %s: %w", key, err)
}
