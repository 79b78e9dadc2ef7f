package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"billing/internal/core"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "billing.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })
	return map[string]Store{
		"sqlite": sqliteStore,
		"memory": NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	products := []core.Product{
		{ID: "p1", Name: "Widget", Price: 50, Discount: 10, Category: "General", Stock: 3, Description: "a widget"},
		{ID: "p2", Name: "Gadget", Price: 19.99, Category: "Hardware"},
	}
	invoices := []core.Invoice{{
		ID:            "invoice-1",
		InvoiceNumber: "INV-600123",
		CustomerID:    "c1",
		CustomerName:  "John Doe",
		Items: []core.InvoiceItem{
			{ProductID: "p1", ProductName: "Widget", Quantity: 2, Price: 50, Discount: 10, Total: 90},
		},
		Subtotal:      100,
		TotalDiscount: 10,
		Tax:           9,
		Total:         99,
		Date:          "2026-01-02",
		Status:        core.StatusSent,
	}}

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Save(ctx, KeyProducts, products); err != nil {
				t.Fatalf("save products: %v", err)
			}
			if err := store.Save(ctx, KeyInvoices, invoices); err != nil {
				t.Fatalf("save invoices: %v", err)
			}

			var gotProducts []core.Product
			if err := store.Load(ctx, KeyProducts, &gotProducts); err != nil {
				t.Fatalf("load products: %v", err)
			}
			if !reflect.DeepEqual(gotProducts, products) {
				t.Errorf("products round trip mismatch:\n got  %+v\n want %+v", gotProducts, products)
			}

			var gotInvoices []core.Invoice
			if err := store.Load(ctx, KeyInvoices, &gotInvoices); err != nil {
				t.Fatalf("load invoices: %v", err)
			}
			if !reflect.DeepEqual(gotInvoices, invoices) {
				t.Errorf("invoices round trip mismatch:\n got  %+v\n want %+v", gotInvoices, invoices)
			}
		})
	}
}

func TestStoreLoadMissing(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			var v []core.Customer
			err := store.Load(context.Background(), KeyCustomers, &v)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreSaveOverwritesWholesale(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first := core.CompanySettings{Name: "Old Co", TaxRate: 10, Currency: "USD", InvoicePrefix: "INV"}
			second := core.CompanySettings{Name: "New Co", TaxRate: 21, Currency: "EUR", InvoicePrefix: "ACME"}

			if err := store.Save(ctx, KeySettings, first); err != nil {
				t.Fatalf("save first: %v", err)
			}
			if err := store.Save(ctx, KeySettings, second); err != nil {
				t.Fatalf("save second: %v", err)
			}

			var got core.CompanySettings
			if err := store.Load(ctx, KeySettings, &got); err != nil {
				t.Fatalf("load: %v", err)
			}
			if got != second {
				t.Errorf("settings not overwritten: got %+v, want %+v", got, second)
			}
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "billing.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	customers := []core.Customer{{ID: "c1", Name: "Jane Smith", Email: "jane@example.com"}}
	if err := store.Save(ctx, KeyCustomers, customers); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	var got []core.Customer
	if err := reopened.Load(ctx, KeyCustomers, &got); err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if !reflect.DeepEqual(got, customers) {
		t.Errorf("persisted customers mismatch: got %+v, want %+v", got, customers)
	}
}
