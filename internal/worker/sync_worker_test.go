package worker

import (
	"context"
	"testing"
	"time"

	"billing/internal/amqp"
	"billing/internal/core"
	sheetsmem "billing/internal/sheets/memory"
	"billing/internal/storage"
)

func testTabs() Tabs {
	return Tabs{
		Products:  "Products",
		Customers: "Customers",
		Invoices:  "Invoices",
		Settings:  "Settings",
	}
}

func TestHandleSyncMessageProducts(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	mirror := sheetsmem.New()

	products := []core.Product{
		{ID: "p1", Name: "Widget", Price: 19.99, Category: "General", Stock: 3},
		{ID: "p2", Name: "Gadget", Price: 5, Discount: 10, Category: "General"},
	}
	if err := store.Save(ctx, storage.KeyProducts, products); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w := NewSyncWorker(store, mirror, testTabs())
	msg := amqp.NewCollectionSyncMessage(storage.KeyProducts)
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	rows, err := mirror.ReadRows(ctx, "Products")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" || rows[0][1] != "name" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][1] != "Widget" || rows[2][1] != "Gadget" {
		t.Fatalf("unexpected rows %v", rows[1:])
	}
}

func TestHandleSyncMessageInvoices(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	mirror := sheetsmem.New()

	invoices := []core.Invoice{{
		ID:            "invoice-1",
		InvoiceNumber: "INV-000001",
		CustomerID:    "customer-1",
		CustomerName:  "John Doe",
		Items: []core.InvoiceItem{
			{ProductID: "p1", ProductName: "Widget", Quantity: 2, Price: 10, Total: 20},
		},
		Subtotal: 20,
		Tax:      2,
		Total:    22,
		Date:     "2026-08-29",
		Status:   core.StatusSent,
	}}
	if err := store.Save(ctx, storage.KeyInvoices, invoices); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w := NewSyncWorker(store, mirror, testTabs())
	if err := w.HandleSyncMessage(ctx, amqp.NewCollectionSyncMessage(storage.KeyInvoices)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	rows, err := mirror.ReadRows(ctx, "Invoices")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(rows))
	}
	if rows[1][1] != "INV-000001" || rows[1][10] != "sent" {
		t.Fatalf("unexpected invoice row %v", rows[1])
	}
	items, ok := rows[1][4].(string)
	if !ok || items == "" || items[0] != '[' {
		t.Fatalf("expected JSON-encoded items, got %v", rows[1][4])
	}
}

func TestHandleSyncMessageUnknownCollection(t *testing.T) {
	w := NewSyncWorker(storage.NewMemoryStore(), sheetsmem.New(), testTabs())
	msg := &amqp.CollectionSyncMessage{Collection: "ledger", Timestamp: time.Now()}
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown collection")
	}
}

func TestSyncAllEmptyStore(t *testing.T) {
	ctx := context.Background()
	mirror := sheetsmem.New()
	w := NewSyncWorker(storage.NewMemoryStore(), mirror, testTabs())

	if err := w.SyncAll(ctx); err != nil {
		t.Fatalf("SyncAll: %v", err)
	}

	// Missing collections still produce a header-only tab.
	for _, tab := range []string{"Products", "Customers", "Invoices"} {
		rows, err := mirror.ReadRows(ctx, tab)
		if err != nil {
			t.Fatalf("ReadRows %s: %v", tab, err)
		}
		if len(rows) != 1 {
			t.Fatalf("tab %s: expected header only, got %d rows", tab, len(rows))
		}
	}

	rows, err := mirror.ReadRows(ctx, "Settings")
	if err != nil {
		t.Fatalf("ReadRows Settings: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("settings tab: expected header plus value row, got %d", len(rows))
	}
}

func TestSyncOverwritesStaleRows(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	mirror := sheetsmem.New()
	w := NewSyncWorker(store, mirror, testTabs())

	if err := store.Save(ctx, storage.KeyCustomers, []core.Customer{
		{ID: "c1", Name: "John Doe"},
		{ID: "c2", Name: "Jane Smith"},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := w.HandleSyncMessage(ctx, amqp.NewCollectionSyncMessage(storage.KeyCustomers)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	if err := store.Save(ctx, storage.KeyCustomers, []core.Customer{
		{ID: "c2", Name: "Jane Smith"},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := w.HandleSyncMessage(ctx, amqp.NewCollectionSyncMessage(storage.KeyCustomers)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	rows, err := mirror.ReadRows(ctx, "Customers")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected deleted customer to disappear from tab, got %d rows", len(rows))
	}
}
