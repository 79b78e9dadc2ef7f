package core

import (
	"strings"
	"testing"
	"time"
)

func TestProductValidate(t *testing.T) {
	good := Product{ID: "p1", Name: "Widget", Price: 50, Discount: 10, Category: "General", Stock: 3}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Product{
		{Name: "", Price: 1},
		{Name: "   ", Price: 1},
		{Name: "a", Price: -0.01},
		{Name: "a", Price: 1, Discount: -1},
		{Name: "a", Price: 1, Discount: 101},
		{Name: "a", Price: 1, Stock: -1},
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCustomerValidate(t *testing.T) {
	if err := (Customer{Name: "John Doe"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Customer{Name: " "}).Validate(); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestInvoiceValidate(t *testing.T) {
	item := InvoiceItem{ProductID: "p1", ProductName: "Widget", Quantity: 1, Price: 10}
	good := Invoice{CustomerID: "c1", CustomerName: "John", Items: []InvoiceItem{item}, Status: StatusDraft}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name string
		inv  Invoice
	}{
		{"no customer", Invoice{Items: []InvoiceItem{item}, Status: StatusDraft}},
		{"no items", Invoice{CustomerID: "c1", Status: StatusDraft}},
		{"zero quantity", Invoice{CustomerID: "c1", Items: []InvoiceItem{{Quantity: 0, Price: 10}}, Status: StatusDraft}},
		{"negative price", Invoice{CustomerID: "c1", Items: []InvoiceItem{{Quantity: 1, Price: -1}}, Status: StatusDraft}},
		{"bad status", Invoice{CustomerID: "c1", Items: []InvoiceItem{item}, Status: "archived"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.inv.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

// Every status variant is settable; there is no transition gating.
func TestStatusVariants(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusSent, StatusPaid, StatusOverdue} {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if Status("cancelled").Valid() {
		t.Errorf("unexpected valid status")
	}
}

func TestNewInvoiceNumber(t *testing.T) {
	now := time.UnixMilli(1735689600123)
	got := NewInvoiceNumber("INV", now)
	if !strings.HasPrefix(got, "INV-") {
		t.Fatalf("number %q missing prefix", got)
	}
	if len(got) != len("INV-")+6 {
		t.Fatalf("number %q should carry six digits", got)
	}
	if def := NewInvoiceNumber("", now); !strings.HasPrefix(def, "INV-") {
		t.Fatalf("empty prefix should fall back to INV, got %q", def)
	}
	if billed := NewInvoiceNumber("ACME", now); !strings.HasPrefix(billed, "ACME-") {
		t.Fatalf("custom prefix lost: %q", billed)
	}
}

func TestNewProductIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewProductID()
		if id == "" || seen[id] {
			t.Fatalf("duplicate or empty id %q at iteration %d", id, i)
		}
		seen[id] = true
	}
}

func TestInvoiceDate(t *testing.T) {
	d := InvoiceDate(time.Date(2026, 2, 3, 15, 4, 5, 0, time.UTC))
	if d != "2026-02-03" {
		t.Fatalf("InvoiceDate = %q", d)
	}
}
