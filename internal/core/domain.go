package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

type (
	// Status is an invoice lifecycle label. Any variant may be set at
	// creation or edit time; there is no transition table and moves like
	// paid -> draft are allowed.
	Status string

	Product struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Discount    float64 `json:"discount"` // percent, 0-100
		Category    string  `json:"category"`
		Stock       int     `json:"stock"`
		Description string  `json:"description,omitempty"`
	}

	Customer struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}

	// InvoiceItem carries a denormalized snapshot of the product at the
	// time the invoice was built; later product edits do not touch it.
	InvoiceItem struct {
		ProductID   string  `json:"productId"`
		ProductName string  `json:"productName"`
		Quantity    int     `json:"quantity"`
		Price       float64 `json:"price"`
		Discount    float64 `json:"discount"` // percent, 0-100
		Total       float64 `json:"total"`
	}

	Invoice struct {
		ID            string        `json:"id"`
		InvoiceNumber string        `json:"invoiceNumber"`
		CustomerID    string        `json:"customerId"`
		CustomerName  string        `json:"customerName"`
		Items         []InvoiceItem `json:"items"`
		Subtotal      float64       `json:"subtotal"`
		TotalDiscount float64       `json:"totalDiscount"`
		Tax           float64       `json:"tax"`
		Total         float64       `json:"total"`
		Date          string        `json:"date"` // YYYY-MM-DD
		Status        Status        `json:"status"`
	}

	// CompanySettings is a process-wide singleton, loaded once and
	// overwritten wholesale on save. TaxRate is stored here but invoice
	// computation uses the fixed DefaultTaxRate (see calculator.go).
	CompanySettings struct {
		Name          string  `json:"name"`
		Email         string  `json:"email"`
		Phone         string  `json:"phone"`
		Address       string  `json:"address"`
		TaxRate       float64 `json:"taxRate"` // percent
		Currency      string  `json:"currency"`
		InvoicePrefix string  `json:"invoicePrefix"`
	}
)

var (
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNoCustomer      = errors.New("no customer selected")
	ErrNoItems         = errors.New("invoice has no items")
	ErrUnknownStatus   = errors.New("unknown invoice status")
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.Discount < 0 || p.Discount > 100 {
		return ErrInvalidDiscount
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (it InvoiceItem) Validate() error {
	if it.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if it.Price < 0 {
		return ErrInvalidPrice
	}
	if it.Discount < 0 || it.Discount > 100 {
		return ErrInvalidDiscount
	}
	return nil
}

func (inv Invoice) Validate() error {
	if strings.TrimSpace(inv.CustomerID) == "" {
		return ErrNoCustomer
	}
	if len(inv.Items) == 0 {
		return ErrNoItems
	}
	for i, it := range inv.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	if !inv.Status.Valid() {
		return ErrUnknownStatus
	}
	return nil
}

// NewProductID returns a fresh synthetic product id. Ids are never derived
// from content, so importing the same file twice yields distinct products.
func NewProductID() string {
	return uuid.NewString()
}

func NewCustomerID() string {
	return uuid.NewString()
}

// NewInvoiceID returns a timestamp-based invoice id.
func NewInvoiceID(now time.Time) string {
	return fmt.Sprintf("invoice-%d", now.UnixMilli())
}

// NewInvoiceNumber builds an invoice number from the configured prefix and
// the last six digits of the current unix milliseconds. Uniqueness is only
// time-derived; two invoices created in the same millisecond would collide.
func NewInvoiceNumber(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "INV"
	}
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return prefix + "-" + ms
}

// InvoiceDate formats the calendar date of creation.
func InvoiceDate(now time.Time) string {
	return now.Format("2006-01-02")
}
