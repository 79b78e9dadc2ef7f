// Package http provides the billing HTTP server and handlers.
//
// This file implements utilities for parsing and validating HTTP request
// data: form guards and the domain form decoders shared by the handlers.

package http

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"billing/internal/core"
)

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on
// failure. Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}

func formFloat(form url.Values, key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(form.Get(key)), 64)
	if err != nil {
		return 0
	}
	return v
}

func formInt(form url.Values, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(form.Get(key)))
	if err != nil {
		return 0
	}
	return v
}

// ParseProductForm decodes a product from form values. Malformed numeric
// fields decode to zero; Validate on the result decides acceptance.
func ParseProductForm(form url.Values) core.Product {
	return core.Product{
		ID:          sanitizeInput(form.Get("id")),
		Name:        sanitizeInput(form.Get("name")),
		Price:       formFloat(form, "price"),
		Discount:    formFloat(form, "discount"),
		Category:    sanitizeInput(form.Get("category")),
		Stock:       formInt(form, "stock"),
		Description: sanitizeInput(form.Get("description")),
	}
}

// ParseCustomerForm decodes a customer from form values.
func ParseCustomerForm(form url.Values) core.Customer {
	return core.Customer{
		ID:      sanitizeInput(form.Get("id")),
		Name:    sanitizeInput(form.Get("name")),
		Email:   sanitizeInput(form.Get("email")),
		Phone:   sanitizeInput(form.Get("phone")),
		Address: sanitizeInput(form.Get("address")),
	}
}

// ParseSettingsForm decodes the company settings record from form values.
func ParseSettingsForm(form url.Values) core.CompanySettings {
	return core.CompanySettings{
		Name:          sanitizeInput(form.Get("name")),
		Email:         sanitizeInput(form.Get("email")),
		Phone:         sanitizeInput(form.Get("phone")),
		Address:       sanitizeInput(form.Get("address")),
		TaxRate:       formFloat(form, "taxRate"),
		Currency:      sanitizeInput(form.Get("currency")),
		InvoicePrefix: sanitizeInput(form.Get("invoicePrefix")),
	}
}

// ExtractInvoiceItems reads indexed item fields from a form. Indices are
// collected from the submitted keys and visited in ascending order, so gaps
// left by removed rows do not truncate the item list. Item totals are left
// for the calculator.
//
// Expected keys: items[0][productId], items[0][productName],
// items[0][quantity], items[0][price], items[0][discount], ...
func ExtractInvoiceItems(form url.Values) ([]core.InvoiceItem, error) {
	var indices []int
	for key := range form {
		var i int
		if _, err := fmt.Sscanf(key, "items[%d][productId]", &i); err == nil {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)

	var items []core.InvoiceItem
	for _, i := range indices {
		prefix := fmt.Sprintf("items[%d]", i)

		quantity, err := strconv.Atoi(strings.TrimSpace(form.Get(prefix + "[quantity]")))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity at item %d", i)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(form.Get(prefix+"[price]")), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price at item %d", i)
		}
		discount := 0.0
		if v := strings.TrimSpace(form.Get(prefix + "[discount]")); v != "" {
			discount, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid discount at item %d", i)
			}
		}

		items = append(items, core.InvoiceItem{
			ProductID:   sanitizeInput(form.Get(prefix + "[productId]")),
			ProductName: sanitizeInput(form.Get(prefix + "[productName]")),
			Quantity:    quantity,
			Price:       price,
			Discount:    discount,
		})
	}

	return items, nil
}
