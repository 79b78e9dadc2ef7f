// Package importer turns loosely structured tabular rows into validated
// products. Rows come from a CSV upload or a Google Sheets range; either way
// a row is a string-keyed map of header name to cell value, and each target
// field is resolved by probing an ordered list of accepted header aliases.
package importer

import (
	"errors"
	"strconv"
	"strings"

	"billing/internal/core"
)

// Row is one spreadsheet record keyed by header name.
type Row map[string]string

// ErrNoValidRows is returned when an import yields nothing usable. It is a
// user-facing condition, not a hard failure.
var ErrNoValidRows = errors.New("no valid products found")

// fieldAliases maps each product field to its accepted header names, in
// priority order. Matching is case-sensitive and exact; the first alias
// present in the row wins. New aliases are one-line additions here.
var fieldAliases = struct {
	name        []string
	price       []string
	discount    []string
	category    []string
	stock       []string
	description []string
}{
	name:        []string{"name", "Name", "product_name", "Product Name"},
	price:       []string{"price", "Price", "cost", "Cost"},
	discount:    []string{"discount", "Discount", "discount_percent", "Discount %"},
	category:    []string{"category", "Category", "type", "Type"},
	stock:       []string{"stock", "Stock", "quantity", "Quantity"},
	description: []string{"description", "Description", "notes", "Notes"},
}

// resolve probes the aliases in order and returns the first present value.
func resolve(row Row, aliases []string) string {
	for _, a := range aliases {
		if v, ok := row[a]; ok && v != "" {
			return v
		}
	}
	return ""
}

// parseFloatDefault parses a floating point cell, defaulting to 0 on
// missing or unparsable input.
func parseFloatDefault(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseIntDefault parses an integer cell, tolerating decimal notation by
// truncating. Defaults to 0 on missing or unparsable input.
func parseIntDefault(s string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int(v)
}

// MapRow resolves a single row into a product with a fresh synthetic id.
// The result is not yet filtered for acceptance.
func MapRow(row Row) core.Product {
	category := resolve(row, fieldAliases.category)
	if category == "" {
		category = "General"
	}
	return core.Product{
		ID:          "imported-" + core.NewProductID(),
		Name:        resolve(row, fieldAliases.name),
		Price:       parseFloatDefault(resolve(row, fieldAliases.price)),
		Discount:    parseFloatDefault(resolve(row, fieldAliases.discount)),
		Category:    category,
		Stock:       parseIntDefault(resolve(row, fieldAliases.stock)),
		Description: resolve(row, fieldAliases.description),
	}
}

// Normalize maps every row and keeps those with a non-empty name and a
// positive price, preserving input order. Rejected rows are dropped
// silently; only the aggregate zero-valid-rows condition is reported.
func Normalize(rows []Row) ([]core.Product, error) {
	products := make([]core.Product, 0, len(rows))
	for _, row := range rows {
		p := MapRow(row)
		if p.Name == "" || p.Price <= 0 {
			continue
		}
		products = append(products, p)
	}
	if len(products) == 0 {
		return nil, ErrNoValidRows
	}
	return products, nil
}
