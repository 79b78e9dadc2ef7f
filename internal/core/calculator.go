// Package core holds the billing domain records and the invoice calculator.
//
// The calculator is pure: the same item list always produces the same
// figures, with no hidden state. All arithmetic is float64; rounding to two
// decimals happens only at presentation time via Round2 and is never
// persisted.
package core

import "math"

// DefaultTaxRate is the rate applied to the discounted subtotal. The
// company settings expose a separate configurable TaxRate that is not
// consulted here; invoice totals always use this fixed rate.
const DefaultTaxRate = 0.10

// Totals aggregates the whole-invoice monetary figures.
type Totals struct {
	Subtotal      float64
	TotalDiscount float64
	Tax           float64
	Total         float64
}

// ItemTotal computes the line total for one item:
//
//	(price - price*discount/100) * quantity
//
// No bounds checking happens here; callers clamp and validate. Out-of-range
// input produces whatever arithmetic result follows.
func ItemTotal(price, discount float64, quantity int) float64 {
	discountAmount := price * discount / 100
	return (price - discountAmount) * float64(quantity)
}

// PriceItems returns a copy of items with each Total recomputed.
func PriceItems(items []InvoiceItem) []InvoiceItem {
	out := make([]InvoiceItem, len(items))
	for i, it := range items {
		it.Total = ItemTotal(it.Price, it.Discount, it.Quantity)
		out[i] = it
	}
	return out
}

// ComputeTotals aggregates an ordered item sequence into invoice totals.
func ComputeTotals(items []InvoiceItem) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.Price * float64(it.Quantity)
		t.TotalDiscount += it.Price * it.Discount / 100 * float64(it.Quantity)
	}
	t.Tax = (t.Subtotal - t.TotalDiscount) * DefaultTaxRate
	t.Total = t.Subtotal - t.TotalDiscount + t.Tax
	return t
}

// Round2 rounds x to 2 decimal places for display.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
