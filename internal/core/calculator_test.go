package core

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestItemTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		quantity int
		want     float64
	}{
		{"no discount", 100, 0, 2, 200},
		{"ten percent", 150, 10, 1, 135},
		{"full discount", 80, 100, 3, 0},
		{"zero price", 0, 50, 5, 0},
		{"fractional price", 19.99, 5, 2, (19.99 - 19.99*0.05) * 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemTotal(tt.price, tt.discount, tt.quantity)
			if !almostEqual(got, tt.want) {
				t.Errorf("ItemTotal(%v, %v, %d) = %v, want %v", tt.price, tt.discount, tt.quantity, got, tt.want)
			}
			if tt.price >= 0 && tt.discount >= 0 && tt.discount <= 100 && got < 0 {
				t.Errorf("ItemTotal produced negative total %v for in-range input", got)
			}
		})
	}
}

// The calculator intentionally performs no bounds checking; out-of-range
// input flows straight through the arithmetic.
func TestItemTotalNoBoundsChecking(t *testing.T) {
	if got := ItemTotal(-50, 0, 2); got != -100 {
		t.Errorf("negative price: got %v, want -100", got)
	}
	if got := ItemTotal(100, 200, 1); got != -100 {
		t.Errorf("discount over 100: got %v, want -100", got)
	}
}

func TestComputeTotalsTwoItems(t *testing.T) {
	items := PriceItems([]InvoiceItem{
		{ProductName: "Item A", Price: 100, Discount: 0, Quantity: 2},
		{ProductName: "Item B", Price: 150, Discount: 10, Quantity: 1},
	})
	got := ComputeTotals(items)

	if !almostEqual(got.Subtotal, 350) {
		t.Errorf("Subtotal = %v, want 350", got.Subtotal)
	}
	if !almostEqual(got.TotalDiscount, 15) {
		t.Errorf("TotalDiscount = %v, want 15", got.TotalDiscount)
	}
	if !almostEqual(got.Tax, 33.5) {
		t.Errorf("Tax = %v, want 33.5", got.Tax)
	}
	if !almostEqual(got.Total, 368.5) {
		t.Errorf("Total = %v, want 368.5", got.Total)
	}
}

func TestComputeTotalsIdentity(t *testing.T) {
	items := []InvoiceItem{
		{Price: 12.34, Discount: 7, Quantity: 3},
		{Price: 0.99, Discount: 0, Quantity: 10},
		{Price: 500, Discount: 50, Quantity: 1},
	}
	got := ComputeTotals(items)
	if !almostEqual(got.Total, got.Subtotal-got.TotalDiscount+got.Tax) {
		t.Errorf("total identity violated: %+v", got)
	}
}

func TestComputeTotalsIdempotent(t *testing.T) {
	items := []InvoiceItem{
		{Price: 33.33, Discount: 12.5, Quantity: 7},
		{Price: 100, Discount: 0, Quantity: 1},
	}
	first := ComputeTotals(items)
	second := ComputeTotals(items)
	// Bit-identical, not just within tolerance.
	if first != second {
		t.Errorf("recomputation differs: %+v vs %+v", first, second)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil)
	if got.Subtotal != 0 || got.TotalDiscount != 0 || got.Tax != 0 || got.Total != 0 {
		t.Errorf("empty item list should produce zero totals, got %+v", got)
	}
}

func TestPriceItemsDoesNotMutateInput(t *testing.T) {
	in := []InvoiceItem{{Price: 100, Discount: 10, Quantity: 2, Total: -1}}
	out := PriceItems(in)
	if in[0].Total != -1 {
		t.Errorf("input slice was mutated: %+v", in[0])
	}
	if !almostEqual(out[0].Total, 180) {
		t.Errorf("out total = %v, want 180", out[0].Total)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{33.4999, 33.5},
		{368.5, 368.5},
		{1.005, 1.0}, // 1.005 is stored slightly below 1.005
		{2.675, 2.67},
		{10.994999, 10.99},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
