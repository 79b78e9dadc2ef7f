// Package pdf renders invoices as downloadable PDF documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"billing/internal/core"
)

// RenderInvoice produces an A4 invoice document. Monetary figures are
// rounded to two decimals for presentation only.
func RenderInvoice(inv core.Invoice, company core.CompanySettings) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Company header
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, company.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	for _, line := range []string{company.Address, company.Email, company.Phone} {
		if line == "" {
			continue
		}
		pdf.Cell(0, 5, line)
		pdf.Ln(5)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Invoice "+inv.InvoiceNumber)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, "Date: "+inv.Date)
	pdf.Ln(5)
	pdf.Cell(0, 5, "Status: "+string(inv.Status))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Bill To")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, inv.CustomerName)
	pdf.Ln(10)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 7, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Discount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(70, 7, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, money(item.Price, company.Currency), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.0f%%", item.Discount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, money(item.Total, company.Currency), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals block
	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", inv.Subtotal},
		{"Discount", inv.TotalDiscount},
		{"Tax", inv.Tax},
		{"Total", inv.Total},
	}
	for i, row := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 11)
		}
		pdf.CellFormat(150, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, money(row.value, company.Currency), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func money(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", core.Round2(amount))
	}
	return fmt.Sprintf("%.2f %s", core.Round2(amount), currency)
}
