package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"billing/internal/core"
	"billing/internal/pdf"
	"billing/internal/services"
)

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	customerID := sanitizeInput(r.Form.Get("customerId"))
	status := core.Status(sanitizeInput(r.Form.Get("status")))

	items, err := ExtractInvoiceItems(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	invoice, err := s.services.Invoices.Create(r.Context(), customerID, items, status)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNoCustomer), errors.Is(err, core.ErrNoItems):
			UnprocessableEntityError("Please select a customer and add at least one item").Write(w)
		default:
			UnprocessableEntityError("Invalid invoice: " + err.Error()).Write(w)
		}
		return
	}

	slog.InfoContext(r.Context(), "Invoice created",
		"invoice_id", invoice.ID,
		"invoice_number", invoice.InvoiceNumber,
		"customer_id", invoice.CustomerID,
		"total", invoice.Total,
		"component", "invoice_handler")

	currency := s.services.Settings.Settings(r.Context()).Currency
	NewHTMXResponse().
		TriggerInvoicesChanged().
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Invoice %s created: %s",
			invoice.InvoiceNumber, formatMoney(invoice.Total, currency))).
		Write(w)
}

func (s *Server) handleInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	status := core.Status(sanitizeInput(r.Form.Get("status")))

	err := s.services.Invoices.UpdateStatus(r.Context(), id, status)
	switch {
	case errors.Is(err, core.ErrUnknownStatus):
		UnprocessableEntityError("Unknown invoice status").Write(w)
		return
	case errors.Is(err, services.ErrNotFound):
		NotFoundError("Invoice not found").Write(w)
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to update invoice status", "invoice_id", id, "error", err)
		InternalServerError("Error updating invoice").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerInvoicesChanged().
		TriggerSuccessNotification("Invoice marked as " + string(status)).
		Write(w)
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if err := s.services.Invoices.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete invoice", "invoice_id", id, "error", err)
		InternalServerError("Error deleting invoice").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerInvoicesChanged().
		TriggerSuccessNotification("Invoice deleted").
		Write(w)
}

func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.URL.Query().Get("id"))
	invoice, err := s.services.Invoices.Get(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		NotFoundError("Invoice not found").Write(w)
		return
	}

	company := s.services.Settings.Settings(r.Context())
	out, err := pdf.RenderInvoice(invoice, company)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to render invoice pdf", "invoice_id", id, "error", err)
		InternalServerError("Error rendering invoice").Write(w)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.InvoiceNumber))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	_, _ = w.Write(out)
}

func (s *Server) handleInvoicesTable(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	query := sanitizeInput(r.URL.Query().Get("q"))
	s.renderPartial(w, r, "invoices_table.html", struct {
		Invoices interface{}
		Query    string
		Currency string
	}{
		Invoices: s.services.Invoices.Search(r.Context(), query),
		Query:    query,
		Currency: s.services.Settings.Settings(r.Context()).Currency,
	})
}
