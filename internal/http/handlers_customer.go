package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"billing/internal/services"
)

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	customer := ParseCustomerForm(r.Form)
	created, err := s.services.Customers.Create(r.Context(), customer)
	if err != nil {
		UnprocessableEntityError("Invalid customer: " + err.Error()).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Customer created",
		"customer_id", created.ID,
		"customer_name", created.Name,
		"component", "customer_handler")

	NewHTMXResponse().
		TriggerCustomersChanged().
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Customer %q added", created.Name)).
		Write(w)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	customer := ParseCustomerForm(r.Form)
	err := s.services.Customers.Update(r.Context(), customer)
	switch {
	case errors.Is(err, services.ErrNotFound):
		NotFoundError("Customer not found").Write(w)
		return
	case err != nil:
		UnprocessableEntityError("Invalid customer: " + err.Error()).Write(w)
		return
	}

	NewHTMXResponse().
		TriggerCustomersChanged().
		TriggerSuccessNotification(fmt.Sprintf("Customer %q updated", customer.Name)).
		Write(w)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if err := s.services.Customers.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete customer", "customer_id", id, "error", err)
		InternalServerError("Error deleting customer").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerCustomersChanged().
		TriggerSuccessNotification("Customer deleted").
		Write(w)
}

func (s *Server) handleCustomersTable(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	s.renderPartial(w, r, "customers_table.html", struct {
		Customers interface{}
	}{
		Customers: s.services.Customers.List(r.Context()),
	})
}
