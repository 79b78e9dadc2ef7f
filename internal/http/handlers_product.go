package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"billing/internal/services"
)

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	product := ParseProductForm(r.Form)
	created, err := s.services.Products.Create(r.Context(), product)
	if err != nil {
		UnprocessableEntityError("Invalid product: " + err.Error()).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Product created",
		"product_id", created.ID,
		"product_name", created.Name,
		"component", "product_handler")

	NewHTMXResponse().
		TriggerProductsChanged().
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Product %q added", created.Name)).
		Write(w)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	product := ParseProductForm(r.Form)
	err := s.services.Products.Update(r.Context(), product)
	switch {
	case errors.Is(err, services.ErrNotFound):
		NotFoundError("Product not found").Write(w)
		return
	case err != nil:
		UnprocessableEntityError("Invalid product: " + err.Error()).Write(w)
		return
	}

	NewHTMXResponse().
		TriggerProductsChanged().
		TriggerSuccessNotification(fmt.Sprintf("Product %q updated", product.Name)).
		Write(w)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if err := s.services.Products.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete product", "product_id", id, "error", err)
		InternalServerError("Error deleting product").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerProductsChanged().
		TriggerSuccessNotification("Product deleted").
		Write(w)
}

func (s *Server) handleProductsTable(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	s.renderPartial(w, r, "products_table.html", struct {
		Products interface{}
		Currency string
	}{
		Products: s.services.Products.List(r.Context()),
		Currency: s.services.Settings.Settings(r.Context()).Currency,
	})
}

// renderPartial executes a named template into a buffer first so a template
// failure yields a clean 500 instead of a half-written body.
func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Partial template execution failed",
			"error", err, "template", name)
		http.Error(w, template.HTMLEscapeString(err.Error()), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
