package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"billing/internal/importer"
)

// maxImportSize caps uploaded CSV files at 5MB.
const maxImportSize = 5 << 20

func (s *Server) handleImportProducts(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		BadRequestError("Invalid upload").Write(w)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		BadRequestError("Missing file").Write(w)
		return
	}
	defer file.Close()

	rows, err := importer.ReadCSV(file)
	if err != nil {
		slog.WarnContext(r.Context(), "Import file rejected",
			"filename", header.Filename, "error", err)
		BadRequestError("Could not read the uploaded file").Write(w)
		return
	}

	imported, err := s.services.Products.Import(r.Context(), rows)
	if errors.Is(err, importer.ErrNoValidRows) {
		UnprocessableEntityError("No valid products found in the file").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Import failed", "filename", header.Filename, "error", err)
		InternalServerError("Error importing products").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Products imported",
		"filename", header.Filename,
		"count", len(imported),
		"component", "import_handler")

	NewHTMXResponse().
		TriggerProductsChanged().
		TriggerSuccessNotification(fmt.Sprintf("Imported %d products", len(imported))).
		Write(w)
}

func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+importer.TemplateFilename)
	w.Header().Set("Content-Type", "text/csv")
	if err := importer.WriteTemplate(w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write import template", "error", err)
	}
}

// handleImportSheet pulls rows from the configured spreadsheet tab and runs
// them through the same normalization as file uploads.
func (s *Server) handleImportSheet(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if s.sheetReader == nil {
		UnprocessableEntityError("No spreadsheet configured").Write(w)
		return
	}

	values, err := s.sheetReader.ReadRows(r.Context(), s.importSheet)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read import sheet",
			"sheet", s.importSheet, "error", err)
		InternalServerError("Error reading spreadsheet").Write(w)
		return
	}

	rows := importer.RowsFromValues(values)
	imported, err := s.services.Products.Import(r.Context(), rows)
	if errors.Is(err, importer.ErrNoValidRows) {
		UnprocessableEntityError("No valid products found in the sheet").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Sheet import failed", "sheet", s.importSheet, "error", err)
		InternalServerError("Error importing products").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Products imported from sheet",
		"sheet", s.importSheet,
		"count", len(imported),
		"component", "import_handler")

	NewHTMXResponse().
		TriggerProductsChanged().
		TriggerSuccessNotification(fmt.Sprintf("Imported %d products from %s", len(imported), s.importSheet)).
		Write(w)
}
