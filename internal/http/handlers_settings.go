package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	settings := ParseSettingsForm(r.Form)
	if err := s.services.Settings.Save(r.Context(), settings); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save settings", "error", err)
		InternalServerError("Error saving settings").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Settings saved",
		"company_name", settings.Name,
		"currency", settings.Currency,
		"component", "settings_handler")

	NewHTMXResponse().
		TriggerSettingsSaved().
		TriggerSuccessNotification("Settings saved").
		Write(w)
}
