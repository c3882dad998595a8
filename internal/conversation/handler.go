package conversation

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanjuanmotors/concierge/pkg/logging"
)

// Handler exposes the conversation maintenance endpoints.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates the maintenance handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Reset hard-resets a contact's session and history.
// DELETE /conversation/{contactID}
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")
	if contactID == "" {
		http.Error(w, "missing contact id", http.StatusBadRequest)
		return
	}

	removed, err := h.svc.ResetContact(r.Context(), contactID)
	if err != nil {
		h.logger.Error("failed to reset conversation", "contact_id", contactID, "error", err)
		http.Error(w, "failed to reset conversation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"contact_id":    contactID,
		"turns_removed": removed,
	})
}

// Cleanup purges all expired conversation turns.
// POST /cleanup
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	purged, err := h.svc.Cleanup(r.Context())
	if err != nil {
		h.logger.Error("cleanup failed", "error", err)
		http.Error(w, "cleanup failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"turns_purged": purged,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
