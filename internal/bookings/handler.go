package bookings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sanjuanmotors/concierge/pkg/logging"
)

// Handler exposes the appointments API.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates the appointments handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListByContact returns all bookings for a contact.
// GET /appointments/{contactID}
func (h *Handler) ListByContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")
	if contactID == "" {
		http.Error(w, "missing contact id", http.StatusBadRequest)
		return
	}

	list, err := h.repo.ListByContact(r.Context(), contactID)
	if err != nil {
		h.logger.Error("failed to list bookings", "contact_id", contactID, "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Booking{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"contact_id":   contactID,
		"appointments": list,
		"total":        len(list),
	})
}

type updateStatusRequest struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

// UpdateStatus transitions a booking's status.
// PUT /appointments/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(req.BookingID)
	if err != nil {
		http.Error(w, "invalid booking_id", http.StatusBadRequest)
		return
	}
	if !ValidStatus(req.Status) {
		http.Error(w, "status must be pending, confirmed or cancelled", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update booking status", "booking_id", id, "error", err)
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"booking_id": id.String(),
		"status":     req.Status,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
