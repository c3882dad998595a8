package messaging

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sanjuanmotors/concierge/pkg/logging"
)

// conversationService is the inbound side of the pipeline.
type conversationService interface {
	HandleMessage(ctx context.Context, contactID, body string) (string, error)
}

// Handler terminates the gateway webhook and the out-of-band send endpoint.
type Handler struct {
	svc       conversationService
	sender    Sender
	authToken string
	logger    *logging.Logger
}

// NewHandler creates the gateway handler. An empty authToken disables
// signature validation (local development).
func NewHandler(svc conversationService, sender Sender, authToken string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, sender: sender, authToken: authToken, logger: logger}
}

// Webhook handles an inbound WhatsApp message and answers with TwiML. The
// contact always receives a reply: any failure inside the pipeline degrades
// to a generic apology rather than a failed delivery.
// POST /bot/whatsapp
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.authToken != "" && !ValidSignature(h.authToken, r) {
		h.logger.Warn("webhook signature validation failed", "remote", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	msg, err := ParseWebhook(r)
	if err != nil {
		h.logger.Warn("malformed webhook", "error", err)
		http.Error(w, "malformed webhook", http.StatusBadRequest)
		return
	}

	reply := h.process(r.Context(), msg)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(TwiML(reply))
}

// process funnels every pipeline failure, panics included, into an
// apologetic reply.
func (h *Handler) process(ctx context.Context, msg InboundMessage) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic while processing message",
				"contact_id", msg.ContactID, "panic", rec)
			reply = genericApology
		}
	}()

	reply, err := h.svc.HandleMessage(ctx, msg.ContactID, msg.Body)
	if err != nil {
		h.logger.Error("message processing failed",
			"contact_id", msg.ContactID, "error", err)
		return genericApology
	}
	return reply
}

const genericApology = "Sorry, something went wrong on our side. Please try again in a moment."

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send pushes an out-of-band message to a contact.
// POST /bot/send
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.To == "" || req.Message == "" {
		http.Error(w, "to and message are required", http.StatusBadRequest)
		return
	}

	sid, err := h.sender.Send(req.To, req.Message)
	if err != nil {
		h.logger.Error("outbound send failed", "to", req.To, "error", err)
		http.Error(w, "failed to send message", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "sent",
		"id":     sid,
	})
}
