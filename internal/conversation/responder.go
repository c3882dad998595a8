package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sanjuanmotors/concierge/internal/history"
	"github.com/sanjuanmotors/concierge/internal/session"
	"github.com/sanjuanmotors/concierge/internal/vehicles"
	"github.com/sanjuanmotors/concierge/pkg/logging"
)

// Reply is the outcome of phrasing one response. Fallback is true when the
// generative backend failed and deterministic canned text was substituted.
type Reply struct {
	Text     string
	Fallback bool
}

// Responder phrases user-facing replies through the generative backend,
// bounded by a timeout, with deterministic fallbacks on failure.
type Responder struct {
	llm        LLMClient
	timeout    time.Duration
	dealership string
	catalog    *vehicles.Catalog
	logger     *logging.Logger
}

// NewResponder creates a responder. timeout <= 0 defaults to 10s.
func NewResponder(llm LLMClient, timeout time.Duration, dealership string, catalog *vehicles.Catalog, logger *logging.Logger) *Responder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if dealership == "" {
		dealership = "San Juan Motors"
	}
	if catalog == nil {
		catalog = vehicles.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{
		llm:        llm,
		timeout:    timeout,
		dealership: dealership,
		catalog:    catalog,
		logger:     logger,
	}
}

func (r *Responder) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the virtual assistant of %s, a car dealership.\n", r.dealership)
	b.WriteString(`Your job is to answer questions about our vehicles and help customers book a visit or test-drive appointment.

Style:
- Warm, conversational and brief; this is WhatsApp, keep replies short.
- Never invent prices or availability beyond the catalog you are given.
- Always confirm specific dates back to the customer when they use natural language (e.g. "Do you mean Monday 28 July?").
- If the customer seems ready to book, guide them to share their name, email, preferred date, time and the model they want to see.

Catalog:
`)
	for _, m := range r.catalog.Models() {
		if v, ok := r.catalog.Lookup(m); ok {
			fmt.Fprintf(&b, "- %s %d, %s: %s\n", v.Model, v.Year, v.PriceRange, v.Description)
		}
	}
	return b.String()
}

// Respond handles an open-ended utterance with full session and history
// context. It never returns an empty reply: backend failure degrades to a
// deterministic fallback chosen by whether the session is brand-new.
func (r *Responder) Respond(ctx context.Context, sess *session.Session, utterance string, turns []history.Turn) Reply {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation step: %s\n", sess.Step)
	if len(sess.Slots) > 0 {
		b.WriteString("Known booking data:\n")
		for _, key := range []string{session.SlotName, session.SlotEmail, session.SlotDate, session.SlotTime, session.SlotVehicle} {
			if v, ok := sess.Slot(key); ok {
				fmt.Fprintf(&b, "- %s: %s\n", key, v)
			}
		}
	}
	if v, ok := vehicleMention(utterance, r.catalog); ok {
		fmt.Fprintf(&b, "The customer mentioned the %s; surface its price range and highlights if relevant.\n", v.Model)
	}

	msgs := make([]ChatMessage, 0, len(turns)+1)
	// Turns arrive newest-first; the model wants chronological order.
	for i := len(turns) - 1; i >= 0; i-- {
		role := ChatRoleUser
		if turns[i].Speaker == history.SpeakerAssistant {
			role = ChatRoleAssistant
		}
		msgs = append(msgs, ChatMessage{Role: role, Content: turns[i].Body})
	}
	msgs = append(msgs, ChatMessage{Role: ChatRoleUser, Content: utterance})

	text, err := r.complete(ctx, []string{r.systemPrompt(), b.String()}, msgs)
	if err != nil {
		r.logger.Warn("generative backend unavailable, using fallback",
			"contact_id", sess.ContactID, "error", err)
		return Reply{Text: r.fallbackFor(sess), Fallback: true}
	}
	return Reply{Text: text}
}

// Phrase asks the backend to word a situational follow-up (a validator's
// confirmation or re-prompt). On failure the deterministic fallback text is
// returned unchanged.
func (r *Responder) Phrase(ctx context.Context, directive, fallback string) Reply {
	if r.llm == nil {
		return Reply{Text: fallback, Fallback: true}
	}
	text, err := r.complete(ctx,
		[]string{r.systemPrompt()},
		[]ChatMessage{{Role: ChatRoleUser, Content: directive}})
	if err != nil {
		r.logger.Warn("generative backend unavailable, using fallback", "error", err)
		return Reply{Text: fallback, Fallback: true}
	}
	return Reply{Text: text}
}

func (r *Responder) complete(ctx context.Context, system []string, msgs []ChatMessage) (string, error) {
	if r.llm == nil {
		return "", fmt.Errorf("conversation: no llm client configured")
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.llm.Complete(ctx, LLMRequest{
		System:      system,
		Messages:    msgs,
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", fmt.Errorf("conversation: backend returned empty text")
	}
	return strings.TrimSpace(resp.Text), nil
}

func (r *Responder) fallbackFor(sess *session.Session) string {
	if sess.Step == session.StepStart || sess.Step == "" {
		return fmt.Sprintf("Hello! I'm the %s assistant. How can I help you today? Would you like to hear about our vehicles or book an appointment?", r.dealership)
	}
	return fmt.Sprintf("Sorry, could you say that again? I'm here to help with %s information or to book your appointment.", r.dealership)
}

func vehicleMention(utterance string, catalog *vehicles.Catalog) (vehicles.Vehicle, bool) {
	lower := strings.ToLower(utterance)
	for _, m := range catalog.Models() {
		if strings.Contains(lower, strings.ToLower(m)) {
			return catalog.Lookup(m)
		}
	}
	return vehicles.Vehicle{}, false
}
