package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sanjuanmotors/concierge/internal/dates"
	"github.com/sanjuanmotors/concierge/internal/extract"
	"github.com/sanjuanmotors/concierge/internal/history"
	"github.com/sanjuanmotors/concierge/internal/session"
	"github.com/sanjuanmotors/concierge/internal/vehicles"
)

// bookingIntentKeywords signal the customer wants to start or resume the
// appointment flow, in either language the dealership serves.
var bookingIntentKeywords = []string{
	"book", "appointment", "schedule", "reserve", "test drive", "continue",
	"cita", "agendar", "reservar", "continuar", "confirmar",
}

var affirmativeKeywords = []string{
	"yes", "confirm", "ok", "okay", "sure", "correct", "perfect", "yep",
	"si", "sí", "confirmo", "vale", "perfecto", "correcto",
}

// Outcome is the result of one state-machine turn.
type Outcome struct {
	Reply Reply
	// Finalize is set when the customer confirmed a complete booking; the
	// caller runs the finalizer under the same per-contact lock.
	Finalize bool
}

type handlerFunc func(ctx context.Context, sess *session.Session, utterance string) Outcome

// Engine is the slot-filling state machine. Validators run deterministically;
// the generative backend is only consulted to phrase follow-ups.
type Engine struct {
	responder *Responder
	catalog   *vehicles.Catalog
	names     extract.NameExtractor
	openHour  int
	closeHour int
	handlers  map[session.Step]handlerFunc
	now       func() time.Time
}

// NewEngine builds the state machine. Business hours default to 09:00-18:00
// when open/close are zero.
func NewEngine(responder *Responder, catalog *vehicles.Catalog, names extract.NameExtractor, openHour, closeHour int) *Engine {
	if catalog == nil {
		catalog = vehicles.Default()
	}
	if openHour == 0 && closeHour == 0 {
		openHour, closeHour = 9, 18
	}
	e := &Engine{
		responder: responder,
		catalog:   catalog,
		names:     names,
		openHour:  openHour,
		closeHour: closeHour,
		now:       time.Now,
	}
	e.handlers = map[session.Step]handlerFunc{
		session.StepAwaitingEmail:   e.handleEmail,
		session.StepAwaitingDate:    e.handleDate,
		session.StepAwaitingTime:    e.handleTime,
		session.StepAwaitingVehicle: e.handleVehicle,
		session.StepConfirming:      e.handleConfirm,
	}
	return e
}

// Handle runs one turn: it mutates the session's step and slots and returns
// the reply. Persisting the session is the caller's job.
func (e *Engine) Handle(ctx context.Context, sess *session.Session, utterance string, turns []history.Turn) Outcome {
	if h, ok := e.handlers[sess.Step]; ok {
		return h(ctx, sess, utterance)
	}
	return e.handleGeneral(ctx, sess, utterance, turns)
}

func hasBookingIntent(utterance string) bool {
	lower := strings.ToLower(utterance)
	for _, kw := range bookingIntentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isAffirmative(utterance string) bool {
	lower := strings.ToLower(strings.TrimSpace(utterance))
	for _, kw := range affirmativeKeywords {
		if lower == kw || strings.HasPrefix(lower, kw+" ") || strings.HasPrefix(lower, kw+",") {
			return true
		}
	}
	return false
}

// handleGeneral covers start, general, completed and awaiting_name. It
// extracts whatever slots the utterance offers, resumes a saved flow on
// booking intent, and otherwise delegates phrasing to the responder. The
// next step is decided from the slots, never from generated text.
func (e *Engine) handleGeneral(ctx context.Context, sess *session.Session, utterance string, turns []history.Turn) Outcome {
	prompted := sess.Step == session.StepAwaitingName
	extracted := map[string]string{}

	if name, ok := e.names.Extract(utterance, prompted); ok {
		extracted[session.SlotName] = name
	}
	if email, ok := extract.Email(utterance); ok {
		extracted[session.SlotEmail] = email
	}
	if model, ok := extract.Vehicle(utterance, e.catalog.Models()); ok {
		extracted[session.SlotVehicle] = model
	}
	sess.MergeSlots(extracted)

	intent := hasBookingIntent(utterance)

	// A returning customer with saved data asks to continue: request only
	// the next missing slot instead of restarting.
	if (intent || prompted) && sess.HasBookingData() {
		return e.resume(ctx, sess)
	}
	if intent {
		sess.Step = session.StepAwaitingName
		return Outcome{Reply: e.responder.Phrase(ctx,
			"The customer wants to book an appointment. Ask for their full name to get started.",
			"Great, let's book your visit! Could you tell me your full name?")}
	}

	if prompted {
		// Still waiting on a usable name; let the responder re-ask naturally.
		reply := e.responder.Respond(ctx, sess, utterance, turns)
		return Outcome{Reply: reply}
	}

	sess.Step = session.StepGeneral
	return Outcome{Reply: e.responder.Respond(ctx, sess, utterance, turns)}
}

// resume asks for the single next missing slot in priority order.
func (e *Engine) resume(ctx context.Context, sess *session.Session) Outcome {
	missing := sess.MissingRequired()
	if len(missing) == 0 {
		sess.Step = session.StepConfirming
		return Outcome{Reply: Reply{Text: e.summary(sess)}}
	}

	name, _ := sess.Slot(session.SlotName)
	switch missing[0] {
	case session.SlotName:
		sess.Step = session.StepAwaitingName
		return Outcome{Reply: Reply{Text: "To continue with your appointment, could you tell me your full name?"}}
	case session.SlotEmail:
		sess.Step = session.StepAwaitingEmail
		return Outcome{Reply: Reply{Text: fmt.Sprintf("Thanks, %s! Now I just need your email address.", name)}}
	case session.SlotDate:
		sess.Step = session.StepAwaitingDate
		return Outcome{Reply: Reply{Text: fmt.Sprintf("Thanks, %s! What date would you like for your appointment?", name)}}
	case session.SlotTime:
		date, _ := sess.Slot(session.SlotDate)
		sess.Step = session.StepAwaitingTime
		return Outcome{Reply: Reply{Text: fmt.Sprintf("What time works for you on %s?", date)}}
	default:
		sess.Step = session.StepAwaitingVehicle
		return Outcome{Reply: Reply{Text: fmt.Sprintf("Which model would you like to see? We have %s.", e.catalog.ModelList())}}
	}
}

func (e *Engine) handleEmail(ctx context.Context, sess *session.Session, utterance string) Outcome {
	email, ok := extract.Email(utterance)
	if !ok {
		return Outcome{Reply: Reply{Text: "That doesn't look like a valid email address. Could you double-check the format? For example: name@example.com"}}
	}
	sess.MergeSlots(map[string]string{session.SlotEmail: email})
	sess.Step = session.StepAwaitingDate
	return Outcome{Reply: e.responder.Phrase(ctx,
		fmt.Sprintf("The customer's email %s was captured. Confirm it briefly and ask what date they'd like for the appointment.", email),
		fmt.Sprintf("Thanks, I've noted %s. What date would you like for your appointment? You can say things like \"tomorrow\" or \"next Monday\".", email))}
}

func (e *Engine) handleDate(ctx context.Context, sess *session.Session, utterance string) Outcome {
	resolved, ok := dates.Resolve(utterance, e.now())
	if !ok {
		resolved, ok = dates.ParseFixed(strings.TrimSpace(utterance))
	}
	if !ok {
		return Outcome{Reply: Reply{Text: "I couldn't make out that date. You can say something like \"tomorrow\", \"next Monday\", \"in 3 days\" or give it as DD/MM/YYYY."}}
	}

	confirmed := dates.Confirmation(resolved)
	sess.MergeSlots(map[string]string{
		session.SlotDate:          dates.FormatSlot(resolved),
		session.SlotDateRaw:       utterance,
		session.SlotDateConfirmed: confirmed,
	})
	sess.Step = session.StepAwaitingTime
	return Outcome{Reply: e.responder.Phrase(ctx,
		fmt.Sprintf("The appointment date resolved to %s. Confirm that specific date and ask what time they prefer.", confirmed),
		fmt.Sprintf("Perfect, %s it is. What time works best for you?", confirmed))}
}

func (e *Engine) handleTime(ctx context.Context, sess *session.Session, utterance string) Outcome {
	// "actually, about my appointment..." mid-question is a context switch,
	// not a time answer.
	if hasBookingIntent(utterance) {
		return e.handleGeneral(ctx, sess, utterance, nil)
	}

	hhmm, ok := extract.Time(utterance)
	if !ok {
		return Outcome{Reply: Reply{Text: "What time would you like? You can say it like \"15:00\" or \"3 pm\"."}}
	}
	if !e.withinBusinessHours(hhmm) {
		return Outcome{Reply: Reply{Text: fmt.Sprintf("We're open from %02d:00 to %02d:00. Could you pick a time within those hours?", e.openHour, e.closeHour)}}
	}

	sess.MergeSlots(map[string]string{session.SlotTime: hhmm})
	if _, ok := sess.Slot(session.SlotVehicle); !ok {
		sess.Step = session.StepAwaitingVehicle
		return Outcome{Reply: e.responder.Phrase(ctx,
			fmt.Sprintf("The appointment time %s was captured. Confirm it and ask which model they'd like to see or test-drive. Available: %s.", hhmm, e.catalog.ModelList()),
			fmt.Sprintf("Got it, %s. Which model would you like to see? We have %s.", hhmm, e.catalog.ModelList()))}
	}
	sess.Step = session.StepConfirming
	return Outcome{Reply: Reply{Text: e.summary(sess)}}
}

func (e *Engine) handleVehicle(ctx context.Context, sess *session.Session, utterance string) Outcome {
	model, ok := extract.Vehicle(utterance, e.catalog.Models())
	if !ok {
		return Outcome{Reply: Reply{Text: fmt.Sprintf("I didn't catch a model there. We currently have %s — which one interests you?", e.catalog.ModelList())}}
	}
	sess.MergeSlots(map[string]string{session.SlotVehicle: model})
	sess.Step = session.StepConfirming
	return Outcome{Reply: Reply{Text: e.summary(sess)}}
}

func (e *Engine) handleConfirm(ctx context.Context, sess *session.Session, utterance string) Outcome {
	if isAffirmative(utterance) {
		return Outcome{
			Reply:    Reply{Text: e.confirmationMessage(sess)},
			Finalize: true,
		}
	}

	// Any rejection restarts from the date step; earlier slots are kept.
	sess.Step = session.StepAwaitingDate
	return Outcome{Reply: e.responder.Phrase(ctx,
		"The customer wants to change something about the appointment. Apologize briefly and ask what date they'd prefer instead.",
		"No problem, let's adjust it. What date would you like instead?")}
}

func (e *Engine) withinBusinessHours(hhmm string) bool {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return false
	}
	minutes := h*60 + m
	return minutes >= e.openHour*60 && minutes <= e.closeHour*60
}

func (e *Engine) summary(sess *session.Session) string {
	name, _ := sess.Slot(session.SlotName)
	email, _ := sess.Slot(session.SlotEmail)
	hhmm, _ := sess.Slot(session.SlotTime)
	date, _ := sess.Slot(session.SlotDateConfirmed)
	if date == "" {
		date, _ = sess.Slot(session.SlotDate)
	}
	vehicle, _ := sess.Slot(session.SlotVehicle)
	if vehicle == "" {
		vehicle = "to be decided"
	}

	return fmt.Sprintf(`Perfect, I have everything I need:

📋 Appointment summary
• Name: %s
• Email: %s
• Date: %s
• Time: %s
• Vehicle: %s

Shall I confirm this appointment?`, name, email, date, hhmm, vehicle)
}

func (e *Engine) confirmationMessage(sess *session.Session) string {
	date, _ := sess.Slot(session.SlotDateConfirmed)
	if date == "" {
		date, _ = sess.Slot(session.SlotDate)
	}
	hhmm, _ := sess.Slot(session.SlotTime)
	return fmt.Sprintf("✅ Your appointment is booked for %s at %s. We'll be expecting you — feel free to write me if anything changes!", date, hhmm)
}
