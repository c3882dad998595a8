package session

import "time"

// Step is the discrete position in the slot-filling flow.
type Step string

const (
	StepStart           Step = "start"
	StepAwaitingName    Step = "awaiting_name"
	StepAwaitingEmail   Step = "awaiting_email"
	StepAwaitingDate    Step = "awaiting_date"
	StepAwaitingTime    Step = "awaiting_time"
	StepAwaitingVehicle Step = "awaiting_vehicle"
	StepConfirming      Step = "confirming"
	StepGeneral         Step = "general"
	StepCompleted       Step = "completed"
)

// Slot keys form a fixed vocabulary; an absent key means "not yet known".
const (
	SlotName          = "name"
	SlotEmail         = "email"
	SlotDate          = "date"
	SlotDateRaw       = "date_raw"
	SlotDateConfirmed = "date_confirmed_text"
	SlotTime          = "time"
	SlotVehicle       = "vehicle"
)

// Session is the persisted conversational state for one contact.
type Session struct {
	ContactID string            `json:"contact_id"`
	Step      Step              `json:"step"`
	Slots     map[string]string `json:"slots"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New creates a fresh session at the start step.
func New(contactID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ContactID: contactID,
		Step:      StepStart,
		Slots:     make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Slot returns the value for a slot key; ok is false when unknown.
func (s *Session) Slot(key string) (string, bool) {
	v, ok := s.Slots[key]
	return v, ok && v != ""
}

// MergeSlots folds newly extracted values into the session. Empty values are
// skipped so known data is never silently overwritten with nothing.
func (s *Session) MergeSlots(values map[string]string) {
	if s.Slots == nil {
		s.Slots = make(map[string]string)
	}
	for k, v := range values {
		if v == "" {
			continue
		}
		s.Slots[k] = v
	}
}

// MissingRequired returns the unfilled booking slots in ask order:
// name, email, date, time, vehicle.
func (s *Session) MissingRequired() []string {
	var missing []string
	for _, key := range []string{SlotName, SlotEmail, SlotDate, SlotTime, SlotVehicle} {
		if _, ok := s.Slot(key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// HasBookingData reports whether any booking slot has been collected.
func (s *Session) HasBookingData() bool {
	for _, key := range []string{SlotName, SlotEmail, SlotDate, SlotTime, SlotVehicle} {
		if _, ok := s.Slot(key); ok {
			return true
		}
	}
	return false
}
