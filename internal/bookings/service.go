package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/sanjuanmotors/concierge/internal/session"
	"github.com/sanjuanmotors/concierge/pkg/logging"
)

// ErrIncompleteData is returned when a finalize is attempted before all
// required slots are captured.
var ErrIncompleteData = errors.New("bookings: incomplete booking data")

// UnspecifiedVehicle is stored when a customer never named a model.
const UnspecifiedVehicle = "unspecified"

type bookingStore interface {
	Create(ctx context.Context, b Booking) (Booking, error)
}

type sessionStore interface {
	Delete(ctx context.Context, contactID string) error
}

// Service turns a completed session into a persisted booking.
type Service struct {
	repo     bookingStore
	sessions sessionStore
	logger   *logging.Logger
}

// NewService creates the booking finalizer.
func NewService(repo bookingStore, sessions sessionStore, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, sessions: sessions, logger: logger}
}

// Finalize persists a booking from the session's slots and clears the
// session. Name, email, date and time are required; the vehicle slot falls
// back to "unspecified".
func (s *Service) Finalize(ctx context.Context, sess *session.Session) (Booking, error) {
	name, okName := sess.Slot(session.SlotName)
	email, okEmail := sess.Slot(session.SlotEmail)
	date, okDate := sess.Slot(session.SlotDate)
	hour, okTime := sess.Slot(session.SlotTime)
	if !okName || !okEmail || !okDate || !okTime {
		return Booking{}, ErrIncompleteData
	}

	vehicle, ok := sess.Slot(session.SlotVehicle)
	if !ok {
		vehicle = UnspecifiedVehicle
	}

	created, err := s.repo.Create(ctx, Booking{
		ContactID:       sess.ContactID,
		CustomerName:    name,
		CustomerEmail:   email,
		PreferredDate:   date,
		PreferredTime:   hour,
		VehicleInterest: vehicle,
	})
	if err != nil {
		return Booking{}, fmt.Errorf("bookings: finalize: %w", err)
	}

	if err := s.sessions.Delete(ctx, sess.ContactID); err != nil {
		// The booking is already durable; a stale session only re-prompts.
		s.logger.Warn("failed to clear session after booking",
			"contact_id", sess.ContactID, "error", err)
	}

	s.logger.Info("booking created",
		"booking_id", created.ID, "contact_id", created.ContactID,
		"date", created.PreferredDate, "time", created.PreferredTime)
	return created, nil
}
