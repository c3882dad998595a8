// Package bookings persists appointment requests captured by the
// conversation flow and exposes the auxiliary CRUD surface over them.
package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses. A booking is created pending and moves to confirmed or
// cancelled through the status endpoint.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is one appointment request.
type Booking struct {
	ID              uuid.UUID `json:"id"`
	ContactID       string    `json:"contact_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	PreferredDate   string    `json:"preferred_date"`
	PreferredTime   string    `json:"preferred_time"`
	VehicleInterest string    `json:"vehicle_interest"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// ValidStatus reports whether s is a status the API accepts.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}
