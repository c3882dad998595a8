package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("bookings: not found")

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence for bookings.
type Repository struct {
	db     DB
	tracer trace.Tracer
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("bookings: db cannot be nil")
	}
	return &Repository{
		db:     db,
		tracer: otel.Tracer("concierge.internal.bookings"),
	}
}

// Create inserts a pending booking and returns it with its generated id.
func (r *Repository) Create(ctx context.Context, b Booking) (Booking, error) {
	ctx, span := r.tracer.Start(ctx, "bookings.create",
		trace.WithAttributes(attribute.String("contact.id", b.ContactID)))
	defer span.End()

	b.ID = uuid.New()
	b.Status = StatusPending
	b.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings (id, contact_id, customer_name, customer_email, preferred_date, preferred_time, vehicle_interest, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.ContactID, b.CustomerName, b.CustomerEmail, b.PreferredDate, b.PreferredTime, b.VehicleInterest, b.Status, b.CreatedAt)
	if err != nil {
		span.RecordError(err)
		return Booking{}, fmt.Errorf("bookings: insert: %w", err)
	}
	return b, nil
}

// ListByContact returns all bookings for a contact, newest first.
func (r *Repository) ListByContact(ctx context.Context, contactID string) ([]Booking, error) {
	ctx, span := r.tracer.Start(ctx, "bookings.list_by_contact",
		trace.WithAttributes(attribute.String("contact.id", contactID)))
	defer span.End()

	rows, err := r.db.Query(ctx, `
		SELECT id, contact_id, customer_name, customer_email, preferred_date, preferred_time, vehicle_interest, status, created_at
		FROM bookings
		WHERE contact_id = $1
		ORDER BY created_at DESC`,
		contactID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: list: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.ContactID, &b.CustomerName, &b.CustomerEmail, &b.PreferredDate, &b.PreferredTime, &b.VehicleInterest, &b.Status, &b.CreatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("bookings: scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: iterate: %w", err)
	}
	return out, nil
}

// UpdateStatus transitions a booking to the given status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	ctx, span := r.tracer.Start(ctx, "bookings.update_status",
		trace.WithAttributes(attribute.String("booking.status", status)))
	defer span.End()

	tag, err := r.db.Exec(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("bookings: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
