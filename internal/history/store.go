// Package history persists the append-only conversation transcript. Turns
// carry their own expiry and are purged in bulk by the cleanup endpoint.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
)

// Turn is one inbound or outbound message.
type Turn struct {
	ID        uuid.UUID
	ContactID string
	Speaker   string
	Body      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists conversation turns to PostgreSQL.
type Store struct {
	db     DB
	ttl    time.Duration
	tracer trace.Tracer
}

// NewStore creates a turn store. ttl <= 0 defaults to one week.
func NewStore(db DB, ttl time.Duration) *Store {
	if db == nil {
		panic("history: db cannot be nil")
	}
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &Store{
		db:     db,
		ttl:    ttl,
		tracer: otel.Tracer("concierge.internal.history"),
	}
}

// Append records one turn for the contact.
func (s *Store) Append(ctx context.Context, contactID, speaker, body string) error {
	ctx, span := s.tracer.Start(ctx, "history.append")
	defer span.End()

	now := time.Now().UTC()
	_, err := s.db.Exec(ctx, `
		INSERT INTO conversation_turns (id, contact_id, speaker, body, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), contactID, speaker, body, now, now.Add(s.ttl))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("history: failed to append turn: %w", err)
	}
	return nil
}

// Recent returns up to limit live turns for the contact, most recent first.
func (s *Store) Recent(ctx context.Context, contactID string, limit int) ([]Turn, error) {
	ctx, span := s.tracer.Start(ctx, "history.recent")
	defer span.End()

	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, contact_id, speaker, body, created_at, expires_at
		FROM conversation_turns
		WHERE contact_id = $1 AND expires_at > now()
		ORDER BY created_at DESC
		LIMIT $2
	`, contactID, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("history: failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.ContactID, &t.Speaker, &t.Body, &t.CreatedAt, &t.ExpiresAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("history: failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("history: failed to read turns: %w", err)
	}
	return turns, nil
}

// DeleteContact removes every turn for a contact; returns the count removed.
func (s *Store) DeleteContact(ctx context.Context, contactID string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "history.delete_contact")
	defer span.End()

	tag, err := s.db.Exec(ctx, `DELETE FROM conversation_turns WHERE contact_id = $1`, contactID)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("history: failed to delete turns: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeExpired bulk-deletes all expired turns; returns the count removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "history.purge_expired")
	defer span.End()

	tag, err := s.db.Exec(ctx, `DELETE FROM conversation_turns WHERE expires_at < now()`)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("history: failed to purge turns: %w", err)
	}
	return tag.RowsAffected(), nil
}
