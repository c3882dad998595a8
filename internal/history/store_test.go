package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestAppend(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock, time.Hour)

	mock.ExpectExec("INSERT INTO conversation_turns").
		WithArgs(pgxmock.AnyArg(), "+15551234567", SpeakerUser, "hello", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := store.Append(context.Background(), "+15551234567", SpeakerUser, "hello"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock, time.Hour)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "contact_id", "speaker", "body", "created_at", "expires_at"}).
		AddRow(uuid.New(), "+1", SpeakerAssistant, "Hi there!", now, now.Add(time.Hour)).
		AddRow(uuid.New(), "+1", SpeakerUser, "Hello", now.Add(-time.Minute), now.Add(time.Hour))

	mock.ExpectQuery("SELECT id, contact_id, speaker, body, created_at, expires_at").
		WithArgs("+1", 2).
		WillReturnRows(rows)

	turns, err := store.Recent(context.Background(), "+1", 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Speaker != SpeakerAssistant || turns[1].Body != "Hello" {
		t.Errorf("unexpected ordering: %+v", turns)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock, time.Hour)

	mock.ExpectExec("DELETE FROM conversation_turns WHERE expires_at").
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := store.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if n != 7 {
		t.Errorf("purged = %d, want 7", n)
	}
}

func TestDeleteContact(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock, time.Hour)

	mock.ExpectExec("DELETE FROM conversation_turns WHERE contact_id").
		WithArgs("+1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := store.DeleteContact(context.Background(), "+1")
	if err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}
}
