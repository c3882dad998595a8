package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sanjuanmotors/concierge/internal/bookings"
	"github.com/sanjuanmotors/concierge/internal/history"
	"github.com/sanjuanmotors/concierge/internal/observability/metrics"
	"github.com/sanjuanmotors/concierge/internal/session"
	"github.com/sanjuanmotors/concierge/pkg/logging"
)

type sessionRepo interface {
	Get(ctx context.Context, contactID string) (*session.Session, error)
	Put(ctx context.Context, sess *session.Session) error
	Delete(ctx context.Context, contactID string) error
}

type historyRepo interface {
	Append(ctx context.Context, contactID, speaker, body string) error
	Recent(ctx context.Context, contactID string, limit int) ([]history.Turn, error)
	DeleteContact(ctx context.Context, contactID string) (int64, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type finalizer interface {
	Finalize(ctx context.Context, sess *session.Session) (bookings.Booking, error)
}

// Service processes inbound messages end to end: load session, run the
// state machine, persist, finalize when confirmed. Turns for the same
// contact are serialized; different contacts proceed in parallel.
type Service struct {
	sessions     sessionRepo
	history      historyRepo
	finalizer    finalizer
	engine       *Engine
	locks        *contactLocks
	historyLimit int
	metrics      *metrics.ConversationMetrics
	logger       *logging.Logger
}

// NewService wires the conversation pipeline. historyLimit <= 0 defaults
// to 10 turns of context.
func NewService(sessions sessionRepo, hist historyRepo, fin finalizer, engine *Engine, historyLimit int, m *metrics.ConversationMetrics, logger *logging.Logger) *Service {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sessions:     sessions,
		history:      hist,
		finalizer:    fin,
		engine:       engine,
		locks:        newContactLocks(),
		historyLimit: historyLimit,
		metrics:      m,
		logger:       logger,
	}
}

// HandleMessage runs one conversation turn and returns the reply text. It
// always returns a usable reply; only storage failures that prevent loading
// the session surface as errors.
func (s *Service) HandleMessage(ctx context.Context, contactID, body string) (string, error) {
	release := s.locks.Acquire(contactID)
	defer release()

	started := time.Now()

	sess, err := s.sessions.Get(ctx, contactID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		sess = session.New(contactID)
	case err != nil:
		return "", fmt.Errorf("conversation: load session: %w", err)
	}

	if err := s.history.Append(ctx, contactID, history.SpeakerUser, body); err != nil {
		s.logger.Warn("failed to record inbound turn", "contact_id", contactID, "error", err)
	}

	turns, err := s.history.Recent(ctx, contactID, s.historyLimit)
	if err != nil {
		s.logger.Warn("failed to load history, continuing without context",
			"contact_id", contactID, "error", err)
		turns = nil
	}

	outcome := s.engine.Handle(ctx, sess, body, turns)
	reply := outcome.Reply

	if outcome.Finalize {
		if _, err := s.finalizer.Finalize(ctx, sess); err != nil {
			// ErrIncompleteData here means the state machine advanced to
			// confirming without full slots, which is a logic bug.
			s.logger.Error("booking finalization failed",
				"contact_id", contactID, "error", err)
			reply = Reply{Text: "Something went wrong while saving your appointment. Please try again in a moment.", Fallback: true}
		} else {
			s.metrics.ObserveBookingCreated()
		}
	} else if err := s.sessions.Put(ctx, sess); err != nil {
		// The reply still goes out; the customer may just repeat a step.
		s.logger.Error("failed to persist session", "contact_id", contactID, "error", err)
	}

	if err := s.history.Append(ctx, contactID, history.SpeakerAssistant, reply.Text); err != nil {
		s.logger.Warn("failed to record outbound turn", "contact_id", contactID, "error", err)
	}

	step := string(sess.Step)
	s.metrics.ObserveInbound(step)
	s.metrics.ObserveTurnLatency(step, time.Since(started).Seconds())
	if reply.Fallback {
		s.metrics.ObserveLLMFallback()
	}

	return reply.Text, nil
}

// ResetContact hard-deletes the session and purges all history for a
// contact. Returns the number of history turns removed.
func (s *Service) ResetContact(ctx context.Context, contactID string) (int64, error) {
	release := s.locks.Acquire(contactID)
	defer release()

	if err := s.sessions.Delete(ctx, contactID); err != nil {
		return 0, fmt.Errorf("conversation: reset session: %w", err)
	}
	n, err := s.history.DeleteContact(ctx, contactID)
	if err != nil {
		return 0, fmt.Errorf("conversation: purge history: %w", err)
	}
	s.logger.Info("conversation reset", "contact_id", contactID, "turns_removed", n)
	return n, nil
}

// Cleanup purges expired history turns. Sessions expire on their own via
// the store's TTL.
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	n, err := s.history.PurgeExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("conversation: cleanup: %w", err)
	}
	if n > 0 {
		s.logger.Info("expired conversation turns purged", "count", n)
	}
	return n, nil
}
