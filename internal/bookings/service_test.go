package bookings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjuanmotors/concierge/internal/session"
)

type fakeBookingStore struct {
	created []Booking
	err     error
}

func (f *fakeBookingStore) Create(_ context.Context, b Booking) (Booking, error) {
	if f.err != nil {
		return Booking{}, f.err
	}
	b.ID = uuid.New()
	b.Status = StatusPending
	f.created = append(f.created, b)
	return b, nil
}

type fakeSessionStore struct {
	deleted []string
	err     error
}

func (f *fakeSessionStore) Delete(_ context.Context, contactID string) error {
	f.deleted = append(f.deleted, contactID)
	return f.err
}

func completeSession() *session.Session {
	s := session.New("+15551234567")
	s.MergeSlots(map[string]string{
		session.SlotName:  "Carlos Rivera",
		session.SlotEmail: "carlos@example.com",
		session.SlotDate:  "28/07/2025",
		session.SlotTime:  "15:00",
	})
	return s
}

func TestFinalize(t *testing.T) {
	store := &fakeBookingStore{}
	sessions := &fakeSessionStore{}
	svc := NewService(store, sessions, nil)

	sess := completeSession()
	sess.Slots[session.SlotVehicle] = "Corolla"

	created, err := svc.Finalize(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "Carlos Rivera", created.CustomerName)
	assert.Equal(t, "Corolla", created.VehicleInterest)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, []string{"+15551234567"}, sessions.deleted)
}

func TestFinalizeDefaultsVehicle(t *testing.T) {
	store := &fakeBookingStore{}
	svc := NewService(store, &fakeSessionStore{}, nil)

	created, err := svc.Finalize(context.Background(), completeSession())
	require.NoError(t, err)
	assert.Equal(t, UnspecifiedVehicle, created.VehicleInterest)
}

func TestFinalizeIncomplete(t *testing.T) {
	svc := NewService(&fakeBookingStore{}, &fakeSessionStore{}, nil)

	for _, missing := range []string{session.SlotName, session.SlotEmail, session.SlotDate, session.SlotTime} {
		sess := completeSession()
		delete(sess.Slots, missing)
		_, err := svc.Finalize(context.Background(), sess)
		assert.ErrorIs(t, err, ErrIncompleteData, "missing %s", missing)
	}
}

func TestFinalizeStoreError(t *testing.T) {
	store := &fakeBookingStore{err: errors.New("db down")}
	sessions := &fakeSessionStore{}
	svc := NewService(store, sessions, nil)

	_, err := svc.Finalize(context.Background(), completeSession())
	require.Error(t, err)
	assert.Empty(t, sessions.deleted, "session must survive a failed insert")
}

func TestFinalizeSessionDeleteFailureIsNonFatal(t *testing.T) {
	store := &fakeBookingStore{}
	sessions := &fakeSessionStore{err: errors.New("redis down")}
	svc := NewService(store, sessions, nil)

	_, err := svc.Finalize(context.Background(), completeSession())
	assert.NoError(t, err)
	assert.Len(t, store.created, 1)
}
