package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjuanmotors/concierge/internal/history"
	"github.com/sanjuanmotors/concierge/internal/session"
	"github.com/sanjuanmotors/concierge/internal/vehicles"
)

type fakeLLM struct {
	reply    string
	err      error
	requests []LLMRequest
}

func (f *fakeLLM) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return LLMResponse{}, f.err
	}
	return LLMResponse{Text: f.reply}, nil
}

func TestRespondUsesBackendReply(t *testing.T) {
	llm := &fakeLLM{reply: "Happy to help! Which model interests you?"}
	r := NewResponder(llm, time.Second, "San Juan Motors", vehicles.Default(), nil)

	reply := r.Respond(context.Background(), session.New("+1"), "Hello", nil)

	assert.False(t, reply.Fallback)
	assert.Equal(t, "Happy to help! Which model interests you?", reply.Text)
}

func TestRespondFallsBackOnNewSession(t *testing.T) {
	llm := &fakeLLM{err: errors.New("deadline exceeded")}
	r := NewResponder(llm, time.Second, "San Juan Motors", vehicles.Default(), nil)

	reply := r.Respond(context.Background(), session.New("+1"), "Hello", nil)

	assert.True(t, reply.Fallback)
	assert.Contains(t, reply.Text, "Hello! I'm the San Juan Motors assistant")
}

func TestRespondFallsBackMidFlow(t *testing.T) {
	llm := &fakeLLM{err: errors.New("boom")}
	r := NewResponder(llm, time.Second, "San Juan Motors", vehicles.Default(), nil)

	sess := session.New("+1")
	sess.Step = session.StepGeneral
	reply := r.Respond(context.Background(), sess, "tell me about the RAV4", nil)

	assert.True(t, reply.Fallback)
	assert.Contains(t, reply.Text, "could you say that again")
}

func TestRespondIncludesContext(t *testing.T) {
	llm := &fakeLLM{reply: "Sure."}
	r := NewResponder(llm, time.Second, "San Juan Motors", vehicles.Default(), nil)

	sess := session.New("+1")
	sess.MergeSlots(map[string]string{session.SlotName: "Ana"})
	turns := []history.Turn{
		{Speaker: history.SpeakerAssistant, Body: "What date works?"},
		{Speaker: history.SpeakerUser, Body: "I want an appointment"},
	}

	r.Respond(context.Background(), sess, "what about the Camry?", turns)

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]

	require.Len(t, req.System, 2)
	assert.Contains(t, req.System[0], "San Juan Motors")
	assert.Contains(t, req.System[0], "Corolla")
	assert.Contains(t, req.System[1], "name: Ana")
	assert.Contains(t, req.System[1], "Camry")

	// Turns arrive newest-first and must be replayed chronologically.
	require.Len(t, req.Messages, 3)
	assert.Equal(t, ChatRoleUser, req.Messages[0].Role)
	assert.Equal(t, "I want an appointment", req.Messages[0].Content)
	assert.Equal(t, ChatRoleAssistant, req.Messages[1].Role)
	assert.Equal(t, "what about the Camry?", req.Messages[2].Content)
}

func TestPhraseFallsBackVerbatim(t *testing.T) {
	llm := &fakeLLM{err: errors.New("unavailable")}
	r := NewResponder(llm, time.Second, "San Juan Motors", vehicles.Default(), nil)

	reply := r.Phrase(context.Background(), "Ask for a date.", "What date would you like?")

	assert.True(t, reply.Fallback)
	assert.Equal(t, "What date would you like?", reply.Text)
}

func TestPhraseUsesBackend(t *testing.T) {
	llm := &fakeLLM{reply: "And what day shall we pencil in?"}
	r := NewResponder(llm, time.Second, "San Juan Motors", vehicles.Default(), nil)

	reply := r.Phrase(context.Background(), "Ask for a date.", "What date would you like?")

	assert.False(t, reply.Fallback)
	assert.Equal(t, "And what day shall we pencil in?", reply.Text)
}

func TestEmptyBackendTextIsFallback(t *testing.T) {
	llm := &fakeLLM{reply: "   "}
	r := NewResponder(llm, time.Second, "San Juan Motors", vehicles.Default(), nil)

	reply := r.Phrase(context.Background(), "Ask for a date.", "What date would you like?")

	assert.True(t, reply.Fallback)
}
