// Package client provides a Go client for the StockPilot API.
//
// Mutations go through a Submitter: a small state machine that owns a
// client-generated idempotency token and guarantees at most one
// in-flight or accepted submission per user intent. The server
// deduplicates by token, so a retry after a network failure reuses the
// same token and cannot double-apply.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// State of a Submitter.
type State int

const (
	// StateIdle: no request in flight, last attempt (if any) failed.
	StateIdle State = iota

	// StateSubmitting: a request is in flight.
	StateSubmitting

	// StateSubmitted: the last request succeeded. The intent is closed
	// until MarkEdited rotates the token.
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	}
	return "unknown"
}

var (
	// ErrSubmitInFlight is returned when Submit is called while a
	// request is outstanding. No second request is dispatched.
	ErrSubmitInFlight = errors.New("submit already in flight")

	// ErrAlreadySubmitted is returned when Submit is called after a
	// success without an intervening edit (a double-click after the
	// response arrived). Call MarkEdited to start a new intent.
	ErrAlreadySubmitted = errors.New("intent already submitted")
)

// Validator gates submission. Payloads implementing it are checked
// before any token is consumed or request dispatched.
type Validator interface {
	Validate() error
}

// SendFunc dispatches one request with the given idempotency token.
type SendFunc func(ctx context.Context, token string, payload any) (json.RawMessage, error)

// Submitter guards one mutation intent.
//
// Transitions:
//
//	Idle       --Submit(ok)--------> Submitting
//	Submitting --success-----------> Submitted
//	Submitting --failure-----------> Idle       (token retained)
//	Submitted  --MarkEdited--------> Idle       (token rotated)
//	Idle       --MarkEdited--------> Idle       (token retained)
type Submitter struct {
	mu    sync.Mutex
	state State
	token string
	send  SendFunc
}

// NewSubmitter creates a submitter dispatching through send.
func NewSubmitter(send SendFunc) *Submitter {
	return &Submitter{send: send}
}

// Submit dispatches the payload with the intent's token. The token is
// generated lazily on the first submit. A failed attempt keeps the
// token so the next Submit retries the same intent.
func (s *Submitter) Submit(ctx context.Context, payload any) (json.RawMessage, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StateSubmitted:
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}

	if v, ok := payload.(Validator); ok {
		if err := v.Validate(); err != nil {
			// Validation failures never reach the network; the token
			// (if any) is untouched.
			s.mu.Unlock()
			return nil, err
		}
	}

	if s.token == "" {
		s.token = uuid.NewString()
	}
	token := s.token
	s.state = StateSubmitting
	s.mu.Unlock()

	resp, err := s.send(ctx, token, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateIdle
		return nil, err
	}
	s.state = StateSubmitted
	return resp, nil
}

// MarkEdited signals that a payload-affecting field changed. After a
// success this closes the intent: the token rotates and the submitter
// re-arms. Edits while composing (Idle) or mid-flight do not rotate.
func (s *Submitter) MarkEdited() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		s.token = uuid.NewString()
		s.state = StateIdle
	}
}

// Reset discards the intent entirely: next Submit generates a fresh
// token. Use when the form is cleared for a new document.
func (s *Submitter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return
	}
	s.token = ""
	s.state = StateIdle
}

// State returns the current state.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the current token ("" before the first submit).
func (s *Submitter) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}
