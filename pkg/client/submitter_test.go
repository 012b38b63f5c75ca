package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okSend(calls *int) SendFunc {
	return func(ctx context.Context, token string, payload any) (json.RawMessage, error) {
		*calls++
		return json.RawMessage(`{"id":"1"}`), nil
	}
}

func failSend(calls *int) SendFunc {
	return func(ctx context.Context, token string, payload any) (json.RawMessage, error) {
		*calls++
		return nil, errors.New("connection refused")
	}
}

func TestSubmit_GeneratesTokenLazily(t *testing.T) {
	var calls int
	s := NewSubmitter(okSend(&calls))

	assert.Empty(t, s.Token())

	_, err := s.Submit(context.Background(), map[string]int{"qty": 5})
	require.NoError(t, err)

	assert.NotEmpty(t, s.Token())
	assert.Equal(t, StateSubmitted, s.State())
	assert.Equal(t, 1, calls)
}

func TestSubmit_TokenStableUnderFailure(t *testing.T) {
	var calls int
	s := NewSubmitter(failSend(&calls))

	_, err := s.Submit(context.Background(), nil)
	require.Error(t, err)

	token := s.Token()
	require.NotEmpty(t, token)
	assert.Equal(t, StateIdle, s.State())

	// Retry twice more: same token every time.
	_, err = s.Submit(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, token, s.Token())

	_, err = s.Submit(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, token, s.Token())
	assert.Equal(t, 3, calls)
}

func TestSubmit_RotatesAfterSuccessAndEdit(t *testing.T) {
	var calls int
	s := NewSubmitter(okSend(&calls))

	_, err := s.Submit(context.Background(), nil)
	require.NoError(t, err)
	first := s.Token()

	s.MarkEdited()

	assert.Equal(t, StateIdle, s.State())
	assert.NotEqual(t, first, s.Token(), "edit after success must start a new intent")
}

func TestMarkEdited_NoChurnWhileComposing(t *testing.T) {
	var calls int
	s := NewSubmitter(failSend(&calls))

	// Failed attempt leaves an Idle intent with a token.
	_, _ = s.Submit(context.Background(), nil)
	token := s.Token()

	// Edits while composing do not rotate.
	s.MarkEdited()
	s.MarkEdited()

	assert.Equal(t, token, s.Token())
	assert.Equal(t, StateIdle, s.State())
}

func TestSubmit_RejectedAfterSuccess(t *testing.T) {
	var calls int
	s := NewSubmitter(okSend(&calls))

	_, err := s.Submit(context.Background(), nil)
	require.NoError(t, err)
	token := s.Token()

	// Double-click after the response arrived: no second request.
	_, err = s.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 1, calls)
	assert.Equal(t, token, s.Token())
}

func TestSubmit_ReentrancyGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int

	s := NewSubmitter(func(ctx context.Context, token string, payload any) (json.RawMessage, error) {
		calls++
		close(started)
		<-release
		return json.RawMessage(`{}`), nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.Submit(context.Background(), nil)
		assert.NoError(t, err)
	}()

	<-started
	token := s.Token()

	// Second submit while the first is outstanding: rejected, token
	// unchanged, no second dispatch.
	_, err := s.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Equal(t, token, s.Token())

	close(release)
	wg.Wait()

	assert.Equal(t, 1, calls)
	assert.Equal(t, StateSubmitted, s.State())
}

type invalidPayload struct{}

func (invalidPayload) Validate() error { return errors.New("quantity must be positive") }

func TestSubmit_ValidationBlocksDispatch(t *testing.T) {
	var calls int
	s := NewSubmitter(okSend(&calls))

	_, err := s.Submit(context.Background(), invalidPayload{})
	require.Error(t, err)

	assert.Equal(t, 0, calls, "validation failures never reach the network")
	assert.Equal(t, StateIdle, s.State())
}

func TestReset_StartsFreshIntent(t *testing.T) {
	var calls int
	s := NewSubmitter(okSend(&calls))

	_, err := s.Submit(context.Background(), nil)
	require.NoError(t, err)
	first := s.Token()

	s.Reset()

	assert.Empty(t, s.Token())
	assert.Equal(t, StateIdle, s.State())

	_, err = s.Submit(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, s.Token())
}
