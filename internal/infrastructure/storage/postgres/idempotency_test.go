package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveAcquire(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	holder := func(status IdempotencyStatus, hash string, updatedAt time.Time) IdempotencyRecord {
		return IdempotencyRecord{
			Key:         "key-1",
			UserID:      "user-1",
			Operation:   "POST /api/v1/document/sales",
			Status:      status,
			RequestHash: hash,
			UpdatedAt:   updatedAt,
		}
	}

	tests := []struct {
		name     string
		record   IdempotencyRecord
		inserted bool
		userID   string
		hash     string
		want     acquireOutcome
	}{
		{
			name:     "fresh insert proceeds",
			record:   holder(IdempotencyStatusPending, "h1", now),
			inserted: true,
			userID:   "user-1",
			hash:     "h1",
			want:     outcomeProceed,
		},
		{
			// Double-click: the duplicate lands milliseconds after the
			// first insert. It must wait, not execute a second time.
			name:     "concurrent duplicate conflicts",
			record:   holder(IdempotencyStatusPending, "h1", now.Add(-200*time.Millisecond)),
			inserted: false,
			userID:   "user-1",
			hash:     "h1",
			want:     outcomeConflict,
		},
		{
			name:     "completed operation replays",
			record:   holder(IdempotencyStatusSuccess, "h1", now.Add(-10*time.Second)),
			inserted: false,
			userID:   "user-1",
			hash:     "h1",
			want:     outcomeReplay,
		},
		{
			// Correct-and-resubmit: the client keeps its token across a
			// business failure, edits the payload, and retries. The key
			// goes back to pending with the retry's hash.
			name:     "failed attempt with corrected payload reclaims",
			record:   holder(IdempotencyStatusFailed, "h1", now.Add(-5*time.Second)),
			inserted: false,
			userID:   "user-1",
			hash:     "h2",
			want:     outcomeReclaim,
		},
		{
			// Unchanged retry after failure also re-executes: the world
			// may have changed (e.g. stock was replenished).
			name:     "failed attempt with same payload reclaims",
			record:   holder(IdempotencyStatusFailed, "h1", now.Add(-5*time.Second)),
			inserted: false,
			userID:   "user-1",
			hash:     "h1",
			want:     outcomeReclaim,
		},
		{
			name:     "abandoned pending key reclaims",
			record:   holder(IdempotencyStatusPending, "h1", now.Add(-2*time.Minute)),
			inserted: false,
			userID:   "user-1",
			hash:     "h1",
			want:     outcomeReclaim,
		},
		{
			name:     "success with different payload is a mismatch",
			record:   holder(IdempotencyStatusSuccess, "h1", now.Add(-10*time.Second)),
			inserted: false,
			userID:   "user-1",
			hash:     "h2",
			want:     outcomeMismatch,
		},
		{
			name:     "in-flight key with different payload is a mismatch",
			record:   holder(IdempotencyStatusPending, "h1", now.Add(-200*time.Millisecond)),
			inserted: false,
			userID:   "user-1",
			hash:     "h2",
			want:     outcomeMismatch,
		},
		{
			name:     "another user's key is a mismatch",
			record:   holder(IdempotencyStatusSuccess, "h1", now.Add(-10*time.Second)),
			inserted: false,
			userID:   "user-2",
			hash:     "h1",
			want:     outcomeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveAcquire(tt.record, tt.inserted, tt.userID, "POST /api/v1/document/sales", tt.hash, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
