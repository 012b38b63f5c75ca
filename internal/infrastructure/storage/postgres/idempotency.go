package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockpilot/internal/core/apperror"
)

// IdempotencyStatus represents the state of an idempotent operation.
type IdempotencyStatus string

const (
	IdempotencyStatusPending IdempotencyStatus = "pending"
	IdempotencyStatusSuccess IdempotencyStatus = "success"
	IdempotencyStatusFailed  IdempotencyStatus = "failed"
)

// stalePendingAfter is how long a pending key may sit untouched before
// it is presumed abandoned (crashed request) and eligible for reclaim.
const stalePendingAfter = time.Minute

// IdempotencyRecord stores the result of an idempotent operation.
type IdempotencyRecord struct {
	Key         string            `db:"idempotency_key"`
	UserID      string            `db:"user_id"`
	Operation   string            `db:"operation"`
	Status      IdempotencyStatus `db:"status"`
	RequestHash string            `db:"request_hash"` // SHA256 of request body
	Response    []byte            `db:"response"`     // Cached response
	StatusCode  int               `db:"response_status"`
	ContentType string            `db:"response_content_type"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
	ExpiresAt   time.Time         `db:"expires_at"`
}

// IdempotencyReplay is the cached HTTP response for replay.
type IdempotencyReplay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IdempotencyStore manages idempotency keys.
type IdempotencyStore struct {
	txManager *TxManager
	ttl       time.Duration
}

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore(txManager *TxManager, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		txManager: txManager,
		ttl:       ttl,
	}
}

// acquireOutcome is what AcquireKey decided to do with a key.
type acquireOutcome int

const (
	// outcomeProceed: the caller owns the key and runs the operation.
	outcomeProceed acquireOutcome = iota

	// outcomeReplay: the operation already succeeded; return the cached response.
	outcomeReplay

	// outcomeReclaim: a failed or abandoned attempt holds the key; take it
	// over (reset to pending with the new request hash) and run again.
	outcomeReclaim

	// outcomeConflict: another request is processing the key right now.
	outcomeConflict

	// outcomeMismatch: the key is being reused for a different user,
	// operation, or payload than the one it belongs to.
	outcomeMismatch
)

// resolveAcquire decides what to do with a key given the stored record.
// inserted is true when the INSERT created the row (no prior holder).
//
// A failed attempt is never replayed: the client keeps its token across
// failures precisely so the user can correct the request and resubmit,
// so the key is handed back for another run (with the new hash).
func resolveAcquire(record IdempotencyRecord, inserted bool, userID, operation, requestHash string, now time.Time) acquireOutcome {
	if inserted {
		return outcomeProceed
	}

	if record.UserID != userID || record.Operation != operation {
		return outcomeMismatch
	}

	switch record.Status {
	case IdempotencyStatusSuccess:
		if record.RequestHash != requestHash {
			return outcomeMismatch
		}
		return outcomeReplay

	case IdempotencyStatusPending:
		if now.Sub(record.UpdatedAt) > stalePendingAfter {
			return outcomeReclaim
		}
		if record.RequestHash != requestHash {
			return outcomeMismatch
		}
		return outcomeConflict

	case IdempotencyStatusFailed:
		return outcomeReclaim
	}

	// Unknown status: refuse rather than risk a double execution.
	return outcomeConflict
}

// AcquireKey attempts to acquire an idempotency key.
// Returns:
//   - (nil, nil) if the caller owns the key and should run the operation
//   - (cachedResponse, nil) if the operation already succeeded
//   - (nil, error) if the key is locked or reused for a different request
func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*IdempotencyReplay, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)

	// Insert the key or fetch the current holder. (xmax = 0) distinguishes
	// a fresh insert from a conflict row; timestamp heuristics cannot,
	// because two requests can land within the same clock tick.
	var record IdempotencyRecord
	var inserted bool
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_idempotency (idempotency_key, user_id, operation, status, request_hash, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
		ON CONFLICT (idempotency_key) DO UPDATE SET
			expires_at = GREATEST(sys_idempotency.expires_at, $7)
		RETURNING idempotency_key, user_id, operation, status, request_hash, response, response_status, response_content_type, created_at, updated_at, expires_at, (xmax = 0) AS inserted
	`, key, userID, operation, IdempotencyStatusPending, requestHash, now, expiresAt).Scan(
		&record.Key, &record.UserID, &record.Operation, &record.Status,
		&record.RequestHash, &record.Response, &record.StatusCode, &record.ContentType,
		&record.CreatedAt, &record.UpdatedAt, &record.ExpiresAt, &inserted,
	)

	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}

	switch resolveAcquire(record, inserted, userID, operation, requestHash, now) {
	case outcomeProceed:
		return nil, nil

	case outcomeReplay:
		return &IdempotencyReplay{
			StatusCode:  normalizeReplayStatus(record.StatusCode),
			ContentType: normalizeReplayContentType(record.ContentType),
			Body:        record.Response,
		}, nil

	case outcomeReclaim:
		reclaimed, err := s.reclaimKey(ctx, key, requestHash, record.UpdatedAt, now)
		if err != nil {
			return nil, fmt.Errorf("reclaim idempotency key: %w", err)
		}
		if !reclaimed {
			// Lost the race to another reclaimer.
			return nil, apperror.NewIdempotencyConflict(key)
		}
		return nil, nil

	case outcomeConflict:
		return nil, apperror.NewIdempotencyConflict(key)

	case outcomeMismatch:
		return nil, apperror.NewIdempotencyMismatch(key).
			WithDetail("stored_user_id", record.UserID).
			WithDetail("request_user_id", userID).
			WithDetail("stored_operation", record.Operation).
			WithDetail("request_operation", operation).
			WithDetail("stored_request_hash", record.RequestHash).
			WithDetail("request_request_hash", requestHash)
	}

	return nil, apperror.NewIdempotencyConflict(key)
}

// reclaimKey takes over a failed or abandoned key: back to pending, with
// the retry's request hash and no stale cached response. The updated_at
// guard is a compare-and-swap so only one of several concurrent retries
// wins the key.
func (s *IdempotencyStore) reclaimKey(ctx context.Context, key, requestHash string, seenUpdatedAt, now time.Time) (bool, error) {
	result, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1,
		    request_hash = $2,
		    response = NULL,
		    response_status = 0,
		    response_content_type = '',
		    updated_at = $3
		WHERE idempotency_key = $4 AND updated_at = $5
	`, IdempotencyStatusPending, requestHash, now, key, seenUpdatedAt)

	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

// CompleteKey marks an idempotency key as completed with HTTP response.
func (s *IdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	var responseBytes []byte
	if response != nil {
		b, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		responseBytes = b
	}

	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1,
		    response = $2,
		    response_status = $3,
		    response_content_type = $4,
		    updated_at = $5
		WHERE idempotency_key = $6
	`, IdempotencyStatusSuccess, responseBytes, statusCode, contentType, time.Now().UTC(), key)

	return err
}

// FailKey marks an idempotency key as failed with HTTP response. The
// stored response is never replayed; it documents the failure until the
// key is reclaimed by a retry or expires.
func (s *IdempotencyStore) FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	var responseBytes []byte
	if response != nil {
		b, err := json.Marshal(response)
		if err != nil {
			// Best-effort: fall back to a minimal error body to keep the key consistent.
			responseBytes, _ = json.Marshal(map[string]string{"error": err.Error()})
		} else {
			responseBytes = b
		}
	}

	_, execErr := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1,
		    response = $2,
		    response_status = $3,
		    response_content_type = $4,
		    updated_at = $5
		WHERE idempotency_key = $6
	`, IdempotencyStatusFailed, responseBytes, statusCode, contentType, time.Now().UTC(), key)

	return execErr
}

func normalizeReplayStatus(status int) int {
	// If older records exist without status, default to 200 for JSON bodies.
	if status == 0 {
		return 200
	}
	return status
}

func normalizeReplayContentType(ct string) string {
	if ct == "" {
		return "application/json"
	}
	return ct
}

// CleanupExpired removes expired idempotency records.
func (s *IdempotencyStore) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		DELETE FROM sys_idempotency WHERE expires_at < $1
	`, time.Now().UTC())

	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
