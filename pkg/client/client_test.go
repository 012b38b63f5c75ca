package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSale_DoubleClickSendsOneRequest(t *testing.T) {
	var requests int32
	var seenToken string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		seenToken = r.Header.Get("X-Idempotency-Key")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"s1","totalAmount":"25","number":"SALE-2026-00001"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithAccessToken("jwt"), WithStore("store-1"))
	sub := c.NewSubmitter("/api/v1/document/sales")

	payload := map[string]any{
		"customerName":  "Jane Doe",
		"paymentMethod": "cash",
		"lines": []map[string]any{
			{"variantId": "a", "quantity": 2, "unitPrice": 10.0},
			{"variantId": "b", "quantity": 1, "unitPrice": 5.0},
		},
	}

	resp, err := sub.Submit(context.Background(), payload)
	require.NoError(t, err)
	assert.Contains(t, string(resp), `"totalAmount":"25"`)
	assert.NotEmpty(t, seenToken)
	assert.Equal(t, sub.Token(), seenToken)

	// Double-click: rejected client-side, no second request observed.
	_, err = sub.Submit(context.Background(), payload)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestRestockRetry_SameTokenAcrossFailures(t *testing.T) {
	var requests int32
	tokens := make([]string, 0, 3)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		tokens = append(tokens, r.Header.Get("X-Idempotency-Key"))

		if n < 3 {
			// Simulated outage: the submitter must keep the token.
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"r1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	sub := c.NewSubmitter("/api/v1/document/restocks")
	payload := map[string]any{"lines": []map[string]any{{"variantId": "x", "quantity": 5}}}

	_, err := sub.Submit(context.Background(), payload)
	require.Error(t, err)
	_, err = sub.Submit(context.Background(), payload)
	require.Error(t, err)
	_, err = sub.Submit(context.Background(), payload)
	require.NoError(t, err)

	require.Len(t, tokens, 3)
	assert.Equal(t, tokens[0], tokens[1])
	assert.Equal(t, tokens[1], tokens[2])
}

func TestAPIError_ParsesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{
			"code": "VALIDATION_ERROR",
			"message": "sale validation failed",
			"details": {"fields": {"lines[0].quantity": "quantity must be positive"}}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Post(context.Background(), "/api/v1/document/sales", map[string]any{}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "sale validation failed", apiErr.Message)
	assert.Equal(t, "quantity must be positive", apiErr.FieldErrors()["lines[0].quantity"])
}

func TestClient_SendsAuthAndStoreHeaders(t *testing.T) {
	var gotAuth, gotStore string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStore = r.Header.Get("X-Store-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithAccessToken("jwt-abc"), WithStore("store-9"))

	var out map[string]any
	require.NoError(t, c.Get(context.Background(), "/api/v1/catalog/products", &out))

	assert.Equal(t, "Bearer jwt-abc", gotAuth)
	assert.Equal(t, "store-9", gotStore)
}

func TestConflict_KeepsTokenForUserDecision(t *testing.T) {
	var requests int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"CONFLICT","message":"already processed"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	sub := c.NewSubmitter("/api/v1/document/sales")

	_, err := sub.Submit(context.Background(), map[string]any{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "already processed", apiErr.Message)

	// The user may alter input (rotating) or retry as-is (same token);
	// the submitter keeps the token and re-arms.
	token := sub.Token()
	assert.Equal(t, StateIdle, sub.State())

	sub.MarkEdited()
	assert.Equal(t, token, sub.Token(), "conflict leaves an open intent; composing edits do not rotate")
}
