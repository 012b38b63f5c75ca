package context

import (
	"context"

	"stockpilot/internal/core/id"
)

// StoreContext carries the active store selection for the request.
// It is replaced wholesale by WithStore, never patched in place, so
// concurrent readers always observe a consistent value.
type StoreContext struct {
	StoreID id.ID
	Name    string
}

type storeContextKey struct{}

// WithStore is the single setter for the active store selection.
func WithStore(ctx context.Context, store *StoreContext) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// GetStore returns the active store selection, or nil when none is set.
func GetStore(ctx context.Context) *StoreContext {
	if v, ok := ctx.Value(storeContextKey{}).(*StoreContext); ok {
		return v
	}
	return nil
}

// GetStoreID returns the active store ID or the nil UUID.
func GetStoreID(ctx context.Context) id.ID {
	if s := GetStore(ctx); s != nil {
		return s.StoreID
	}
	return id.Nil()
}
