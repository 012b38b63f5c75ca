package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/core/apperror"
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/catalogs/store"
)

// StoreLocator resolves the store a document belongs to. Priority:
// explicit storeId in the request body, then the X-Store-ID selection
// from middleware, then the business default store.
type StoreLocator struct {
	stores *store.Service
}

// NewStoreLocator creates a store locator backed by the store service.
func NewStoreLocator(stores *store.Service) *StoreLocator {
	return &StoreLocator{stores: stores}
}

// Resolve picks the effective store for a document request.
func (l *StoreLocator) Resolve(c *gin.Context, explicit string) (id.ID, error) {
	ctx := c.Request.Context()

	if explicit != "" {
		storeID, err := id.Parse(explicit)
		if err != nil {
			return id.Nil(), apperror.NewValidation("invalid storeId").WithDetail("storeId", explicit)
		}
		return storeID, nil
	}

	if storeID := appctx.GetStoreID(ctx); !id.IsNil(storeID) {
		return storeID, nil
	}

	businessID, err := id.Parse(appctx.GetBusinessID(ctx))
	if err != nil {
		return id.Nil(), apperror.NewUnauthorized("authentication required")
	}

	st, err := l.stores.GetDefault(ctx, businessID)
	if err != nil {
		return id.Nil(), err
	}
	return st.ID, nil
}

// parseDateQuery parses a date query param as YYYY-MM-DD or RFC3339.
// Returns nil when the param is absent.
func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", val); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, apperror.NewValidation("invalid date").WithDetail(key, val)
	}
	return &t, nil
}

// parseOptionalID parses an optional ID query param.
func parseOptionalID(c *gin.Context, key string) (*id.ID, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	parsed, err := id.Parse(val)
	if err != nil {
		return nil, apperror.NewValidation("invalid "+key).WithDetail(key, val)
	}
	return &parsed, nil
}

// parseOptionalBool parses an optional boolean query param.
func parseOptionalBool(c *gin.Context, key string) *bool {
	switch c.Query(key) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
