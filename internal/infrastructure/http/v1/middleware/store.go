package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/core/apperror"
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/id"
)

// StoreHeader is the HTTP header carrying the active store selection.
const StoreHeader = "X-Store-ID"

// StoreResolver looks up a store and confirms it belongs to the
// caller's business.
type StoreResolver interface {
	ResolveStore(ctx context.Context, businessID, storeID id.ID) (name string, err error)
}

// StoreSelection middleware resolves the active store from the
// X-Store-ID header and injects it into the request context. The
// header is optional: document handlers fall back to the business's
// default store when it is absent.
//
// Must run after Auth.
func StoreSelection(resolver StoreResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(StoreHeader)
		if raw == "" {
			c.Next()
			return
		}

		storeID, err := id.Parse(raw)
		if err != nil {
			_ = c.Error(
				apperror.NewValidation("invalid store id").
					WithDetail("header", StoreHeader).
					WithDetail("value", raw),
			)
			c.Abort()
			return
		}

		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		businessID, err := id.Parse(user.BusinessID)
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		name, err := resolver.ResolveStore(c.Request.Context(), businessID, storeID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := appctx.WithStore(c.Request.Context(), &appctx.StoreContext{
			StoreID: storeID,
			Name:    name,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set("store_id", storeID.String())

		c.Next()
	}
}
