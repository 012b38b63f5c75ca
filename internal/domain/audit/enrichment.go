// Package audit provides helpers that stamp audit fields on documents
// from the authenticated user in context.
package audit

import (
	"context"

	appctx "stockpilot/internal/core/context"
)

// stamper is satisfied by entity.BaseDocument embedders.
type stamper interface {
	SetCreatedBy(string)
	SetUpdatedBy(string)
}

// EnrichCreatedBy sets CreatedBy and UpdatedBy from the context user.
// Use in BeforeCreate hooks. No-op when no user is authenticated.
func EnrichCreatedBy(ctx context.Context, entity interface{}) error {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return nil
	}

	if e, ok := entity.(stamper); ok {
		e.SetCreatedBy(userID)
		e.SetUpdatedBy(userID)
	}

	return nil
}

// EnrichUpdatedBy sets only UpdatedBy from the context user.
// Use in BeforeUpdate hooks.
func EnrichUpdatedBy(ctx context.Context, entity interface{}) error {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return nil
	}

	if e, ok := entity.(interface{ SetUpdatedBy(string) }); ok {
		e.SetUpdatedBy(userID)
	}

	return nil
}
