package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/infrastructure/storage/postgres"
)

// auditedEntities lists entity types exposed through the history endpoint.
var auditedEntities = map[string]bool{
	"product": true,
	"store":   true,
	"sale":    true,
	"restock": true,
	"return":  true,
}

// AuditHandler serves the audit trail.
type AuditHandler struct {
	*BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{BaseHandler: base, audit: audit}
}

// History returns audit entries for a single entity, newest first.
// GET /audit/:entityType/:id?limit=50
func (h *AuditHandler) History(c *gin.Context) {
	entityType := c.Param("entityType")
	if !auditedEntities[entityType] {
		h.Error(c, apperror.NewValidation("unknown entity type: "+entityType))
		return
	}

	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	entries, err := h.audit.GetEntityHistory(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"items":      entries,
		"totalCount": len(entries),
	})
}
