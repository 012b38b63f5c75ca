package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain"
	"stockpilot/internal/domain/documents/restock"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// RestockHandler serves the stock replenishment document endpoints.
type RestockHandler struct {
	*BaseHandler
	service *restock.Service
	locator *StoreLocator
}

// NewRestockHandler creates a new restock handler.
func NewRestockHandler(base *BaseHandler, service *restock.Service, locator *StoreLocator) *RestockHandler {
	return &RestockHandler{
		BaseHandler: base,
		service:     service,
		locator:     locator,
	}
}

// Create handles POST /restocks - record and post a replenishment.
func (h *RestockHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateRestockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	storeID, err := h.locator.Resolve(c, req.StoreID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := req.ToEntity(storeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusCreated, "application/json", doc)
	c.JSON(http.StatusCreated, doc)
}

// Get handles GET /restocks/:id - restock with lines.
func (h *RestockHandler) Get(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// List handles GET /restocks - paginated restock journal.
func (h *RestockHandler) List(c *gin.Context) {
	filter, ok := h.parseListFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Unpost handles POST /restocks/:id/unpost.
func (h *RestockHandler) Unpost(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Unpost(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "restock unposted")
}

// Delete handles DELETE /restocks/:id - soft delete an unposted restock.
func (h *RestockHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

func (h *RestockHandler) parseListFilter(c *gin.Context) (restock.ListFilter, bool) {
	filter := restock.ListFilter{ListFilter: domain.DefaultListFilter()}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")

	storeID, err := parseOptionalID(c, "storeId")
	if err != nil {
		h.Error(c, err)
		return filter, false
	}
	filter.StoreID = storeID
	filter.Posted = parseOptionalBool(c, "posted")

	if filter.DateFrom, err = parseDateQuery(c, "dateFrom"); err != nil {
		h.Error(c, err)
		return filter, false
	}
	if filter.DateTo, err = parseDateQuery(c, "dateTo"); err != nil {
		h.Error(c, err)
		return filter, false
	}

	return filter, true
}
