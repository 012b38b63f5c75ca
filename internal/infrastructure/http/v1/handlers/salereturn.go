package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain"
	"stockpilot/internal/domain/documents/salereturn"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// ReturnHandler serves the sale return document endpoints.
type ReturnHandler struct {
	*BaseHandler
	service *salereturn.Service
	locator *StoreLocator
}

// NewReturnHandler creates a new return handler.
func NewReturnHandler(base *BaseHandler, service *salereturn.Service, locator *StoreLocator) *ReturnHandler {
	return &ReturnHandler{
		BaseHandler: base,
		service:     service,
		locator:     locator,
	}
}

// Create handles POST /returns - record and post a return. Items with a
// "restock" resolution go back into sellable stock; discarded items do
// not.
func (h *ReturnHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateReturnRequest
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

// Get handles GET /returns/:id - return with lines.
func (h *ReturnHandler) Get(c *gin.Context) {
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

// List handles GET /returns - paginated returns journal.
func (h *ReturnHandler) List(c *gin.Context) {
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

// Unpost handles POST /returns/:id/unpost.
func (h *ReturnHandler) Unpost(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Unpost(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "return unposted")
}

// Delete handles DELETE /returns/:id - soft delete an unposted return.
func (h *ReturnHandler) Delete(c *gin.Context) {
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

func (h *ReturnHandler) parseListFilter(c *gin.Context) (salereturn.ListFilter, bool) {
	filter := salereturn.ListFilter{ListFilter: domain.DefaultListFilter()}
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

	saleID, err := parseOptionalID(c, "saleId")
	if err != nil {
		h.Error(c, err)
		return filter, false
	}
	filter.SaleID = saleID
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
