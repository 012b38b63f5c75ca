package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain"
	"stockpilot/internal/domain/documents/sale"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves the point-of-sale document endpoints. A sale is
// created and posted in one step; there is no draft state.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
	locator *StoreLocator
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service, locator *StoreLocator) *SaleHandler {
	return &SaleHandler{
		BaseHandler: base,
		service:     service,
		locator:     locator,
	}
}

// Create handles POST /sales - record and post a sale.
func (h *SaleHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSaleRequest
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

// Get handles GET /sales/:id - sale with lines.
func (h *SaleHandler) Get(c *gin.Context) {
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

// List handles GET /sales - paginated sales journal.
func (h *SaleHandler) List(c *gin.Context) {
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

// Unpost handles POST /sales/:id/unpost - reverse stock movements while
// keeping the document for correction.
func (h *SaleHandler) Unpost(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Unpost(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "sale unposted")
}

// Delete handles DELETE /sales/:id - soft delete an unposted sale.
func (h *SaleHandler) Delete(c *gin.Context) {
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

func (h *SaleHandler) parseListFilter(c *gin.Context) (sale.ListFilter, bool) {
	filter := sale.ListFilter{ListFilter: domain.DefaultListFilter()}
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

	if method := c.Query("paymentMethod"); method != "" {
		filter.PaymentMethod = &method
	}
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
