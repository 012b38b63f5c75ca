package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/domain/reports"
)

// ReportsHandler serves the analytics endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// parsePeriod reads the from/to query params. Defaults to the last 30
// days when absent.
func (h *ReportsHandler) parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if fromQ, err := parseDateQuery(c, "from"); err != nil {
		h.Error(c, err)
		return from, to, false
	} else if fromQ != nil {
		from = *fromQ
	}
	if toQ, err := parseDateQuery(c, "to"); err != nil {
		h.Error(c, err)
		return from, to, false
	} else if toQ != nil {
		to = *toQ
	}

	if !to.After(from) {
		h.Error(c, apperror.NewValidation("period end must be after start").
			WithDetail("from", from.Format(time.RFC3339)).
			WithDetail("to", to.Format(time.RFC3339)))
		return from, to, false
	}

	return from, to, true
}

// SalesSummary handles GET /reports/sales-summary.
func (h *ReportsHandler) SalesSummary(c *gin.Context) {
	from, to, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	storeID, err := parseOptionalID(c, "storeId")
	if err != nil {
		h.Error(c, err)
		return
	}

	summary, err := h.service.GetSalesSummary(c.Request.Context(), reports.SalesSummaryFilter{
		FromDate: from,
		ToDate:   to,
		StoreID:  storeID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RevenueByDay handles GET /reports/revenue-by-day.
func (h *ReportsHandler) RevenueByDay(c *gin.Context) {
	from, to, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	storeID, err := parseOptionalID(c, "storeId")
	if err != nil {
		h.Error(c, err)
		return
	}

	points, err := h.service.GetRevenueByDay(c.Request.Context(), from, to, storeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": points})
}

// TopProducts handles GET /reports/top-products.
func (h *ReportsHandler) TopProducts(c *gin.Context) {
	from, to, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	storeID, err := parseOptionalID(c, "storeId")
	if err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.GetTopProducts(c.Request.Context(), reports.TopProductsFilter{
		FromDate: from,
		ToDate:   to,
		StoreID:  storeID,
		Limit:    h.ParseIntQuery(c, "limit", 10),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// StockBalance handles GET /reports/stock-balance.
func (h *ReportsHandler) StockBalance(c *gin.Context) {
	storeID, err := parseOptionalID(c, "storeId")
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetStockBalance(c.Request.Context(), reports.StockBalanceFilter{
		StoreID:      storeID,
		ExcludeZero:  c.Query("excludeZero") == "true",
		LowStockOnly: c.Query("lowStockOnly") == "true",
		Limit:        h.ParseIntQuery(c, "limit", 100),
		Offset:       h.ParseIntQuery(c, "offset", 0),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
