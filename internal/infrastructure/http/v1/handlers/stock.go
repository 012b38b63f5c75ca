package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/core/apperror"
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/registers/stock"
)

// StockHandler serves read access to the stock register.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// resolveStoreID picks the store from the query param or the X-Store-ID
// selection.
func (h *StockHandler) resolveStoreID(c *gin.Context) (id.ID, error) {
	if val := c.Query("storeId"); val != "" {
		storeID, err := id.Parse(val)
		if err != nil {
			return id.Nil(), apperror.NewValidation("invalid storeId").WithDetail("storeId", val)
		}
		return storeID, nil
	}
	if storeID := appctx.GetStoreID(c.Request.Context()); !id.IsNil(storeID) {
		return storeID, nil
	}
	return id.Nil(), apperror.NewValidation("storeId is required")
}

// ListBalances handles GET /stock/balances - non-zero balances of a store.
func (h *StockHandler) ListBalances(c *gin.Context) {
	storeID, err := h.resolveStoreID(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	balances, err := h.service.ListBalances(c.Request.Context(), storeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": balances, "totalCount": len(balances)})
}

// GetBalance handles GET /stock/balances/:variantId - one variant's
// on-hand quantity in a store. A variant never recorded in the register
// reports zero.
func (h *StockHandler) GetBalance(c *gin.Context) {
	storeID, err := h.resolveStoreID(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	variantID, ok := h.ParseIDParam(c, "variantId")
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), storeID, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}
