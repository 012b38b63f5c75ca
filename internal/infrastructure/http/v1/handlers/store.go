package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/catalogs/store"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// StoreHandler extends the generic catalog handler with business-scoped
// listing and the default-store lookup used after sign-in.
type StoreHandler struct {
	*CatalogHandler[*store.Store, dto.CreateStoreRequest, dto.UpdateStoreRequest]
	service *store.Service
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(base *BaseHandler, service *store.Service) *StoreHandler {
	catalogHandler := NewCatalogHandler(base, CatalogHandlerConfig[*store.Store, dto.CreateStoreRequest, dto.UpdateStoreRequest]{
		Service:    service.CatalogService,
		EntityName: "store",
		MapCreateDTO: func(c *gin.Context, req dto.CreateStoreRequest) *store.Store {
			// A nil business ID fails entity validation downstream.
			businessID, _ := id.Parse(appctx.GetBusinessID(c.Request.Context()))
			return req.ToEntity(businessID)
		},
		MapUpdateDTO: func(req dto.UpdateStoreRequest, existing *store.Store) *store.Store {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(st *store.Store) any { return st },
	})

	return &StoreHandler{
		CatalogHandler: catalogHandler,
		service:        service,
	}
}

// List handles GET /stores - all stores of the caller's business.
func (h *StoreHandler) List(c *gin.Context) {
	businessID, ok := h.GetBusinessID(c)
	if !ok {
		return
	}

	stores, err := h.service.ListByBusiness(c.Request.Context(), businessID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      stores,
		TotalCount: int64(len(stores)),
		Limit:      len(stores),
	})
}

// GetDefault handles GET /stores/default - the store preselected after
// sign-in.
func (h *StoreHandler) GetDefault(c *gin.Context) {
	businessID, ok := h.GetBusinessID(c)
	if !ok {
		return
	}

	st, err := h.service.GetDefault(c.Request.Context(), businessID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, st)
}
