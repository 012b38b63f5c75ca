package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain/catalogs/product"
	"stockpilot/internal/domain/view"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// ProductHandler extends the generic catalog handler with variant-aware
// reads and the derived list view used by the storefront UI.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	catalogHandler := NewCatalogHandler(base, CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    service.CatalogService,
		EntityName: "product",
		MapCreateDTO: func(_ *gin.Context, req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(p *product.Product) any { return p },
	})

	return &ProductHandler{
		CatalogHandler: catalogHandler,
		service:        service,
	}
}

// Get handles GET /products/:id - product with its variants loaded.
func (h *ProductHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetWithVariants(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// View handles GET /products/view - the projected list the UI renders:
// filtered, classified by stock status and paginated.
func (h *ProductHandler) View(c *gin.Context) {
	ctx := c.Request.Context()

	filters := view.Filters{
		SearchText: c.Query("search"),
		Category:   c.DefaultQuery("category", view.CategoryAll),
	}
	page := h.ParseIntQuery(c, "page", 1)
	pageSize := h.ParseIntQuery(c, "pageSize", 20)

	result, err := h.service.ProjectList(ctx, filters, page, pageSize)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Categories handles GET /products/categories - distinct category names.
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": categories})
}

// FindBySKU handles GET /products/variants/by-sku/:sku - barcode lookup
// used by the POS screen.
func (h *ProductHandler) FindBySKU(c *gin.Context) {
	variant, err := h.service.FindBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, variant)
}
