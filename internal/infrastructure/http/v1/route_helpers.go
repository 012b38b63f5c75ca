// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain/auth"
	"stockpilot/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// DocumentRouteHandler defines the interface for document handlers.
// Documents are created already posted; editing goes through unpost.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Delete(c *gin.Context)
	Unpost(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// writeRoles limits mutations; owners always pass.
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, writeRoles ...string) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)

	write := middleware.RequireRole(writeRoles...)
	group.POST("", write, handler.Create)
	group.PUT("/:id", write, handler.Update)
	group.DELETE("/:id", write, handler.Delete)
	group.POST("/:id/deletion-mark", write, handler.SetDeletionMark)
}

// RegisterDocumentRoutes registers journal + posting routes for a
// document type. createRoles limits who records the document; unpost
// and delete are management operations.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler, createRoles ...string) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.POST("", middleware.RequireRole(createRoles...), handler.Create)

	manage := middleware.RequireRole(auth.RoleManager)
	group.POST("/:id/unpost", manage, handler.Unpost)
	group.DELETE("/:id", manage, handler.Delete)
}
