package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appctx "stockpilot/internal/core/context"
)

func roleRouter(user *appctx.UserContext, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	if user != nil {
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
			c.Next()
		})
	}
	router.Use(RequireRole(roles...))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func getProtected(router *gin.Engine) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	return w.Code
}

func TestRequireRole_MatchingRolePasses(t *testing.T) {
	router := roleRouter(&appctx.UserContext{UserID: "u1", Role: "cashier"}, "manager", "cashier")
	assert.Equal(t, http.StatusOK, getProtected(router))
}

func TestRequireRole_OwnerBypassesAnyCheck(t *testing.T) {
	router := roleRouter(&appctx.UserContext{UserID: "u1", Role: "owner", IsOwner: true}, "manager")
	assert.Equal(t, http.StatusOK, getProtected(router))
}

func TestRequireRole_EmptyListIsOwnerOnly(t *testing.T) {
	manager := roleRouter(&appctx.UserContext{UserID: "u1", Role: "manager"})
	assert.Equal(t, http.StatusForbidden, getProtected(manager))

	owner := roleRouter(&appctx.UserContext{UserID: "u2", IsOwner: true})
	assert.Equal(t, http.StatusOK, getProtected(owner))
}

func TestRequireRole_WrongRoleForbidden(t *testing.T) {
	router := roleRouter(&appctx.UserContext{UserID: "u1", Role: "cashier"}, "manager")
	assert.Equal(t, http.StatusForbidden, getProtected(router))
}

func TestRequireRole_UnauthenticatedRejected(t *testing.T) {
	router := roleRouter(nil, "manager")
	assert.Equal(t, http.StatusUnauthorized, getProtected(router))
}
