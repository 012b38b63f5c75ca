// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockpilot/internal/core/apperror"
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/auth"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and account endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Register handles POST /auth/register - sign up a business with its
// owner account.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	business, user, err := h.service.RegisterBusiness(ctx, auth.RegisterBusinessRequest{
		BusinessName: req.BusinessName,
		Currency:     req.Currency,
		StoreName:    req.StoreName,
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Business: dto.FromBusiness(business),
		User:     dto.FromUser(user),
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, user, err := h.service.Login(ctx, auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Tokens: dto.FromTokenPair(tokens),
		User:   dto.FromUser(user),
	})
}

// Refresh handles POST /auth/refresh - rotate the token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.service.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTokenPair(tokens))
}

// Logout handles POST /auth/logout - revoke all refresh tokens of the
// caller.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := id.Parse(appctx.GetUserID(ctx))
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	if err := h.service.Logout(ctx, userID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "logged out")
}

// Me handles GET /auth/me - the authenticated user and their business.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := id.Parse(appctx.GetUserID(ctx))
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	user, err := h.service.GetUserByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	business, err := h.service.GetBusiness(ctx, user.BusinessID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     dto.FromUser(user),
		"business": dto.FromBusiness(business),
	})
}

// Invite handles POST /auth/users - add a staff account (owner only).
func (h *AuthHandler) Invite(c *gin.Context) {
	ctx := c.Request.Context()

	businessID, ok := h.GetBusinessID(c)
	if !ok {
		return
	}

	var req dto.InviteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.InviteUser(ctx, businessID, auth.InviteUserRequest{
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusCreated, "application/json", dto.FromUser(user))
	c.JSON(http.StatusCreated, dto.FromUser(user))
}

// ListUsers handles GET /auth/users - staff accounts of the business.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	businessID, ok := h.GetBusinessID(c)
	if !ok {
		return
	}

	filter := auth.UserFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if isActive := parseOptionalBool(c, "isActive"); isActive != nil {
		filter.IsActive = isActive
	}

	users, total, err := h.service.ListUsers(ctx, businessID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.UserResponse, len(users))
	for i := range users {
		items[i] = dto.FromUser(&users[i])
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Items:      items,
		TotalCount: total,
	})
}
