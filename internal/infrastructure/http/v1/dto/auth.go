package dto

import (
	"time"

	"stockpilot/internal/domain/auth"
)

// --- Requests ---

// RegisterRequest creates a business with its owner account.
type RegisterRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	Currency     string `json:"currency,omitempty"`
	StoreName    string `json:"storeName,omitempty"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
}

// LoginRequest for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest for token rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// InviteRequest adds a staff member to the business.
type InviteRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role" binding:"required"`
}

// --- Responses ---

// TokenResponse carries the issued token pair.
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// FromTokenPair converts token pair to response.
func FromTokenPair(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID          string     `json:"id"`
	BusinessID  string     `json:"businessId"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FromUser converts domain user to response.
func FromUser(u *auth.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		BusinessID:  u.BusinessID.String(),
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// BusinessResponse represents a business in API responses.
type BusinessResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromBusiness converts domain business to response.
func FromBusiness(b *auth.Business) BusinessResponse {
	return BusinessResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		Currency:  b.Currency,
		CreatedAt: b.CreatedAt,
	}
}

// LoginResponse bundles tokens with the authenticated user.
type LoginResponse struct {
	Tokens TokenResponse `json:"tokens"`
	User   UserResponse  `json:"user"`
}

// RegisterResponse bundles the created business, owner and tokens.
type RegisterResponse struct {
	Business BusinessResponse `json:"business"`
	User     UserResponse     `json:"user"`
}

// UserListResponse for listing business users.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	TotalCount int            `json:"totalCount"`
}
