package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/domain/catalogs/store"
	"stockpilot/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts   int
	LockDuration       time.Duration
	PasswordMinLength  int
	RefreshTokenExpiry time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:   5,
		LockDuration:       15 * time.Minute,
		PasswordMinLength:  8,
		RefreshTokenExpiry: 7 * 24 * time.Hour, // 7 days
	}
}

// StoreCreator persists the first store during business onboarding.
// Satisfied by the store catalog repository; kept narrow so onboarding
// runs inside a single transaction instead of going through the store
// service's own transactional flow.
type StoreCreator interface {
	Create(ctx context.Context, st *store.Store) error
}

// Service provides authentication and account logic.
type Service struct {
	businessRepo BusinessRepository
	userRepo     UserRepository
	tokenRepo    TokenRepository
	storeRepo    StoreCreator
	txManager    tx.Manager
	jwtService   *JWTService
	config       ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	businessRepo BusinessRepository,
	userRepo UserRepository,
	tokenRepo TokenRepository,
	storeRepo StoreCreator,
	txManager tx.Manager,
	jwtService *JWTService,
	config ServiceConfig,
) *Service {
	return &Service{
		businessRepo: businessRepo,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		storeRepo:    storeRepo,
		txManager:    txManager,
		jwtService:   jwtService,
		config:       config,
	}
}

func (s *Service) validatePassword(password string) error {
	if len(password) < s.config.PasswordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}
	return nil
}

// RegisterBusiness onboards a new business: the business record, its
// owner account and the first store are created in one transaction.
func (s *Service) RegisterBusiness(ctx context.Context, req RegisterBusinessRequest) (*Business, *User, error) {
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, nil, apperror.NewValidation("business name is required").WithDetail("field", "businessName")
	}
	if req.Email == "" {
		return nil, nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, nil, err
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, nil, apperror.NewValidation("currency must be a 3-letter ISO code").WithDetail("field", "currency")
	}

	exists, err := s.userRepo.Exists(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, nil, apperror.NewConflict("email already registered").WithDetail("email", req.Email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	business := NewBusiness(strings.TrimSpace(req.BusinessName), currency)

	owner := NewUser(business.ID, req.Email, string(passwordHash), RoleOwner)
	owner.FirstName = req.FirstName
	owner.LastName = req.LastName

	storeName := strings.TrimSpace(req.StoreName)
	if storeName == "" {
		storeName = "Main Store"
	}
	mainStore := store.NewStore(business.ID, "ST-00001", storeName)
	mainStore.Currency = currency
	mainStore.IsDefault = true

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.businessRepo.Create(ctx, business); err != nil {
			return fmt.Errorf("create business: %w", err)
		}
		if err := s.userRepo.Create(ctx, owner); err != nil {
			return fmt.Errorf("create owner: %w", err)
		}
		if err := s.storeRepo.Create(ctx, mainStore); err != nil {
			return fmt.Errorf("create store: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "business registered",
		"business_id", business.ID,
		"owner_id", owner.ID,
		"email", owner.Email)

	return business, owner, nil
}

// InviteUser adds a staff account to an existing business.
func (s *Service) InviteUser(ctx context.Context, businessID id.ID, req InviteUserRequest) (*User, error) {
	if req.Email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}
	if !ValidRole(req.Role) {
		return nil, apperror.NewValidation("unknown role").WithDetail("field", "role")
	}
	if req.Role == RoleOwner {
		return nil, apperror.NewForbidden("cannot invite another owner")
	}

	exists, err := s.userRepo.Exists(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict("email already registered").WithDetail("email", req.Email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(businessID, req.Email, string(passwordHash), req.Role)
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user invited",
		"user_id", user.ID,
		"business_id", businessID,
		"role", user.Role)

	return user, nil
}

// Login authenticates user and returns tokens.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenPair, *User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(creds.Email))
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		_ = s.userRepo.Update(ctx, user)
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	user.RecordSuccessfulLogin()
	_ = s.userRepo.Update(ctx, user)

	logger.Info(ctx, "user logged in",
		"user_id", user.ID,
		"email", user.Email)

	return tokens, user, nil
}

// RefreshToken refreshes access token using refresh token. The old
// refresh token is revoked (single-use rotation).
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tokenHash := hashToken(refreshToken)

	token, err := s.tokenRepo.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid refresh token")
	}

	if !token.IsValid() {
		return nil, apperror.NewUnauthorized("refresh token expired or revoked")
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("user not found")
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	_ = s.tokenRepo.RevokeRefreshToken(ctx, token.ID, "refreshed")

	return s.generateTokenPair(ctx, user)
}

// Logout revokes all user's refresh tokens.
func (s *Service) Logout(ctx context.Context, userID id.ID) error {
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID, "logout")
}

// GetUserByID retrieves a user.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return user, nil
}

// GetBusiness retrieves a business.
func (s *Service) GetBusiness(ctx context.Context, businessID id.ID) (*Business, error) {
	return s.businessRepo.GetByID(ctx, businessID)
}

// ListUsers lists a business's users with filtering.
func (s *Service) ListUsers(ctx context.Context, businessID id.ID, filter UserFilter) ([]User, int, error) {
	return s.userRepo.ListByBusiness(ctx, businessID, filter)
}

// generateTokenPair creates access and refresh tokens.
func (s *Service) generateTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	sessionID := id.New().String()

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user, sessionID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshTokenRaw, err := generateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshToken := &RefreshToken{
		ID:        id.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: time.Now().Add(s.config.RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}

	if err := s.tokenRepo.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

// hashToken creates SHA256 hash of token.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// generateRandomToken generates a random token string.
func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
