package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/user"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/firebase"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/jwt"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/password"
)

// FirebaseVerifier verifies Firebase ID tokens
type FirebaseVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebase.TokenInfo, error)
}

// Service handles authentication business logic
type Service struct {
	users    user.Repository
	tokens   TokenStore
	jwt      *jwt.Service
	firebase FirebaseVerifier
}

// NewService creates auth service
func NewService(users user.Repository, tokens TokenStore, jwtService *jwt.Service, fb FirebaseVerifier) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		jwt:      jwtService,
		firebase: fb,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a guest account
func (s *Service) Register(ctx context.Context, req RegisterRequest, ip string) (*AuthResponse, error) {
	return s.register(ctx, req, user.RoleGuest, ip)
}

// RegisterVendor creates a vendor account
func (s *Service) RegisterVendor(ctx context.Context, req RegisterRequest, ip string) (*AuthResponse, error) {
	return s.register(ctx, req, user.RoleVendor, ip)
}

func (s *Service) register(ctx context.Context, req RegisterRequest, role user.Role, ip string) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, user.ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Phone != "" {
		u.Phone = sql.NullString{String: req.Phone, Valid: true}
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", u.ID.String()).
		Str("role", string(role)).
		Msg("User registered")

	return s.issueTokens(ctx, u, ip)
}

// Login authenticates by email and password
func (s *Service) Login(ctx context.Context, req LoginRequest, ip string) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if u.IsBanned {
		return nil, ErrUserBanned
	}
	if u.PasswordHash == "" {
		// Firebase-linked account without a local password
		return nil, ErrPasswordLogin
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, u, ip)
}

// FirebaseLogin exchanges a verified Firebase ID token for a session,
// creating the account on first login
func (s *Service) FirebaseLogin(ctx context.Context, idToken, ip string) (*AuthResponse, error) {
	if s.firebase == nil {
		return nil, fmt.Errorf("firebase login is not configured")
	}

	info, err := s.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByFirebaseUID(ctx, info.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if u == nil && info.Email != "" {
		// Link to an existing email account if one exists
		u, err = s.users.GetByEmail(ctx, normalizeEmail(info.Email))
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if u != nil {
			u.FirebaseUID = sql.NullString{String: info.UID, Valid: true}
			if err := s.users.Update(ctx, u); err != nil {
				return nil, fmt.Errorf("failed to link firebase account: %w", err)
			}
		}
	}

	if u == nil {
		now := time.Now()
		name := info.Name
		if name == "" {
			name = info.Email
		}
		u = &user.User{
			ID:            uuid.New(),
			Email:         normalizeEmail(info.Email),
			FullName:      name,
			Role:          user.RoleGuest,
			EmailVerified: true,
			FirebaseUID:   sql.NullString{String: info.UID, Valid: true},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}

		log.Info().
			Str("user_id", u.ID.String()).
			Msg("User registered via firebase")
	}

	if u.IsBanned {
		return nil, ErrUserBanned
	}

	return s.issueTokens(ctx, u, ip)
}

// Refresh rotates a refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	hash := jwt.HashRefreshToken(refreshToken)

	userID, err := s.tokens.Get(ctx, hash)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidRefreshToken
	}
	if u.IsBanned {
		return nil, ErrUserBanned
	}

	// Rotation: the presented token is dead either way
	if err := s.tokens.Delete(ctx, hash); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	pair, err := s.generatePair(ctx, u)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout invalidates a refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	hash := jwt.HashRefreshToken(refreshToken)
	return s.tokens.Delete(ctx, hash)
}

// Me returns the current user's profile
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, user.ErrNotFound
	}
	resp := toUserResponse(u)
	return &resp, nil
}

// UpdateProfile updates the current user's profile
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, user.ErrNotFound
	}

	u.FullName = strings.TrimSpace(req.FullName)
	if req.Phone != "" {
		u.Phone = sql.NullString{String: req.Phone, Valid: true}
	} else {
		u.Phone = sql.NullString{}
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	resp := toUserResponse(u)
	return &resp, nil
}

// ChangePassword changes the current user's password
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return user.ErrNotFound
	}
	if u.PasswordHash == "" {
		return ErrPasswordLogin
	}
	if !password.Verify(req.CurrentPassword, u.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *Service) issueTokens(ctx context.Context, u *user.User, ip string) (*AuthResponse, error) {
	pair, err := s.generatePair(ctx, u)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID, ip); err != nil {
		// Login tracking is best-effort
		log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("Failed to update last login")
	}

	return &AuthResponse{
		User:   toUserResponse(u),
		Tokens: *pair,
	}, nil
}

func (s *Service) generatePair(ctx context.Context, u *user.User) (*TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role), u.IsBanned)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	hash := jwt.HashRefreshToken(refreshToken)
	if err := s.tokens.Save(ctx, hash, u.ID, s.jwt.GetRefreshTTL()); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwt.GetAccessTTL().Seconds()),
	}, nil
}
