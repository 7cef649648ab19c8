package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken       = apperr.Validation("Email already in use")
	ErrEmptyEmail       = apperr.Validation("Email cannot be empty")
	ErrPasswordMismatch = apperr.Validation("Passwords do not match")
	ErrUserNotFound     = apperr.NotFound("User not found")
)

// AuthService bridges identities verified by the external provider to
// local user records and issues the service's own tokens.
type AuthService struct {
	store    *store.Store
	dir      *store.UserDirectory
	provider identity.Provider
	cfg      *config.Config
}

func NewAuthService(s *store.Store, dir *store.UserDirectory, provider identity.Provider, cfg *config.Config) *AuthService {
	return &AuthService{store: s, dir: dir, provider: provider, cfg: cfg}
}

// providerError maps a provider failure to rejected (4xx) unless the
// provider is missing altogether.
func providerError(err error, rejected func(error) *apperr.Error) error {
	if errors.Is(err, identity.ErrNotConfigured) {
		return apperr.Unexpected("Identity provider is not configured", err)
	}
	return rejected(err)
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return apperr.Validation("Email and password are required.")
	}

	if err := s.provider.SignUp(ctx, req.Email, req.Password, req.Name); err != nil {
		return providerError(err, func(err error) *apperr.Error {
			return apperr.Wrap(apperr.Validation("Registration failed"), err)
		})
	}

	// The local record may already exist from an earlier attempt.
	_, err := s.dir.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	user := &models.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  models.RoleClient,
	}
	if err := s.store.Users.Insert(ctx, user); err != nil {
		return err
	}
	s.dir.Remember(ctx, user.Email, user.ID)
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	if req.Email == "" || req.Code == "" {
		return apperr.Validation("Email and code are required.")
	}

	if err := s.provider.ConfirmSignUp(ctx, req.Email, req.Code); err != nil {
		return providerError(err, func(err error) *apperr.Error {
			return apperr.Wrap(apperr.Validation("Email verification failed"), err)
		})
	}

	user, err := s.dir.FindByEmail(ctx, req.Email)
	if err != nil {
		return notFound(err, "User not found")
	}
	_, err = s.store.Users.Update(ctx, user.ID, map[string]any{"is_email_verified": true})
	return notFound(err, "User not found")
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if _, err := s.provider.Authenticate(ctx, req.Email, req.Password); err != nil {
		return nil, providerError(err, func(err error) *apperr.Error {
			return apperr.Auth("Invalid email or password", err)
		})
	}

	user, err := s.dir.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, notFound(err, "User not found")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	redirect := "/client"
	if user.Role == models.RoleAdmin {
		redirect = "/admin"
	}
	return &dto.LoginResponse{
		Message:     "Login successful.",
		Token:       token,
		RedirectURL: redirect,
		User: dto.SessionUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	}, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ResolveUser finds the local record behind a token: by subject id when
// present, otherwise by email. There is no automatic reconciliation; a
// missing record is reported as not found.
func (s *AuthService) ResolveUser(ctx context.Context, p Principal) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case p.ID != "":
		user, err = s.store.Users.Get(ctx, p.ID)
	case p.Email != "":
		user, err = s.dir.FindByEmail(ctx, p.Email)
	default:
		return nil, apperr.Auth("Invalid token", nil)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile applies a self-service change. It returns nil when there
// was nothing to change.
func (s *AuthService) UpdateProfile(ctx context.Context, p Principal, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.ResolveUser(ctx, p)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{}
	if req.Name != "" && req.Name != user.Name {
		patch["name"] = req.Name
	}
	if req.Email != "" {
		email := strings.TrimSpace(req.Email)
		if email == "" {
			return nil, ErrEmptyEmail
		}
		if email != user.Email {
			owner, err := s.dir.FindByEmail(ctx, email)
			switch {
			case err == nil && owner.ID != user.ID:
				return nil, ErrEmailTaken
			case err != nil && !errors.Is(err, store.ErrNotFound):
				return nil, err
			}
			patch["email"] = email
		}
	}
	if req.Password != "" {
		if req.Password != req.ConfirmPassword {
			return nil, ErrPasswordMismatch
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch["password"] = string(hash)
	}
	if len(patch) == 0 {
		return nil, nil
	}

	updated, err := s.store.Users.Update(ctx, user.ID, patch)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	if updated.Email != user.Email {
		s.dir.Forget(ctx, user.Email)
		s.dir.Remember(ctx, updated.Email, updated.ID)
	}
	return updated, nil
}
