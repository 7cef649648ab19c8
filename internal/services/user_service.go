package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/audit"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var ErrUserExists = apperr.Validation("User already exists")

type UserService struct {
	store *store.Store
	dir   *store.UserDirectory
	audit Auditor
}

func NewUserService(s *store.Store, dir *store.UserDirectory, a Auditor) *UserService {
	return &UserService{store: s, dir: dir, audit: a}
}

// Create registers a user directly (admin path). actor defaults to the
// new user's own email.
func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest, actor string) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if req.Role == "" {
		req.Role = models.RoleClient
	}
	if !models.ValidRole(req.Role) {
		return nil, apperr.Validation("invalid role: " + req.Role)
	}

	_, err := s.dir.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     req.Role,
	}
	if err := s.store.Users.Insert(ctx, user); err != nil {
		return nil, err
	}
	s.dir.Remember(ctx, user.Email, user.ID)

	if actor == "" {
		actor = user.Email
	}
	s.audit.Append(ctx, audit.Users, audit.Event{
		Action:      models.ActionCreateUser,
		PerformedBy: actor,
		Target:      user.Email,
		Details:     fmt.Sprintf("User %s created with role %s", user.Name, user.Role),
	})
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users.Scan(ctx, "")
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.Users.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return u, nil
}

// Update patches the fields present in req and returns the stored record.
func (s *UserService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, actor string) (*models.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			return nil, ErrEmptyEmail
		}
		if email != current.Email {
			owner, err := s.dir.FindByEmail(ctx, email)
			switch {
			case err == nil && owner.ID != id:
				return nil, ErrEmailTaken
			case err != nil && !errors.Is(err, store.ErrNotFound):
				return nil, err
			}
			patch["email"] = email
		}
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch["password"] = string(hash)
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, apperr.Validation("invalid role: " + *req.Role)
		}
		patch["role"] = *req.Role
	}
	if req.IsEmailVerified != nil {
		patch["is_email_verified"] = *req.IsEmailVerified
	}
	if req.Latitude != nil {
		patch["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		patch["longitude"] = *req.Longitude
	}

	updated := current
	if len(patch) > 0 {
		updated, err = s.store.Users.Update(ctx, id, patch)
		if err != nil {
			return nil, notFound(err, "User not found")
		}
	}
	if updated.Email != current.Email {
		s.dir.Forget(ctx, current.Email)
		s.dir.Remember(ctx, updated.Email, updated.ID)
	}

	s.audit.Append(ctx, audit.Users, userUpdateEvent(current, updated, actor))
	return updated, nil
}

// userUpdateEvent describes an update. A role change takes precedence
// over the field diff.
func userUpdateEvent(before, after *models.User, actor string) audit.Event {
	if before.Role != after.Role {
		return audit.Event{
			Action:      models.ActionUpdateUserRole,
			PerformedBy: actor,
			Target:      before.Email,
			Details:     fmt.Sprintf("Changed role from %s to %s", before.Role, after.Role),
		}
	}

	var changes []string
	if before.Name != after.Name {
		changes = append(changes, fmt.Sprintf("Name: changed from \"%s\" to \"%s\"", before.Name, after.Name))
	}
	if before.Email != after.Email {
		changes = append(changes, fmt.Sprintf("Email: changed from \"%s\" to \"%s\"", before.Email, after.Email))
	}
	details := strings.Join(changes, ", ")
	if details == "" {
		details = fmt.Sprintf("User %s was updated (no significant changes).", after.Email)
	}
	return audit.Event{
		Action:      models.ActionUpdateUser,
		PerformedBy: actor,
		Target:      before.Email,
		Details:     details,
	}
}

func (s *UserService) Delete(ctx context.Context, id, actor string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Users.Delete(ctx, id); err != nil {
		return notFound(err, "User not found")
	}
	s.dir.Forget(ctx, user.Email)

	s.audit.Append(ctx, audit.Users, audit.Event{
		Action:      models.ActionDeleteUser,
		PerformedBy: actor,
		Target:      user.Email,
		Details:     "Deleted user " + user.Name,
	})
	return nil
}

// Logs returns user audit entries, newest first.
func (s *UserService) Logs(ctx context.Context) ([]models.UserLog, error) {
	return s.store.UserLogs.Scan(ctx, "timestamp DESC")
}
