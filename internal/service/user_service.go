package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oreshkin/stockwise/internal/entity"
)

// UserService manages user profiles and role assignments.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfileRequest carries the self-editable profile fields.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display name cannot be empty", ErrValidation)
		}
		user.DisplayName = name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole changes a user's role. Only the two known roles are allowed.
func (s *UserService) SetRole(ctx context.Context, id, role string) (*entity.User, error) {
	if role != entity.RoleAdmin && role != entity.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
