package service

import (
	"context"
	"strings"

	"github.com/rali22212/VibeConnect/internal/cache"
	"github.com/rali22212/VibeConnect/internal/models"
	"github.com/rali22212/VibeConnect/internal/repository"
	"github.com/rali22212/VibeConnect/internal/validation"
)

// UserService provides profile business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns a user's public profile, cache-aside.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(userID), &user, cache.UserTTL, func() error {
		fetched, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfileInput carries the editable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateProfileInput struct {
	Username  *string
	FullName  *string
	Bio       *string
	AvatarURL *string
}

// UpdateProfile applies the given changes to the user's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if username != user.Username {
			if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
				return nil, models.NewConflictError("username already taken")
			}
			user.Username = username
		}
	}
	if in.FullName != nil {
		fullName := strings.TrimSpace(*in.FullName)
		if len(fullName) > 100 {
			return nil, models.NewValidationError("full name too long (max 100 characters)")
		}
		user.FullName = fullName
	}
	if in.Bio != nil {
		if len(*in.Bio) > 500 {
			return nil, models.NewValidationError("bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		if len(*in.AvatarURL) > 2048 {
			return nil, models.NewValidationError("avatar URL too long")
		}
		user.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	cache.InvalidateUser(ctx, userID)
	return user, nil
}
