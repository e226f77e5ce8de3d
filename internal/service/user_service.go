package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/tasty/internal/domain"
	"github.com/vedran77/tasty/internal/repository"
	"github.com/vedran77/tasty/pkg/validator"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateUserInput is the allow-listed patch surface for a profile. Staff and
// active flags are deliberately absent; they only change through staff
// tooling, never through the profile endpoint.
type UpdateUserInput struct {
	Username  *string    `json:"username"`
	Email     *string    `json:"email"`
	Password  *string    `json:"password"`
	Bio       *string    `json:"bio"`
	FullName  *string    `json:"full_name"`
	BirthDate *time.Time `json:"-"`
}

func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Username != nil && *input.Username != user.Username {
		existing, err := s.userRepo.GetByUsername(ctx, *input.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, ErrUsernameTaken
		}
		user.Username = *input.Username
	}

	if input.Email != nil {
		email := validator.NormalizeEmail(*input.Email)
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}

	if input.Bio != nil {
		user.Bio = input.Bio
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.BirthDate != nil {
		user.BirthDate = input.BirthDate
	}

	// A supplied password is rehashed; the old hash is gone after this.
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	return user, nil
}
