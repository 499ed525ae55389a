package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"budgetwise/internal/domain"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/repository"
)

const minPasswordLength = 8

// userService handles user-related business logic.
type userService struct {
	users repository.UserRepository
	now   Clock
}

// NewUserService creates a new UserServicer.
func NewUserService(store repository.Store) UserServicer {
	return &userService{users: store.Users, now: utcNow}
}

// CreateUser registers a new user
func (s *userService) CreateUser(ctx context.Context, email, password, name string, currency domain.Currency) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	user, err := domain.NewUser(domain.User{
		Email:           email,
		PasswordHash:    string(hashedPassword),
		Name:            strings.TrimSpace(name),
		DefaultCurrency: currency,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, validationError(err)
	}

	created, err := s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &created, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *domain.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// AttemptLogin returns the user when the credentials match. Unknown emails
// and wrong passwords produce the same error.
func (s *userService) AttemptLogin(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !s.VerifyPassword(&user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return &user, nil
}

// StoreRefreshTokenHash saves the hash of the user's current refresh token.
// An empty hash revokes it.
func (s *userService) StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storeError(err, apperrors.ErrUserNotFound)
	}
	user.RefreshTokenHash = tokenHash
	user.UpdatedAt = s.now()
	if _, err := s.users.Update(ctx, user); err != nil {
		return storeError(err, apperrors.ErrUserNotFound)
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash.
func (s *userService) GetRefreshTokenHash(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", storeError(err, apperrors.ErrUserNotFound)
	}
	return user.RefreshTokenHash, nil
}

// UpdatePassword replaces the password and revokes the refresh token.
func (s *userService) UpdatePassword(ctx context.Context, userID, password string) error {
	if len(password) < minPasswordLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storeError(err, apperrors.ErrUserNotFound)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.PasswordHash = string(hashedPassword)
	user.RefreshTokenHash = ""
	user.UpdatedAt = s.now()

	if _, err := s.users.Update(ctx, user); err != nil {
		return storeError(err, apperrors.ErrUserNotFound)
	}
	return nil
}
