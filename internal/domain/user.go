package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidUser = errors.New("invalid user")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is an account holder.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Name             string    `json:"name"`
	DefaultCurrency  Currency  `json:"default_currency"`
	IsActive         bool      `json:"is_active"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewUser validates u, normalizing the email to lower case.
func NewUser(u User) (User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if !emailPattern.MatchString(u.Email) {
		return User{}, fmt.Errorf("%w: invalid email format", ErrInvalidUser)
	}
	if strings.TrimSpace(u.Name) == "" {
		return User{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidUser)
	}
	if u.DefaultCurrency == "" {
		u.DefaultCurrency = DefaultCurrency
	}
	if _, err := LookupCurrency(u.DefaultCurrency); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	return u, nil
}
