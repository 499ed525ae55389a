package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validation sentinels. Constructors wrap them with a detail message.
var (
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidBudget      = errors.New("invalid budget")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

const maxCategoryNameLength = 50

var categoryNamePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// Category groups transactions and budgets. Archived categories have
// IsActive=false; they are never hard-deleted while transactions refer to
// them, but no foreign key enforces that.
type Category struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	IsDefault   bool      `json:"is_default"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidateCategoryName checks the name rules shared by the API validator and
// the entity constructor.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name cannot be empty", ErrInvalidCategory)
	}
	if len(name) > maxCategoryNameLength {
		return fmt.Errorf("%w: category name too long", ErrInvalidCategory)
	}
	if !categoryNamePattern.MatchString(name) {
		return fmt.Errorf("%w: category name can only contain letters A-Z and spaces", ErrInvalidCategory)
	}
	return nil
}

// NewCategory validates c and returns it.
func NewCategory(c Category) (Category, error) {
	if err := ValidateCategoryName(c.Name); err != nil {
		return Category{}, err
	}
	if c.UserID == "" {
		return Category{}, fmt.Errorf("%w: category must belong to a user", ErrInvalidCategory)
	}
	return c, nil
}

// Archive returns a copy of c marked inactive.
func (c Category) Archive(now time.Time) Category {
	c.IsActive = false
	c.UpdatedAt = now
	return c
}
