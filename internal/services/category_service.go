package services

import (
	"context"
	"strings"

	"budgetwise/internal/domain"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
	"budgetwise/internal/repository"
)

// categoryService handles category-related business logic.
type categoryService struct {
	categories repository.CategoryRepository
	budgets    repository.BudgetRepository
	now        Clock
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(store repository.Store) CategoryServicer {
	return &categoryService{categories: store.Categories, budgets: store.Budgets, now: utcNow}
}

// CreateCategory creates a new category at the end of the user's list.
func (s *categoryService) CreateCategory(ctx context.Context, userID string, input CategoryInput) (*domain.Category, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	name := strings.TrimSpace(*input.Name)

	existing, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if hasCategoryNamed(existing, name, "") {
		return nil, apperrors.ErrDuplicateCategory
	}

	now := s.now()
	category := domain.Category{
		UserID:    userID,
		Name:      name,
		IsActive:  true,
		SortOrder: len(existing),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyCategoryInput(&category, input)

	category, err = domain.NewCategory(category)
	if err != nil {
		return nil, validationError(err)
	}

	created, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &created, nil
}

// GetUserCategories lists a user's categories in display order.
func (s *categoryService) GetUserCategories(ctx context.Context, userID string, activeOnly bool) ([]domain.Category, error) {
	list := s.categories.ListByUser
	if activeOnly {
		list = s.categories.ListActiveByUser
	}
	categories, err := list(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrCategoryNotFound)
	}
	if category.UserID != userID {
		return nil, apperrors.ErrCategoryNotFound
	}
	return &category, nil
}

// UpdateCategory merges input into an existing category.
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID string, input CategoryInput) (*domain.Category, error) {
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if !strings.EqualFold(name, category.Name) {
			existing, err := s.categories.ListByUser(ctx, userID)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if hasCategoryNamed(existing, name, category.ID) {
				return nil, apperrors.ErrDuplicateCategory
			}
		}
		category.Name = name
	}
	applyCategoryInput(category, input)
	category.UpdatedAt = s.now()

	validated, err := domain.NewCategory(*category)
	if err != nil {
		return nil, validationError(err)
	}

	updated, err := s.categories.Update(ctx, validated)
	if err != nil {
		return nil, storeError(err, apperrors.ErrCategoryNotFound)
	}
	return &updated, nil
}

// DeleteCategory archives a category. Transactions keep their reference to
// it; categories still used by an active budget cannot be archived.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return err
	}

	budgets, err := s.budgets.ListByCategory(ctx, categoryID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, b := range budgets {
		if b.UserID == userID && b.IsActive {
			return apperrors.ErrCategoryInUse
		}
	}

	if _, err := s.categories.Update(ctx, category.Archive(s.now())); err != nil {
		return storeError(err, apperrors.ErrCategoryNotFound)
	}
	return nil
}

// SeedDefaultCategories creates the default category list for a user that
// has no categories yet. Users with categories get their existing list back.
func (s *categoryService) SeedDefaultCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	existing, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	now := s.now()
	seeded := make([]domain.Category, 0, len(domain.DefaultCategories))
	for i, def := range domain.DefaultCategories {
		created, err := s.categories.Create(ctx, domain.Category{
			UserID:      userID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Color:       def.Color,
			IsDefault:   true,
			IsActive:    true,
			SortOrder:   i,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		seeded = append(seeded, created)
	}

	logger.Get().Infow("seeded default categories", "user_id", userID, "count", len(seeded))
	return seeded, nil
}

func applyCategoryInput(c *domain.Category, input CategoryInput) {
	if input.Description != nil {
		c.Description = *input.Description
	}
	if input.Icon != nil {
		c.Icon = *input.Icon
	}
	if input.Color != nil {
		c.Color = *input.Color
	}
	if input.IsActive != nil {
		c.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		c.SortOrder = *input.SortOrder
	}
}

// hasCategoryNamed reports whether a category other than exceptID already
// uses name, ignoring case.
func hasCategoryNamed(categories []domain.Category, name, exceptID string) bool {
	for _, c := range categories {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
