package memory

import (
	"context"

	"budgetwise/internal/domain"
	"budgetwise/internal/repository"
)

type CategoryRepository struct {
	t *table[domain.Category]
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{t: newTable[domain.Category]()}
}

func categoryOrder(a, b domain.Category) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	return a.Name < b.Name
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (domain.Category, error) {
	return r.t.get(id)
}

func (r *CategoryRepository) ListByUser(_ context.Context, userID string) ([]domain.Category, error) {
	return r.t.filter(func(c domain.Category) bool { return c.UserID == userID }, categoryOrder), nil
}

func (r *CategoryRepository) ListActiveByUser(_ context.Context, userID string) ([]domain.Category, error) {
	return r.t.filter(func(c domain.Category) bool { return c.UserID == userID && c.IsActive }, categoryOrder), nil
}

func (r *CategoryRepository) Create(_ context.Context, c domain.Category) (domain.Category, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	c.ID = newID(c.ID)
	if _, exists := r.t.rows[c.ID]; exists {
		return domain.Category{}, repository.ErrDuplicate
	}
	now := r.t.now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.t.rows[c.ID] = c
	return c, nil
}

func (r *CategoryRepository) Update(_ context.Context, c domain.Category) (domain.Category, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	current, ok := r.t.rows[c.ID]
	if !ok {
		return domain.Category{}, repository.ErrNotFound
	}
	c.CreatedAt = current.CreatedAt
	c.UpdatedAt = r.t.now()
	r.t.rows[c.ID] = c
	return c, nil
}

func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	return r.t.delete(id)
}
