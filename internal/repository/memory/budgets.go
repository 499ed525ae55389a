package memory

import (
	"context"

	"budgetwise/internal/domain"
	"budgetwise/internal/repository"
)

type BudgetRepository struct {
	t *table[domain.Budget]
}

func NewBudgetRepository() *BudgetRepository {
	return &BudgetRepository{t: newTable[domain.Budget]()}
}

func budgetOrder(a, b domain.Budget) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (r *BudgetRepository) GetByID(_ context.Context, id string) (domain.Budget, error) {
	return r.t.get(id)
}

func (r *BudgetRepository) ListByUser(_ context.Context, userID string) ([]domain.Budget, error) {
	return r.t.filter(func(b domain.Budget) bool { return b.UserID == userID }, budgetOrder), nil
}

func (r *BudgetRepository) ListActiveByUser(_ context.Context, userID string) ([]domain.Budget, error) {
	return r.t.filter(func(b domain.Budget) bool { return b.UserID == userID && b.IsActive }, budgetOrder), nil
}

func (r *BudgetRepository) ListByCategory(_ context.Context, categoryID string) ([]domain.Budget, error) {
	return r.t.filter(func(b domain.Budget) bool { return b.CategoryID == categoryID }, budgetOrder), nil
}

func (r *BudgetRepository) Create(_ context.Context, b domain.Budget) (domain.Budget, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	b.ID = newID(b.ID)
	if _, exists := r.t.rows[b.ID]; exists {
		return domain.Budget{}, repository.ErrDuplicate
	}
	now := r.t.now()
	b.CreatedAt, b.UpdatedAt = now, now
	r.t.rows[b.ID] = b
	return b, nil
}

func (r *BudgetRepository) Update(_ context.Context, b domain.Budget) (domain.Budget, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	current, ok := r.t.rows[b.ID]
	if !ok {
		return domain.Budget{}, repository.ErrNotFound
	}
	b.CreatedAt = current.CreatedAt
	b.UpdatedAt = r.t.now()
	r.t.rows[b.ID] = b
	return b, nil
}

func (r *BudgetRepository) Delete(_ context.Context, id string) error {
	return r.t.delete(id)
}
