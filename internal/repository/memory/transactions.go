package memory

import (
	"context"
	"time"

	"budgetwise/internal/domain"
	"budgetwise/internal/repository"
)

type TransactionRepository struct {
	t *table[domain.Transaction]
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{t: newTable[domain.Transaction]()}
}

// newestFirst orders by OccurredAt then CreatedAt, descending.
func newestFirst(a, b domain.Transaction) bool {
	if !a.OccurredAt.Equal(b.OccurredAt) {
		return a.OccurredAt.After(b.OccurredAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func matches(ptr *string, value *string) bool {
	if ptr == nil {
		return true
	}
	return value != nil && *value == *ptr
}

func (r *TransactionRepository) GetByID(_ context.Context, id string) (domain.Transaction, error) {
	return r.t.get(id)
}

func (r *TransactionRepository) ListByUser(_ context.Context, userID string, f repository.TransactionFilter) ([]domain.Transaction, int64, error) {
	rows := r.t.filter(func(tx domain.Transaction) bool {
		if tx.UserID != userID {
			return false
		}
		if f.From != nil && tx.OccurredAt.Before(*f.From) {
			return false
		}
		if f.To != nil && tx.OccurredAt.After(*f.To) {
			return false
		}
		return matches(f.CategoryID, tx.CategoryID) && matches(f.BudgetID, tx.BudgetID)
	}, newestFirst)

	total := int64(len(rows))
	if f.Offset > 0 {
		if f.Offset >= len(rows) {
			return []domain.Transaction{}, total, nil
		}
		rows = rows[f.Offset:]
	}
	return limitRows(rows, f.Limit), total, nil
}

func (r *TransactionRepository) ListByUserInPeriod(_ context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	return r.t.filter(func(tx domain.Transaction) bool {
		return tx.UserID == userID && !tx.OccurredAt.Before(from) && !tx.OccurredAt.After(to)
	}, newestFirst), nil
}

func (r *TransactionRepository) ListByBudget(_ context.Context, budgetID string, limit int) ([]domain.Transaction, error) {
	rows := r.t.filter(func(tx domain.Transaction) bool { return tx.InBudget(budgetID) }, newestFirst)
	return limitRows(rows, limit), nil
}

func (r *TransactionRepository) ListByCategory(_ context.Context, categoryID string, limit int) ([]domain.Transaction, error) {
	rows := r.t.filter(func(tx domain.Transaction) bool {
		return tx.CategoryID != nil && *tx.CategoryID == categoryID
	}, newestFirst)
	return limitRows(rows, limit), nil
}

func (r *TransactionRepository) Create(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	tx.ID = newID(tx.ID)
	if _, exists := r.t.rows[tx.ID]; exists {
		return domain.Transaction{}, repository.ErrDuplicate
	}
	now := r.t.now()
	tx.CreatedAt, tx.UpdatedAt = now, now
	r.t.rows[tx.ID] = tx
	return tx, nil
}

func (r *TransactionRepository) Update(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	current, ok := r.t.rows[tx.ID]
	if !ok {
		return domain.Transaction{}, repository.ErrNotFound
	}
	tx.CreatedAt = current.CreatedAt
	tx.UpdatedAt = r.t.now()
	r.t.rows[tx.ID] = tx
	return tx, nil
}

func (r *TransactionRepository) Delete(_ context.Context, id string) error {
	return r.t.delete(id)
}
