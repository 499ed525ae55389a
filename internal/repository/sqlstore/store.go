// Package sqlstore implements the repository ports on gorm. It works with
// both the Postgres and SQLite drivers.
package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"budgetwise/internal/repository"
)

// NewStore returns a repository.Store backed by db.
func NewStore(db *gorm.DB) repository.Store {
	return repository.Store{
		Users:        &UserRepository{db: db},
		Categories:   &CategoryRepository{db: db},
		Budgets:      &BudgetRepository{db: db},
		Transactions: &TransactionRepository{db: db},
		AuditLogs:    &AuditLogRepository{db: db},
		LLMCalls:     &LLMCallRepository{db: db},
	}
}

// translate maps gorm errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(repository.ErrDuplicate, err)
	}
	return err
}

// deleteByID soft-deletes one row of model, reporting ErrNotFound when
// nothing matched.
func deleteByID(ctx context.Context, db *gorm.DB, model any, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func withLimit(q *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return q.Limit(limit)
	}
	return q
}
