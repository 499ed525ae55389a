// Package repository defines the persistence ports used by the services.
// Implementations live in the memory and sqlstore subpackages and must
// behave identically.
package repository

import (
	"context"
	"errors"
	"time"

	"budgetwise/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")
)

// TransactionFilter narrows ListByUser. Zero values mean "no filter".
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	CategoryID *string
	BudgetID   *string
	Limit      int
	Offset     int
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, u domain.User) (domain.User, error)
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (domain.Category, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Category, error)
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Category, error)
	Create(ctx context.Context, c domain.Category) (domain.Category, error)
	Update(ctx context.Context, c domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type BudgetRepository interface {
	GetByID(ctx context.Context, id string) (domain.Budget, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Budget, error)
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Budget, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Budget, error)
	Create(ctx context.Context, b domain.Budget) (domain.Budget, error)
	Update(ctx context.Context, b domain.Budget) (domain.Budget, error)
	Delete(ctx context.Context, id string) error
}

// TransactionRepository lists newest first unless noted otherwise.
type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (domain.Transaction, error)
	// ListByUser returns one page of matches and the total match count.
	ListByUser(ctx context.Context, userID string, filter TransactionFilter) ([]domain.Transaction, int64, error)
	// ListByUserInPeriod includes both bounds.
	ListByUserInPeriod(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)
	// ListByBudget returns at most limit rows; limit <= 0 means no limit.
	ListByBudget(ctx context.Context, budgetID string, limit int) ([]domain.Transaction, error)
	ListByCategory(ctx context.Context, categoryID string, limit int) ([]domain.Transaction, error)
	Create(ctx context.Context, t domain.Transaction) (domain.Transaction, error)
	Update(ctx context.Context, t domain.Transaction) (domain.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// AuditLogRepository stores audit entries. There is no read path in the API.
type AuditLogRepository interface {
	Create(ctx context.Context, entry domain.AuditEntry) error
}

// LLMCallFilter narrows LLM call queries. Zero values mean "no filter".
type LLMCallFilter struct {
	From     *time.Time
	To       *time.Time
	CallType domain.LLMCallType
	Limit    int
	Offset   int
}

// LLMCallRepository stores LLM call records.
type LLMCallRepository interface {
	Create(ctx context.Context, call domain.LLMCall) (domain.LLMCall, error)
	GetByID(ctx context.Context, id string) (domain.LLMCall, error)
	// ListByUser returns matches newest first. Limit and Offset apply.
	ListByUser(ctx context.Context, userID string, filter LLMCallFilter) ([]domain.LLMCall, error)
	// UserStats aggregates every match; Limit and Offset are ignored.
	UserStats(ctx context.Context, userID string, filter LLMCallFilter) (domain.LLMUsage, error)
}

// Store bundles one implementation of every port.
type Store struct {
	Users        UserRepository
	Categories   CategoryRepository
	Budgets      BudgetRepository
	Transactions TransactionRepository
	AuditLogs    AuditLogRepository
	LLMCalls     LLMCallRepository
}
