// Package memory provides map-backed repositories for tests and local runs.
// Every repository guards its map with a sync.RWMutex and stores values, so
// callers never share state with the store.
package memory

import (
	"sort"
	"sync"
	"time"

	"budgetwise/internal/repository"
	"budgetwise/internal/uuid"
)

// NewStore returns a repository.Store backed by fresh in-memory tables.
func NewStore() repository.Store {
	return repository.Store{
		Users:        NewUserRepository(),
		Categories:   NewCategoryRepository(),
		Budgets:      NewBudgetRepository(),
		Transactions: NewTransactionRepository(),
		AuditLogs:    NewAuditLogRepository(),
		LLMCalls:     NewLLMCallRepository(),
	}
}

// table is the shared map + lock behind each repository.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
	now  func() time.Time
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T), now: time.Now}
}

func (t *table[T]) get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return row, nil
}

func (t *table[T]) filter(keep func(T) bool, less func(a, b T) bool) []T {
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	t.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (t *table[T]) delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func newID(id string) string {
	if id == "" {
		return uuid.New()
	}
	return id
}

func limitRows[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
