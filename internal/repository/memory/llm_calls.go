package memory

import (
	"bytes"
	"context"

	"budgetwise/internal/domain"
	"budgetwise/internal/repository"
)

type LLMCallRepository struct {
	t *table[domain.LLMCall]
}

func NewLLMCallRepository() *LLMCallRepository {
	return &LLMCallRepository{t: newTable[domain.LLMCall]()}
}

func (r *LLMCallRepository) Create(_ context.Context, c domain.LLMCall) (domain.LLMCall, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	c.ID = newID(c.ID)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.t.now()
	}
	c.RequestPayload = bytes.Clone(c.RequestPayload)
	c.ResponsePayload = bytes.Clone(c.ResponsePayload)
	r.t.rows[c.ID] = c
	return c, nil
}

func (r *LLMCallRepository) GetByID(_ context.Context, id string) (domain.LLMCall, error) {
	return r.t.get(id)
}

func (r *LLMCallRepository) ListByUser(_ context.Context, userID string, f repository.LLMCallFilter) ([]domain.LLMCall, error) {
	rows := r.matching(userID, f)
	if f.Offset > 0 {
		if f.Offset >= len(rows) {
			return []domain.LLMCall{}, nil
		}
		rows = rows[f.Offset:]
	}
	return limitRows(rows, f.Limit), nil
}

func (r *LLMCallRepository) UserStats(_ context.Context, userID string, f repository.LLMCallFilter) (domain.LLMUsage, error) {
	var usage domain.LLMUsage
	for _, c := range r.matching(userID, f) {
		usage.Add(c)
	}
	return usage, nil
}

func (r *LLMCallRepository) matching(userID string, f repository.LLMCallFilter) []domain.LLMCall {
	return r.t.filter(func(c domain.LLMCall) bool {
		switch {
		case c.UserID != userID:
			return false
		case f.CallType != "" && c.CallType != f.CallType:
			return false
		case f.From != nil && c.CreatedAt.Before(*f.From):
			return false
		case f.To != nil && c.CreatedAt.After(*f.To):
			return false
		}
		return true
	}, func(a, b domain.LLMCall) bool {
		return a.CreatedAt.After(b.CreatedAt) || (a.CreatedAt.Equal(b.CreatedAt) && a.ID > b.ID)
	})
}
