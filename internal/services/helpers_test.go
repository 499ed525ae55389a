package services

import (
	"context"
	"sync"

	"budgetwise/internal/domain"
	"budgetwise/internal/repository"
	"budgetwise/internal/repository/memory"
)

func memoryStore() repository.Store { return memory.NewStore() }

// stubCategorizer picks the category named pick, or returns err.
type stubCategorizer struct {
	pick  string
	id    string
	err   error
	calls int
}

func (s *stubCategorizer) Categorize(_ context.Context, _, _ string, _ int64, categories []domain.Category) (string, string, error) {
	s.calls++
	if s.err != nil {
		return "", "", s.err
	}
	if s.id != "" {
		return s.id, "forced", nil
	}
	for _, c := range categories {
		if c.Name == s.pick {
			return c.ID, "matched " + c.Name, nil
		}
	}
	return "", "no match", nil
}

type recordingQueue struct {
	mu        sync.Mutex
	jobs      []string
	err       error
	onEnqueue func()
}

func (q *recordingQueue) Enqueue(_ context.Context, _, transactionID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.onEnqueue != nil {
		q.onEnqueue()
	}
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, transactionID)
	return nil
}

// stubInvoiceParser returns invoice or err and records the categories it was
// offered.
type stubInvoiceParser struct {
	invoice    *domain.ParsedInvoice
	err        error
	categories []domain.Category
}

func (p *stubInvoiceParser) ParseInvoice(_ context.Context, _, _ string, categories []domain.Category) (*domain.ParsedInvoice, error) {
	p.categories = categories
	return p.invoice, p.err
}
