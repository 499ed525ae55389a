package memory

import (
	"context"

	"budgetwise/internal/domain"
)

type AuditLogRepository struct {
	t *table[domain.AuditEntry]
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{t: newTable[domain.AuditEntry]()}
}

func (r *AuditLogRepository) Create(_ context.Context, entry domain.AuditEntry) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	entry.ID = newID(entry.ID)
	entry.CreatedAt = r.t.now()
	r.t.rows[entry.ID] = entry
	return nil
}

// Entries returns all entries for userID, oldest first.
func (r *AuditLogRepository) Entries(userID string) []domain.AuditEntry {
	return r.t.filter(func(e domain.AuditEntry) bool { return e.UserID == userID }, func(a, b domain.AuditEntry) bool {
		return a.CreatedAt.Before(b.CreatedAt) || (a.CreatedAt.Equal(b.CreatedAt) && a.ID < b.ID)
	})
}
