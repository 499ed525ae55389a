package domain

import "time"

// AuditEntry records a mutating user operation.
type AuditEntry struct {
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	Changes      string
	CreatedAt    time.Time
}
