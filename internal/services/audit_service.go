package services

import (
	"context"
	"encoding/json"
	"strings"

	"budgetwise/internal/domain"
	"budgetwise/internal/logger"
	"budgetwise/internal/repository"
)

const (
	redacted        = "[REDACTED]"
	maxChangesBytes = 4096
)

// Keys whose values never reach the audit table, matched case-insensitively
// by substring.
var sensitiveKeys = []string{"password", "token", "secret"}

type auditService struct {
	logs repository.AuditLogRepository
	now  Clock
}

// NewAuditService creates an AuditServicer writing to store.AuditLogs.
func NewAuditService(store repository.Store) AuditServicer {
	return &auditService{logs: store.AuditLogs, now: utcNow}
}

// Log records an audit event. Failures are logged and swallowed so the
// audited operation is never rolled back by them.
func (s *auditService) Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	log := logger.Named("audit")

	entry := domain.AuditEntry{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(changes),
		CreatedAt:    s.now(),
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		log.Errorw("Failed to write audit entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource", resourceType+"/"+resourceID,
		)
		return
	}
	log.Debugw("Audit entry recorded", "user_id", userID, "action", action)
}

// encodeChanges renders changes as JSON with sensitive values masked.
// Oversized payloads are replaced by a marker holding their size.
func encodeChanges(changes map[string]any) string {
	if len(changes) == 0 {
		return ""
	}

	clean := make(map[string]any, len(changes))
	for k, v := range changes {
		if isSensitive(k) {
			clean[k] = redacted
			continue
		}
		clean[k] = v
	}

	data, err := json.Marshal(clean)
	if err != nil {
		logger.Named("audit").Warnw("Unencodable audit changes", "error", err)
		return "{}"
	}
	if len(data) > maxChangesBytes {
		marker, _ := json.Marshal(map[string]int{"truncated_bytes": len(data)})
		return string(marker)
	}
	return string(data)
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
