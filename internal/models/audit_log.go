package models

// AuditLog is one row of the append-only audit trail. ResourceID is empty
// for actions over many rows such as imports.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index"`
	Action       string `gorm:"size:64;not null"`
	ResourceType string `gorm:"size:32;not null"`
	ResourceID   string `gorm:"size:64"`
	IPAddress    string `gorm:"size:45"`
	Changes      string
}
