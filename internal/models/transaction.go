package models

import "time"

// Transaction represents a money movement. CategoryID has no foreign key so
// that archived or removed categories never block history.
type Transaction struct {
	Base
	UserID      string  `gorm:"type:uuid;not null;index:idx_transactions_user_occurred"`
	BudgetID    *string `gorm:"type:uuid;index"`
	CategoryID  *string `gorm:"type:uuid;index"`
	AmountCents int64   `gorm:"type:bigint;not null"`
	Note        string
	OccurredAt  time.Time `gorm:"not null;index:idx_transactions_user_occurred"`
}
