package models

import "time"

// Budget represents a spending limit for a category
type Budget struct {
	Base
	UserID         string    `gorm:"type:uuid;not null;index"`
	CategoryID     string    `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"not null"`
	AmountCents    int64     `gorm:"type:bigint;not null"`
	Currency       string    `gorm:"size:3;not null"`
	Period         string    `gorm:"size:16;not null"`
	StartDate      time.Time `gorm:"not null"`
	EndDate        *time.Time
	AlertThreshold *int
	IsActive       bool

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID"`
}
