package models

// Category represents a transaction category. Archiving clears IsActive;
// transactions keep pointing at archived rows.
type Category struct {
	Base
	UserID      string `gorm:"type:uuid;not null;index"`
	Name        string `gorm:"size:50;not null"`
	Description string
	Icon        string
	Color       string `gorm:"size:7"`
	IsDefault   bool
	IsActive    bool
	SortOrder   int `gorm:"default:0"`
}
