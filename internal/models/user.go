package models

// User represents the user model in the database
type User struct {
	Base
	Email            string `gorm:"uniqueIndex;not null"`
	PasswordHash     string `gorm:"not null"`
	Name             string `gorm:"not null"`
	DefaultCurrency  string `gorm:"size:3;not null;default:USD"`
	IsActive         bool
	RefreshTokenHash string `gorm:"size:64"`
}
