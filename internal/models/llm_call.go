package models

// LLMCall is one tracked request to a language model.
type LLMCall struct {
	Base
	UserID             string `gorm:"type:uuid;not null;index"`
	Provider           string `gorm:"size:32;not null"`
	Model              string `gorm:"size:128;not null"`
	CallType           string `gorm:"size:32;not null;index"`
	RequestPayload     string
	ResponsePayload    string
	PromptTokens       int    `gorm:"not null;default:0"`
	CompletionTokens   int    `gorm:"not null;default:0"`
	TotalTokens        int    `gorm:"not null;default:0"`
	EstimatedCostCents int64  `gorm:"not null;default:0"`
	Status             string `gorm:"size:16;not null"`
	ErrorMessage       string
	DurationMs         int64 `gorm:"not null;default:0"`
}

// TableName keeps the initialism out of gorm's naming rules.
func (LLMCall) TableName() string { return "llm_calls" }
