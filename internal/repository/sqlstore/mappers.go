package sqlstore

import (
	"encoding/json"
	"time"

	"budgetwise/internal/domain"
	"budgetwise/internal/models"
)

func userToDomain(m models.User) domain.User {
	return domain.User{
		ID:               m.ID,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		Name:             m.Name,
		DefaultCurrency:  domain.Currency(m.DefaultCurrency),
		IsActive:         m.IsActive,
		RefreshTokenHash: m.RefreshTokenHash,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func userFromDomain(u domain.User) models.User {
	return models.User{
		Base:             models.Base{ID: u.ID, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt},
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		Name:             u.Name,
		DefaultCurrency:  string(u.DefaultCurrency),
		IsActive:         u.IsActive,
		RefreshTokenHash: u.RefreshTokenHash,
	}
}

func categoryToDomain(m models.Category) domain.Category {
	return domain.Category{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Description: m.Description,
		Icon:        m.Icon,
		Color:       m.Color,
		IsDefault:   m.IsDefault,
		IsActive:    m.IsActive,
		SortOrder:   m.SortOrder,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func categoryFromDomain(c domain.Category) models.Category {
	return models.Category{
		Base:        models.Base{ID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
		UserID:      c.UserID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		IsDefault:   c.IsDefault,
		IsActive:    c.IsActive,
		SortOrder:   c.SortOrder,
	}
}

func budgetToDomain(m models.Budget) domain.Budget {
	return domain.Budget{
		ID:             m.ID,
		UserID:         m.UserID,
		CategoryID:     m.CategoryID,
		Name:           m.Name,
		AmountCents:    m.AmountCents,
		Currency:       domain.Currency(m.Currency),
		Period:         domain.BudgetPeriod(m.Period),
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		AlertThreshold: m.AlertThreshold,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func budgetFromDomain(b domain.Budget) models.Budget {
	return models.Budget{
		Base:           models.Base{ID: b.ID, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt},
		UserID:         b.UserID,
		CategoryID:     b.CategoryID,
		Name:           b.Name,
		AmountCents:    b.AmountCents,
		Currency:       string(b.Currency),
		Period:         string(b.Period),
		StartDate:      b.StartDate.UTC(),
		EndDate:        utcPtr(b.EndDate),
		AlertThreshold: b.AlertThreshold,
		IsActive:       b.IsActive,
	}
}

func transactionToDomain(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		ID:          m.ID,
		UserID:      m.UserID,
		BudgetID:    m.BudgetID,
		CategoryID:  m.CategoryID,
		AmountCents: m.AmountCents,
		Note:        m.Note,
		OccurredAt:  m.OccurredAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func transactionFromDomain(t domain.Transaction) models.Transaction {
	return models.Transaction{
		Base:        models.Base{ID: t.ID, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt},
		UserID:      t.UserID,
		BudgetID:    t.BudgetID,
		CategoryID:  t.CategoryID,
		AmountCents: t.AmountCents,
		Note:        t.Note,
		OccurredAt:  t.OccurredAt.UTC(),
	}
}

func mapAll[M any, D any](rows []M, fn func(M) D) []D {
	out := make([]D, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}

// utcPtr stores times in UTC so SQLite's text comparison orders them
// correctly.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func llmCallToDomain(m models.LLMCall) domain.LLMCall {
	return domain.LLMCall{
		ID:                 m.ID,
		UserID:             m.UserID,
		Provider:           m.Provider,
		Model:              m.Model,
		CallType:           domain.LLMCallType(m.CallType),
		RequestPayload:     rawJSON(m.RequestPayload),
		ResponsePayload:    rawJSON(m.ResponsePayload),
		PromptTokens:       m.PromptTokens,
		CompletionTokens:   m.CompletionTokens,
		TotalTokens:        m.TotalTokens,
		EstimatedCostCents: m.EstimatedCostCents,
		Status:             domain.LLMCallStatus(m.Status),
		ErrorMessage:       m.ErrorMessage,
		DurationMs:         m.DurationMs,
		CreatedAt:          m.CreatedAt,
	}
}

func llmCallFromDomain(c domain.LLMCall) models.LLMCall {
	return models.LLMCall{
		Base:               models.Base{ID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.CreatedAt},
		UserID:             c.UserID,
		Provider:           c.Provider,
		Model:              c.Model,
		CallType:           string(c.CallType),
		RequestPayload:     string(c.RequestPayload),
		ResponsePayload:    string(c.ResponsePayload),
		PromptTokens:       c.PromptTokens,
		CompletionTokens:   c.CompletionTokens,
		TotalTokens:        c.TotalTokens,
		EstimatedCostCents: c.EstimatedCostCents,
		Status:             string(c.Status),
		ErrorMessage:       c.ErrorMessage,
		DurationMs:         c.DurationMs,
	}
}

func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}
