package domain

import (
	"fmt"
	"time"
)

// Transaction is a single money movement. Budget and category are optional;
// negative amounts represent refunds.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	BudgetID    *string   `json:"budget_id,omitempty"`
	CategoryID  *string   `json:"category_id,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Note        string    `json:"note"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTransaction validates t and returns it.
func NewTransaction(t Transaction) (Transaction, error) {
	if t.UserID == "" {
		return Transaction{}, fmt.Errorf("%w: transaction must belong to a user", ErrInvalidTransaction)
	}
	if t.OccurredAt.IsZero() {
		return Transaction{}, fmt.Errorf("%w: occurred at is required", ErrInvalidTransaction)
	}
	return t, nil
}

// TransactionChanges lists the fields an update may replace. Nil fields keep
// their current value; an empty BudgetID or CategoryID unlinks it.
type TransactionChanges struct {
	BudgetID    *string
	CategoryID  *string
	AmountCents *int64
	Note        *string
	OccurredAt  *time.Time
}

// Apply returns a new, validated transaction with changes merged in.
func (t Transaction) Apply(changes TransactionChanges, now time.Time) (Transaction, error) {
	next := t
	if changes.BudgetID != nil {
		next.BudgetID = optionalID(*changes.BudgetID)
	}
	if changes.CategoryID != nil {
		next.CategoryID = optionalID(*changes.CategoryID)
	}
	if changes.AmountCents != nil {
		next.AmountCents = *changes.AmountCents
	}
	if changes.Note != nil {
		next.Note = *changes.Note
	}
	if changes.OccurredAt != nil {
		next.OccurredAt = *changes.OccurredAt
	}
	next.UpdatedAt = now
	return NewTransaction(next)
}

// optionalID maps "" to nil so an update can unlink a budget or category.
func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// IsCategorized reports whether a category has been assigned.
func (t Transaction) IsCategorized() bool {
	return t.CategoryID != nil && *t.CategoryID != ""
}

// InBudget reports whether the transaction is linked to budgetID.
func (t Transaction) InBudget(budgetID string) bool {
	return t.BudgetID != nil && *t.BudgetID == budgetID
}
