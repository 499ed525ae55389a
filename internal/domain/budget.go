package domain

import (
	"fmt"
	"strings"
	"time"
)

// BudgetPeriod is the recurrence granularity of a budget.
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "DAILY"
	BudgetPeriodWeekly  BudgetPeriod = "WEEKLY"
	BudgetPeriodMonthly BudgetPeriod = "MONTHLY"
	BudgetPeriodYearly  BudgetPeriod = "YEARLY"
)

// IsValid reports whether p is one of the known periods.
func (p BudgetPeriod) IsValid() bool {
	switch p {
	case BudgetPeriodDaily, BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget caps spending for a category over a recurring period.
type Budget struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	CategoryID     string       `json:"category_id"`
	Name           string       `json:"name"`
	AmountCents    int64        `json:"amount_cents"`
	Currency       Currency     `json:"currency"`
	Period         BudgetPeriod `json:"period"`
	StartDate      time.Time    `json:"start_date"`
	EndDate        *time.Time   `json:"end_date,omitempty"`
	AlertThreshold *int         `json:"alert_threshold,omitempty"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewBudget validates b and returns it.
func NewBudget(b Budget) (Budget, error) {
	if b.AmountCents < 0 {
		return Budget{}, fmt.Errorf("%w: budget amount cannot be negative", ErrInvalidBudget)
	}
	if strings.TrimSpace(b.Name) == "" {
		return Budget{}, fmt.Errorf("%w: budget name cannot be empty", ErrInvalidBudget)
	}
	if b.CategoryID == "" {
		return Budget{}, fmt.Errorf("%w: budget must have a category", ErrInvalidBudget)
	}
	if b.Currency == "" {
		b.Currency = DefaultCurrency
	}
	if _, err := LookupCurrency(b.Currency); err != nil {
		return Budget{}, fmt.Errorf("%w: %v", ErrInvalidBudget, err)
	}
	if !b.Period.IsValid() {
		return Budget{}, fmt.Errorf("%w: unknown period %q", ErrInvalidBudget, b.Period)
	}
	if b.EndDate != nil && b.EndDate.Before(b.StartDate) {
		return Budget{}, fmt.Errorf("%w: end date cannot be before start date", ErrInvalidBudget)
	}
	if b.AlertThreshold != nil && (*b.AlertThreshold < 0 || *b.AlertThreshold > 100) {
		return Budget{}, fmt.Errorf("%w: alert threshold must be between 0 and 100", ErrInvalidBudget)
	}
	return b, nil
}

// Amount returns the budget limit as Money.
func (b Budget) Amount() Money {
	return Money{cents: b.AmountCents, currency: b.Currency}
}

// IsActiveAt reports whether the budget is enabled and date falls inside
// [StartDate, EndDate]. Both bounds are inclusive; a nil EndDate is open-ended.
func (b Budget) IsActiveAt(date time.Time) bool {
	if !b.IsActive {
		return false
	}
	if date.Before(b.StartDate) {
		return false
	}
	if b.EndDate != nil && date.After(*b.EndDate) {
		return false
	}
	return true
}

// ShouldAlert reports whether spentCents reaches the alert threshold.
// Zero spend never alerts.
func (b Budget) ShouldAlert(spentCents int64) bool {
	if b.AlertThreshold == nil {
		return false
	}
	threshold := *b.AlertThreshold
	if threshold == 0 || b.AmountCents == 0 {
		return spentCents > 0
	}
	percentage := float64(spentCents) / float64(b.AmountCents) * 100
	return percentage >= float64(threshold)
}

// PeriodWindow returns the start and end of the period containing now, in
// now's location. Weeks start on Sunday. The start is clamped to StartDate.
func (b Budget) PeriodWindow(now time.Time) (time.Time, time.Time) {
	start, end := periodBounds(b.Period, now)
	if start.Before(b.StartDate) {
		start = b.StartDate
	}
	return start, end
}

func periodBounds(period BudgetPeriod, now time.Time) (time.Time, time.Time) {
	loc := now.Location()
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch period {
	case BudgetPeriodDaily:
		return dayStart, endOfDay(dayStart)
	case BudgetPeriodWeekly:
		start := dayStart.AddDate(0, 0, -int(now.Weekday()))
		return start, endOfDay(start.AddDate(0, 0, 6))
	case BudgetPeriodYearly:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return start, endOfDay(time.Date(y, time.December, 31, 0, 0, 0, 0, loc))
	default:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, endOfDay(start.AddDate(0, 1, -1))
	}
}

func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Millisecond)
}
