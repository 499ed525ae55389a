package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validBudget() Budget {
	return Budget{
		UserID:      "user-1",
		CategoryID:  "cat-1",
		Name:        "Groceries",
		AmountCents: 10000,
		Currency:    CurrencyUSD,
		Period:      BudgetPeriodMonthly,
		StartDate:   date(2025, time.January, 1),
		IsActive:    true,
	}
}

func TestNewBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		b, err := NewBudget(validBudget())
		require.NoError(t, err)
		assert.Equal(t, "Groceries", b.Name)
	})

	t.Run("defaults currency", func(t *testing.T) {
		in := validBudget()
		in.Currency = ""
		b, err := NewBudget(in)
		require.NoError(t, err)
		assert.Equal(t, CurrencyUSD, b.Currency)
	})

	end := date(2024, time.December, 31)
	tests := []struct {
		name   string
		mutate func(*Budget)
		msg    string
	}{
		{"negative amount", func(b *Budget) { b.AmountCents = -1 }, "negative"},
		{"blank name", func(b *Budget) { b.Name = "  " }, "name"},
		{"missing category", func(b *Budget) { b.CategoryID = "" }, "category"},
		{"bad period", func(b *Budget) { b.Period = "HOURLY" }, "period"},
		{"end before start", func(b *Budget) { b.EndDate = &end }, "end date"},
		{"threshold above 100", func(b *Budget) { b.AlertThreshold = intPtr(101) }, "threshold"},
		{"unsupported currency", func(b *Budget) { b.Currency = "XYZ" }, "unsupported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validBudget()
			tt.mutate(&in)
			_, err := NewBudget(in)
			require.ErrorIs(t, err, ErrInvalidBudget)
			assert.True(t, strings.Contains(err.Error(), tt.msg), err.Error())
		})
	}
}

func TestBudgetIsActiveAt(t *testing.T) {
	b := validBudget()
	end := date(2025, time.January, 31)
	b.EndDate = &end

	assert.True(t, b.IsActiveAt(b.StartDate), "start is inclusive")
	assert.True(t, b.IsActiveAt(end), "end is inclusive")
	assert.True(t, b.IsActiveAt(date(2025, time.January, 15)))
	assert.False(t, b.IsActiveAt(b.StartDate.AddDate(0, 0, -1)))
	assert.False(t, b.IsActiveAt(end.AddDate(0, 0, 1)))

	b.IsActive = false
	assert.False(t, b.IsActiveAt(date(2025, time.January, 15)))

	open := validBudget()
	assert.True(t, open.IsActiveAt(date(2030, time.June, 1)))
}

func TestBudgetShouldAlert(t *testing.T) {
	b := validBudget()
	assert.False(t, b.ShouldAlert(999999), "no threshold never alerts")

	b.AlertThreshold = intPtr(80)
	assert.True(t, b.ShouldAlert(8000))
	assert.False(t, b.ShouldAlert(7999))

	b.AlertThreshold = intPtr(0)
	assert.False(t, b.ShouldAlert(0))
	assert.True(t, b.ShouldAlert(1))

	b.AlertThreshold = intPtr(50)
	b.AmountCents = 0
	assert.False(t, b.ShouldAlert(0))
	assert.True(t, b.ShouldAlert(1))
}

func TestBudgetPeriodWindow(t *testing.T) {
	// Wednesday
	now := time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		period    BudgetPeriod
		wantStart time.Time
		wantEnd   time.Time
	}{
		{BudgetPeriodDaily, date(2025, time.March, 12), date(2025, time.March, 13).Add(-time.Millisecond)},
		{BudgetPeriodWeekly, date(2025, time.March, 9), date(2025, time.March, 16).Add(-time.Millisecond)},
		{BudgetPeriodMonthly, date(2025, time.March, 1), date(2025, time.April, 1).Add(-time.Millisecond)},
		{BudgetPeriodYearly, date(2025, time.January, 1), date(2026, time.January, 1).Add(-time.Millisecond)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			b := validBudget()
			b.Period = tt.period
			start, end := b.PeriodWindow(now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}

	t.Run("clamped to start date", func(t *testing.T) {
		b := validBudget()
		b.StartDate = date(2025, time.March, 10)
		start, _ := b.PeriodWindow(now)
		assert.Equal(t, b.StartDate, start)
	})
}
