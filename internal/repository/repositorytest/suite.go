// Package repositorytest holds a behaviour suite that every repository.Store
// implementation must pass.
package repositorytest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetwise/internal/domain"
	"budgetwise/internal/repository"
)

// Run exercises store. newStore must return an empty store on every call.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("budgets", func(t *testing.T) { testBudgets(t, newStore(t)) })
	t.Run("transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
	t.Run("llm calls", func(t *testing.T) { testLLMCalls(t, newStore(t)) })
	t.Run("audit", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AuditLogs.Create(context.Background(), domain.AuditEntry{
			UserID: "0190b6a0-0000-7000-8000-000000000001", Action: "CREATE_BUDGET", ResourceType: "budget",
		}))
	})
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 12, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func testUsers(t *testing.T, store repository.Store) {
	ctx := context.Background()

	u, err := store.Users.Create(ctx, domain.User{Email: "a@example.com", Name: "A", PasswordHash: "x", DefaultCurrency: domain.CurrencyUSD, IsActive: true})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = store.Users.Create(ctx, domain.User{Email: "a@example.com", Name: "B", PasswordHash: "y", DefaultCurrency: domain.CurrencyUSD})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	byEmail, err := store.Users.GetByEmail(ctx, "A@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	u.RefreshTokenHash = "hash"
	_, err = store.Users.Update(ctx, u)
	require.NoError(t, err)
	got, err := store.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", got.RefreshTokenHash)

	_, err = store.Users.GetByID(ctx, "0190b6a0-0000-7000-8000-00000000dead")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Users.Update(ctx, domain.User{ID: "0190b6a0-0000-7000-8000-00000000dead", Email: "z@example.com"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testCategories(t *testing.T, store repository.Store) {
	ctx := context.Background()
	user := "0190b6a0-0000-7000-8000-0000000000aa"
	other := "0190b6a0-0000-7000-8000-0000000000bb"

	food, err := store.Categories.Create(ctx, domain.Category{UserID: user, Name: "Food", IsActive: true, SortOrder: 1})
	require.NoError(t, err)
	housing, err := store.Categories.Create(ctx, domain.Category{UserID: user, Name: "Housing", IsActive: true, SortOrder: 0})
	require.NoError(t, err)
	_, err = store.Categories.Create(ctx, domain.Category{UserID: other, Name: "Travel", IsActive: true})
	require.NoError(t, err)

	all, err := store.Categories.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, housing.ID, all[0].ID, "ordered by sort order")

	archived, err := store.Categories.Update(ctx, food.Archive(time.Now()))
	require.NoError(t, err)
	assert.False(t, archived.IsActive)
	assert.Equal(t, food.CreatedAt.Unix(), archived.CreatedAt.Unix())

	active, err := store.Categories.ListActiveByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, housing.ID, active[0].ID)

	require.NoError(t, store.Categories.Delete(ctx, housing.ID))
	_, err = store.Categories.GetByID(ctx, housing.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Categories.Delete(ctx, housing.ID), repository.ErrNotFound)
}

func testBudgets(t *testing.T, store repository.Store) {
	ctx := context.Background()
	user := "0190b6a0-0000-7000-8000-0000000000aa"
	category := "0190b6a0-0000-7000-8000-0000000000cc"
	threshold := 80
	end := day(31)

	b, err := store.Budgets.Create(ctx, domain.Budget{
		UserID: user, CategoryID: category, Name: "Food", AmountCents: 10000, Currency: domain.CurrencyUSD,
		Period: domain.BudgetPeriodMonthly, StartDate: day(1), EndDate: &end, AlertThreshold: &threshold, IsActive: true,
	})
	require.NoError(t, err)
	_, err = store.Budgets.Create(ctx, domain.Budget{
		UserID: user, CategoryID: category, Name: "Old", AmountCents: 500, Currency: domain.CurrencyUSD,
		Period: domain.BudgetPeriodWeekly, StartDate: day(1), IsActive: false,
	})
	require.NoError(t, err)

	got, err := store.Budgets.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AlertThreshold)
	assert.Equal(t, 80, *got.AlertThreshold)
	require.NotNil(t, got.EndDate)
	assert.True(t, end.Equal(*got.EndDate))

	all, err := store.Budgets.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := store.Budgets.ListActiveByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	byCategory, err := store.Budgets.ListByCategory(ctx, category)
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	got.AmountCents = 20000
	updated, err := store.Budgets.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), updated.AmountCents)

	require.NoError(t, store.Budgets.Delete(ctx, b.ID))
	_, err = store.Budgets.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testTransactions(t *testing.T, store repository.Store) {
	ctx := context.Background()
	user := "0190b6a0-0000-7000-8000-0000000000aa"
	budget := "0190b6a0-0000-7000-8000-0000000000dd"
	category := "0190b6a0-0000-7000-8000-0000000000cc"

	var ids []string
	for i, d := range []int{1, 5, 10, 20} {
		tx := domain.Transaction{UserID: user, AmountCents: int64(100 * (i + 1)), Note: "n", OccurredAt: day(d)}
		if i%2 == 0 {
			tx.BudgetID = strPtr(budget)
		}
		if i == 3 {
			tx.CategoryID = strPtr(category)
		}
		created, err := store.Transactions.Create(ctx, tx)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	_, err := store.Transactions.Create(ctx, domain.Transaction{UserID: "0190b6a0-0000-7000-8000-0000000000bb", AmountCents: 1, OccurredAt: day(5)})
	require.NoError(t, err)

	page, total, err := store.Transactions.ListByUser(ctx, user, repository.TransactionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID, "newest first")

	rest, _, err := store.Transactions.ListByUser(ctx, user, repository.TransactionFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, ids[0], rest[1].ID)

	from, to := day(5), day(10)
	inRange, total, err := store.Transactions.ListByUser(ctx, user, repository.TransactionFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, inRange, 2)

	period, err := store.Transactions.ListByUserInPeriod(ctx, user, day(1), day(10))
	require.NoError(t, err)
	assert.Len(t, period, 3, "both bounds are inclusive")

	byBudget, err := store.Transactions.ListByBudget(ctx, budget, 0)
	require.NoError(t, err)
	assert.Len(t, byBudget, 2)
	limited, err := store.Transactions.ListByBudget(ctx, budget, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	byCategory, err := store.Transactions.ListByCategory(ctx, category, 10)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, ids[3], byCategory[0].ID)

	tx, err := store.Transactions.GetByID(ctx, ids[1])
	require.NoError(t, err)
	tx.CategoryID = strPtr(category)
	_, err = store.Transactions.Update(ctx, tx)
	require.NoError(t, err)
	byCategory, err = store.Transactions.ListByCategory(ctx, category, 0)
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	require.NoError(t, store.Transactions.Delete(ctx, ids[0]))
	_, err = store.Transactions.GetByID(ctx, ids[0])
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testLLMCalls(t *testing.T, store repository.Store) {
	ctx := context.Background()
	user := "0190b6a0-0000-7000-8000-000000000001"
	other := "0190b6a0-0000-7000-8000-000000000002"

	record := func(userID string, callType domain.LLMCallType, status domain.LLMCallStatus, tokens int, cost int64, at time.Time) domain.LLMCall {
		t.Helper()
		c, err := store.LLMCalls.Create(ctx, domain.LLMCall{
			UserID:             userID,
			Provider:           "openrouter",
			Model:              "mistralai/mistral-small",
			CallType:           callType,
			RequestPayload:     json.RawMessage(`{"note":"Coffee"}`),
			TotalTokens:        tokens,
			EstimatedCostCents: cost,
			Status:             status,
			CreatedAt:          at,
		})
		require.NoError(t, err)
		return c
	}

	first := record(user, domain.LLMCallAutoCategorize, domain.LLMCallSuccess, 100, 1, day(1))
	record(user, domain.LLMCallAutoInvoice, domain.LLMCallSuccess, 900, 4, day(2))
	record(user, domain.LLMCallAutoCategorize, domain.LLMCallError, 0, 0, day(3))
	record(other, domain.LLMCallAutoCategorize, domain.LLMCallSuccess, 50, 1, day(2))
	assert.NotEmpty(t, first.ID)

	got, err := store.LLMCalls.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LLMCallAutoCategorize, got.CallType)
	assert.JSONEq(t, `{"note":"Coffee"}`, string(got.RequestPayload))
	assert.Empty(t, got.ResponsePayload)

	_, err = store.LLMCalls.GetByID(ctx, "0190b6a0-0000-7000-8000-00000000dead")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := store.LLMCalls.ListByUser(ctx, user, repository.LLMCallFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt), "newest first")
	assert.Equal(t, first.ID, all[2].ID)

	page, err := store.LLMCalls.ListByUser(ctx, user, repository.LLMCallFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, domain.LLMCallAutoInvoice, page[0].CallType)

	categorize, err := store.LLMCalls.ListByUser(ctx, user, repository.LLMCallFilter{CallType: domain.LLMCallAutoCategorize})
	require.NoError(t, err)
	assert.Len(t, categorize, 2)

	stats, err := store.LLMCalls.UserStats(ctx, user, repository.LLMCallFilter{})
	require.NoError(t, err)
	assert.Equal(t, domain.LLMUsage{TotalCalls: 3, SuccessfulCalls: 2, FailedCalls: 1, TotalTokens: 1000, TotalCostCents: 5}, stats)

	from, to := day(2), day(2)
	windowed, err := store.LLMCalls.UserStats(ctx, user, repository.LLMCallFilter{From: &from, To: &to, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.LLMUsage{TotalCalls: 1, SuccessfulCalls: 1, TotalTokens: 900, TotalCostCents: 4}, windowed)

	none, err := store.LLMCalls.UserStats(ctx, "0190b6a0-0000-7000-8000-000000000003", repository.LLMCallFilter{})
	require.NoError(t, err)
	assert.Zero(t, none)
}
