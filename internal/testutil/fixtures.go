package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgetwise/internal/domain"
	"budgetwise/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, store repository.Store) domain.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, store, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, store repository.Store, email string) domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user, err := store.Users.Create(context.Background(), domain.User{
		Email:           email,
		PasswordHash:    string(hash),
		Name:            "Test User",
		DefaultCurrency: domain.CurrencyUSD,
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates an active category with the given name.
func CreateTestCategory(t *testing.T, store repository.Store, userID, name string) domain.Category {
	t.Helper()

	category, err := store.Categories.Create(context.Background(), domain.Category{
		UserID:   userID,
		Name:     name,
		Color:    "#A29BFE",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBudget creates an active monthly budget starting on 2025-01-01.
func CreateTestBudget(t *testing.T, store repository.Store, userID, categoryID string, amountCents int64) domain.Budget {
	t.Helper()

	budget, err := store.Budgets.Create(context.Background(), domain.Budget{
		UserID:      userID,
		CategoryID:  categoryID,
		Name:        fmt.Sprintf("Test Budget %d", nextID()),
		AmountCents: amountCents,
		Currency:    domain.CurrencyUSD,
		Period:      domain.BudgetPeriodMonthly,
		StartDate:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestTransaction creates a transaction, optionally linked to a budget.
func CreateTestTransaction(t *testing.T, store repository.Store, userID string, amountCents int64, occurredAt time.Time, budgetID *string) domain.Transaction {
	t.Helper()

	tx, err := store.Transactions.Create(context.Background(), domain.Transaction{
		UserID:      userID,
		BudgetID:    budgetID,
		AmountCents: amountCents,
		Note:        fmt.Sprintf("Test transaction %d", nextID()),
		OccurredAt:  occurredAt,
	})
	if err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
