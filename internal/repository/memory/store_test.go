package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetwise/internal/domain"
	"budgetwise/internal/repository"
	"budgetwise/internal/repository/memory"
	"budgetwise/internal/repository/repositorytest"
)

func TestMemoryStore(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repository.Store { return memory.NewStore() })
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	repo := memory.NewTransactionRepository()
	ctx := context.Background()

	budget := "b1"
	tx, err := repo.Create(ctx, domain.Transaction{UserID: "u1", AmountCents: 100, OccurredAt: time.Now(), BudgetID: &budget})
	require.NoError(t, err)

	tx.AmountCents = 999
	stored, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), stored.AmountCents)
}

func TestMemoryStoreConcurrentWrites(t *testing.T) {
	repo := memory.NewTransactionRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, domain.Transaction{UserID: "u1", AmountCents: 1, OccurredAt: time.Now()})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, total, err := repo.ListByUser(ctx, "u1", repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(50), total)
}

func TestAuditEntries(t *testing.T) {
	repo := memory.NewAuditLogRepository()
	require.NoError(t, repo.Create(context.Background(), domain.AuditEntry{UserID: "u1", Action: "DELETE_BUDGET"}))
	entries := repo.Entries("u1")
	require.Len(t, entries, 1)
	assert.Equal(t, "DELETE_BUDGET", entries[0].Action)
}
