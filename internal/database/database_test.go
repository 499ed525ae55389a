package database

import (
	"context"
	"path/filepath"
	"testing"

	"budgetwise/internal/config"
	"budgetwise/internal/domain"
)

func TestConfigURLs(t *testing.T) {
	cfg := NewConfig(&config.Config{
		StorageDriver: config.StoragePostgres,
		DBHost:        "db",
		DBPort:        "5432",
		DBUser:        "bw",
		DBPassword:    "secret",
		DBName:        "budgets",
		DBSSLMode:     "disable",
	})

	if got, want := cfg.DSN(), "host=db port=5432 user=bw password=secret dbname=budgets sslmode=disable"; got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if got, want := cfg.MigrateURL(), "postgres://bw:secret@db:5432/budgets?sslmode=disable"; got != want {
		t.Errorf("MigrateURL() = %q, want %q", got, want)
	}
}

func TestNewManagerRejectsUnknownDriver(t *testing.T) {
	if _, err := NewManager(&Config{Driver: config.StorageMemory}); err == nil {
		t.Fatal("expected error for memory driver")
	}
}

func TestSQLiteManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budgetwise.db")
	m, err := NewManager(&Config{Driver: config.StorageSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })

	if err := m.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if err := m.Migrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	store := m.Store()
	user, err := store.Users.Create(context.Background(), domain.User{
		Email:           "db@example.com",
		PasswordHash:    "hash",
		Name:            "DB",
		DefaultCurrency: domain.CurrencyUSD,
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if _, err := store.Users.GetByID(context.Background(), user.ID); err != nil {
		t.Errorf("failed to read user back: %v", err)
	}
}
