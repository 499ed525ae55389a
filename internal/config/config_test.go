package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_DRIVER", "JWT_EXPIRES_IN", "MAX_IMPORT_BYTES", "REFRESH_EXPIRES_IN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Errorf("expected postgres driver, got %s", cfg.StorageDriver)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h access expiry, got %s", cfg.JWTExpirationDur)
	}
	if cfg.RefreshExpirationDur != 7*24*time.Hour {
		t.Errorf("expected 168h refresh expiry, got %s", cfg.RefreshExpirationDur)
	}
	if cfg.MaxImportBytes != 5<<20 {
		t.Errorf("expected 5 MiB import limit, got %d", cfg.MaxImportBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("JWT_EXPIRES_IN", "15m")
	t.Setenv("MAX_IMPORT_BYTES", "1024")

	cfg, _ := Load()
	if cfg.StorageDriver != StorageSQLite {
		t.Errorf("expected sqlite driver, got %s", cfg.StorageDriver)
	}
	if cfg.JWTExpirationDur != 15*time.Minute {
		t.Errorf("expected 15m, got %s", cfg.JWTExpirationDur)
	}
	if cfg.MaxImportBytes != 1024 {
		t.Errorf("expected 1024, got %d", cfg.MaxImportBytes)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("JWT_EXPIRES_IN", "forever")
	t.Setenv("MAX_IMPORT_BYTES", "-1")

	cfg, _ := Load()
	if cfg.StorageDriver != StoragePostgres {
		t.Errorf("expected fallback to postgres, got %s", cfg.StorageDriver)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected fallback to 24h, got %s", cfg.JWTExpirationDur)
	}
	if cfg.MaxImportBytes != 5<<20 {
		t.Errorf("expected fallback to 5 MiB, got %d", cfg.MaxImportBytes)
	}
}
