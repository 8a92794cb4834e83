package config

import (
	"os"
	"strings"
	"testing"
)

func TestGetSQLiteConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		os.Clearenv()
		cfg := GetSQLiteConfig()
		if cfg.TempStore != "MEMORY" || cfg.SyncLevel != "NORMAL" || cfg.BusyTimeout != 5000 {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
	})

	t.Run("IgnoresInvalidValues", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("SQLITE_SYNC_LEVEL", "sometimes")
		os.Setenv("SQLITE_TEMP_STORE", "file")
		cfg := GetSQLiteConfig()
		if cfg.SyncLevel != "NORMAL" {
			t.Errorf("expected NORMAL, got %s", cfg.SyncLevel)
		}
		if cfg.TempStore != "FILE" {
			t.Errorf("expected FILE, got %s", cfg.TempStore)
		}
	})
}

func TestSQLiteDSN(t *testing.T) {
	cfg := SQLiteConfig{BusyTimeout: 100, SyncLevel: "FULL"}

	if got := cfg.DSN("./avala.db"); !strings.HasPrefix(got, "./avala.db?_journal_mode=WAL") {
		t.Errorf("unexpected dsn %s", got)
	}
	got := cfg.DSN("file:avala.db?cache=shared")
	if !strings.Contains(got, "cache=shared&_journal_mode=WAL") || !strings.Contains(got, "_busy_timeout=100") {
		t.Errorf("unexpected dsn %s", got)
	}
}
