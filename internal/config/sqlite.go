package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type SQLiteConfig struct {
	CacheSizeKB int    // negativo = KB, positivo = páginas
	TempStore   string // "MEMORY" ou "FILE"
	BusyTimeout int    // ms
	SyncLevel   string // "OFF", "NORMAL", "FULL", "EXTRA"
}

func GetSQLiteConfig() SQLiteConfig {
	cfg := SQLiteConfig{
		CacheSizeKB: -16000,
		TempStore:   "MEMORY",
		BusyTimeout: 5000,
		SyncLevel:   "NORMAL",
	}

	if v, ok := os.LookupEnv("SQLITE_CACHE_SIZE"); ok {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.CacheSizeKB = i
		}
	}

	if v, ok := os.LookupEnv("SQLITE_TEMP_STORE"); ok {
		v = strings.ToUpper(v)
		if v == "MEMORY" || v == "FILE" {
			cfg.TempStore = v
		}
	}

	if v, ok := os.LookupEnv("SQLITE_BUSY_TIMEOUT"); ok {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.BusyTimeout = i
		}
	}

	if v, ok := os.LookupEnv("SQLITE_SYNC_LEVEL"); ok {
		v = strings.ToUpper(v)
		if v == "OFF" || v == "NORMAL" || v == "FULL" || v == "EXTRA" {
			cfg.SyncLevel = v
		}
	}

	return cfg
}

// DSN appends the go-sqlite3 connection parameters to dsn.
func (c SQLiteConfig) DSN(dsn string) string {
	params := fmt.Sprintf("_journal_mode=WAL&_busy_timeout=%d&_synchronous=%s&_foreign_keys=on", c.BusyTimeout, c.SyncLevel)
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

func (c SQLiteConfig) ApplyPragmas(db *sql.DB) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"temp_store", c.TempStore},
		{"cache_size", strconv.Itoa(c.CacheSizeKB)},
		{"wal_autocheckpoint", "1000"},
	}

	for _, p := range pragmas {
		pragma := fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", p.name, err)
		}
	}

	return nil
}
