package db

import (
	"database/sql"
	"fmt"
	"runtime"
	"time"

	"github.com/PauloHFS/avala/internal/config"
)

// DualPool splits SQLite access into a wide read pool and a single writer.
type DualPool struct {
	Read  *sql.DB
	Write *sql.DB
}

type PoolConfig struct {
	ReadMaxOpen  int
	ReadMaxIdle  int
	WriteMaxOpen int
	WriteMaxIdle int
}

var defaultPoolConfig = PoolConfig{
	ReadMaxOpen:  runtime.NumCPU() * 2,
	ReadMaxIdle:  runtime.NumCPU(),
	WriteMaxOpen: 1,
	WriteMaxIdle: 1,
}

func NewDualPool(driver, dsn string, opts ...func(*PoolConfig)) (*DualPool, error) {
	cfg := defaultPoolConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sqliteCfg := config.GetSQLiteConfig()
	dsn = sqliteCfg.DSN(dsn)

	readDB, err := open(driver, dsn, cfg.ReadMaxOpen, cfg.ReadMaxIdle)
	if err != nil {
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}

	writeDB, err := open(driver, dsn, cfg.WriteMaxOpen, cfg.WriteMaxIdle)
	if err != nil {
		readDB.Close()
		return nil, fmt.Errorf("failed to open write pool: %w", err)
	}

	pool := &DualPool{Read: readDB, Write: writeDB}

	if err := sqliteCfg.ApplyPragmas(readDB); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply read pragmas: %w", err)
	}
	if err := sqliteCfg.ApplyPragmas(writeDB); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply write pragmas: %w", err)
	}

	return pool, nil
}

func open(driver, dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxIdle)
	conn.SetConnMaxIdleTime(5 * time.Minute)
	conn.SetConnMaxLifetime(time.Hour)
	return conn, nil
}

func WithReadPoolSize(maxOpen, maxIdle int) func(*PoolConfig) {
	return func(cfg *PoolConfig) {
		cfg.ReadMaxOpen = maxOpen
		cfg.ReadMaxIdle = maxIdle
	}
}

func (p *DualPool) Close() error {
	var errs []error
	if p.Read != nil {
		if err := p.Read.Close(); err != nil {
			errs = append(errs, fmt.Errorf("read pool close: %w", err))
		}
	}
	if p.Write != nil {
		if err := p.Write.Close(); err != nil {
			errs = append(errs, fmt.Errorf("write pool close: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing pools: %v", errs)
	}
	return nil
}
