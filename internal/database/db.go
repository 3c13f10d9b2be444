// Package database opens the MySQL connection behind the outcome ledger.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/t1112000/seatly-fe/internal/config"
)

const outcomesSchema = `CREATE TABLE IF NOT EXISTS booking_outcomes (
	booking_id    VARCHAR(64)   NOT NULL PRIMARY KEY,
	status        VARCHAR(32)   NOT NULL,
	amount        DECIMAL(12,2) NOT NULL DEFAULT 0,
	provider      VARCHAR(32)   NOT NULL DEFAULT '',
	observations  INT           NOT NULL DEFAULT 1,
	first_seen_at DATETIME      NOT NULL,
	last_seen_at  DATETIME      NOT NULL
)`

// DSN builds the driver DSN for cfg.  Times are parsed into time.Time in UTC.
func DSN(cfg config.LedgerConfig) string {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// Open connects to the ledger database, checks it answers and makes sure the
// outcomes table exists.
func Open(ctx context.Context, cfg config.LedgerConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, err
	}

	// the ledger is written by a single consumer
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ledger db: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates booking_outcomes when it is missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, outcomesSchema); err != nil {
		return fmt.Errorf("create booking_outcomes: %w", err)
	}
	return nil
}
