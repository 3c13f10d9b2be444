package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t1112000/seatly-fe/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.LedgerConfig{DBUser: "seatly", DBHost: "db", DBPort: "3306", DBName: "ledger"}
	assert.Equal(t, "seatly@tcp(db:3306)/ledger?charset=utf8mb4&parseTime=true&loc=UTC", DSN(cfg))

	cfg.DBPass = "s3cret"
	assert.Equal(t, "seatly:s3cret@tcp(db:3306)/ledger?charset=utf8mb4&parseTime=true&loc=UTC", DSN(cfg))
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS booking_outcomes")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, EnsureSchema(context.Background(), db))

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("denied"))
	err = EnsureSchema(context.Background(), db)
	assert.ErrorContains(t, err, "create booking_outcomes")

	assert.NoError(t, mock.ExpectationsWereMet())
}
