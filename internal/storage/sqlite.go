// Package storage provides a SQLite backed transaction ledger for
// deployments without Google Sheets access.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/vuongtx/thuchi-bot/internal/common"
	"github.com/vuongtx/thuchi-bot/internal/model"
	"github.com/vuongtx/thuchi-bot/internal/service"
)

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user TEXT NOT NULL,
	recorded_at TIMESTAMP NOT NULL,
	direction TEXT NOT NULL,
	amount INTEGER NOT NULL,
	category TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user, recorded_at);
`

// SQLiteLedger implements service.Ledger using a local SQLite database.
type SQLiteLedger struct {
	db     *sql.DB
	logger *slog.Logger
	dbPath string
}

// NewSQLiteLedger opens (or creates) the ledger database at dbPath.
func NewSQLiteLedger(dbPath string, logger *slog.Logger) (*SQLiteLedger, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path is empty", common.ErrInvalidConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(createTransactionsTable); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteLedger{db: db, dbPath: dbPath, logger: logger}, nil
}

// Close closes the database connection.
func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}

// Append records one transaction for the user.
func (s *SQLiteLedger) Append(ctx context.Context, user string, record model.TransactionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (user, recorded_at, direction, amount, category, note)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user, record.Timestamp, string(record.Direction), record.Amount, record.Category, record.Note)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreWrite, err)
	}

	s.logger.Info("transaction recorded",
		"user", user,
		"direction", record.Direction,
		"amount", record.Amount,
		"category", record.Category)

	return nil
}

// List returns the user's transactions within [start, end] in
// chronological order.
func (s *SQLiteLedger) List(ctx context.Context, user string, start, end time.Time) ([]model.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recorded_at, direction, amount, category, note
		 FROM transactions
		 WHERE user = ? AND recorded_at >= ? AND recorded_at <= ?
		 ORDER BY recorded_at`,
		user, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreAccess, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var records []model.TransactionRecord
	for rows.Next() {
		var record model.TransactionRecord
		var direction string
		if err := rows.Scan(&record.Timestamp, &direction, &record.Amount, &record.Category, &record.Note); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStoreAccess, err)
		}
		record.Direction = model.Direction(direction)
		record.User = user
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreAccess, err)
	}

	return records, nil
}

// Categories returns the distinct categories the user has recorded,
// per direction. A ledger with no records yet reports the default
// taxonomy so the listing is never empty.
func (s *SQLiteLedger) Categories(ctx context.Context, user string) (service.CategorySet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT direction, category
		 FROM transactions
		 WHERE user = ?
		 ORDER BY category`,
		user)
	if err != nil {
		return service.CategorySet{}, fmt.Errorf("%w: %v", common.ErrStoreAccess, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var set service.CategorySet
	for rows.Next() {
		var direction, category string
		if err := rows.Scan(&direction, &category); err != nil {
			return service.CategorySet{}, fmt.Errorf("%w: %v", common.ErrStoreAccess, err)
		}
		switch model.Direction(direction) {
		case model.DirectionIncome:
			set.Income = append(set.Income, category)
		case model.DirectionExpense:
			set.Expense = append(set.Expense, category)
		}
	}
	if err := rows.Err(); err != nil {
		return service.CategorySet{}, fmt.Errorf("%w: %v", common.ErrStoreAccess, err)
	}

	if len(set.Income) == 0 && len(set.Expense) == 0 {
		return service.CategorySet{
			Expense: model.ExpenseCategories,
			Income:  model.IncomeCategories,
		}, nil
	}

	return set, nil
}

// SheetURL has no meaning for local storage; it returns the database
// path so replies can still point somewhere useful.
func (s *SQLiteLedger) SheetURL(_ string) string {
	return s.dbPath
}
