// Package db implements the auth store on top of SQLite.
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/mdewinter/gatehouse/internal/auth"
	"github.com/mdewinter/gatehouse/internal/email"
)

// Store is responsible for interacting with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store.
func New(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

// BeginTx starts a new transaction.
func (s *Store) BeginTx(ctx context.Context) (auth.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{
		tx: tx,
	}, nil
}

// FindUsers queries for users outside a transaction.
func (s *Store) FindUsers(ctx context.Context, filter *auth.UserFilter) ([]auth.User, error) {
	return selectUsers(func(query string, params ...any) (*sql.Rows, error) {
		return s.db.QueryContext(ctx, query, params...)
	}, filter)
}

// LogLoginAttempt appends a failed login attempt to the ledger.
func (s *Store) LogLoginAttempt(ctx context.Context, addr email.Address, at time.Time) error {
	return insertLoginAttempt(func(query string, params ...any) (sql.Result, error) {
		return s.db.ExecContext(ctx, query, params...)
	}, addr, at)
}

// CountLoginAttempts counts the failed login attempts for the address
// recorded after since.
func (s *Store) CountLoginAttempts(ctx context.Context, addr email.Address, since time.Time) (int, error) {
	return countLoginAttempts(func(query string, params ...any) *sql.Row {
		return s.db.QueryRowContext(ctx, query, params...)
	}, addr, since)
}
