package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mdewinter/gatehouse/internal/auth"
	"github.com/mdewinter/gatehouse/internal/email"
	"github.com/mdewinter/gatehouse/internal/errorz"
)

type execFunc func(query string, params ...any) (sql.Result, error)
type queryFunc func(query string, params ...any) (*sql.Rows, error)
type rowFunc func(query string, params ...any) *sql.Row

func insertUser(ef execFunc, u *auth.User) error {
	if u.ID == uuid.Nil {
		return fmt.Errorf("zero uuid provided: %w", errorz.ErrConstraintViolated)
	}

	_, err := ef(`INSERT INTO users (id, email, password_hash, is_activated, activation_token_hash, token_requested_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(),
		string(u.Email),
		u.PasswordHash,
		u.IsActivated,
		u.ActivationTokenHash,
		u.TokenRequestedAt,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return nil
}

func updateUser(ef execFunc, u *auth.User) error {
	result, err := ef(`UPDATE users SET
		email = ?,
		password_hash = ?,
		is_activated = ?,
		activation_token_hash = ?,
		token_requested_at = ?,
		created_at = ?,
		updated_at = ?
		WHERE id = ?`,
		string(u.Email),
		u.PasswordHash,
		u.IsActivated,
		u.ActivationTokenHash,
		u.TokenRequestedAt,
		u.CreatedAt,
		u.UpdatedAt,
		u.ID.String(),
	)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errorz.MapDBErr(err)
	}

	if rows == 0 {
		return fmt.Errorf("user not found: %w", errorz.ErrNotFound)
	}

	return nil
}

func selectUsers(qf queryFunc, f *auth.UserFilter) ([]auth.User, error) {
	var b strings.Builder
	params := make([]any, 0)

	b.WriteString(`SELECT id, email, password_hash, is_activated, activation_token_hash, token_requested_at, created_at, updated_at FROM users WHERE 1=1 `)

	if len(f.IDs) > 0 {
		b.WriteString(`AND id IN (` + placeholders(len(f.IDs)) + `) `)
		for _, id := range f.IDs {
			params = append(params, id.String())
		}
	}

	if len(f.Emails) > 0 {
		b.WriteString(`AND email IN (` + placeholders(len(f.Emails)) + `) `)
		for _, addr := range f.Emails {
			params = append(params, string(addr))
		}
	}

	if f.IsActivated != nil {
		b.WriteString(`AND is_activated = ? `)
		params = append(params, *f.IsActivated)
	}

	b.WriteString(`ORDER BY created_at ASC`)

	rows, err := qf(b.String(), params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]auth.User, 0)
	for rows.Next() {
		var u auth.User
		var addr string
		err := rows.Scan(&u.ID, &addr, &u.PasswordHash, &u.IsActivated, &u.ActivationTokenHash, &u.TokenRequestedAt, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		u.Email = email.Address(addr)

		out = append(out, u)
	}

	if err := rows.Err(); err != nil {
		return nil, errorz.MapDBErr(err)
	}

	return out, nil
}

func insertLoginAttempt(ef execFunc, addr email.Address, at time.Time) error {
	_, err := ef(`INSERT INTO login_attempts (email, attempted_at) VALUES (?, ?)`, string(addr), at)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return nil
}

func countLoginAttempts(rf rowFunc, addr email.Address, since time.Time) (int, error) {
	var count int
	err := rf(`SELECT COUNT(id) FROM login_attempts WHERE email = ? AND attempted_at > ?`, string(addr), since).Scan(&count)
	if err != nil {
		return 0, errorz.MapDBErr(err)
	}

	return count, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
