package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mdewinter/gatehouse/internal/email"
)

// UserFilter is used to filter users.
// Returned users must match all the provided fields.
// If a field is empty or nil, it's ignored.
type UserFilter struct {
	IDs         []uuid.UUID
	Emails      []email.Address
	IsActivated *bool
}

// Store provides access to the account store and the login-attempt ledger.
//
// CreateUser inside a transaction must be atomic with respect to the
// unique-email constraint: two concurrent creates for the same email must
// result in exactly one success and one ErrConstraintViolated.
type Store interface {
	BeginTx(ctx context.Context) (Tx, error)

	// FindUsers queries outside a transaction.
	FindUsers(ctx context.Context, filter *UserFilter) ([]User, error)

	// LogLoginAttempt appends a failed attempt for the address to the ledger.
	LogLoginAttempt(ctx context.Context, addr email.Address, at time.Time) error

	// CountLoginAttempts counts ledger records for the address with a
	// timestamp after since.
	CountLoginAttempts(ctx context.Context, addr email.Address, since time.Time) (int, error)
}

// Tx is a transaction. If an error occurs on any of the Create/Update/Find
// methods, the transaction is considered to have failed and should be
// rolled back. Tx is not safe for concurrent use.
type Tx interface {
	Commit() error
	Rollback() error

	CreateUser(u *User) error
	UpdateUser(u *User) error
	FindUsers(filter *UserFilter) ([]User, error)
}
