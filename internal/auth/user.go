package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdewinter/gatehouse/internal/email"
	"github.com/mdewinter/gatehouse/internal/krypto"
)

// User contains the data for an account.
type User struct {
	ID           uuid.UUID
	Email        email.Address
	PasswordHash krypto.Argon2Hash
	IsActivated  bool

	// ActivationTokenHash is the hash of the most recently issued
	// activation token. We hash the token to prevent someone with access
	// to the database from mis-using it. The hash remains after
	// activation, a stale token on an activated account is inert since
	// login already requires activation.
	ActivationTokenHash krypto.Argon2Hash

	// TokenRequestedAt is when the activation token was issued, it bounds
	// the token's validity.
	TokenRequestedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
