package auth

import (
	"fmt"

	"github.com/mdewinter/gatehouse/internal/krypto"
)

// We put a generous upper cap on password length, so people can use
// passphrases but we don't allow MBs of data as a password.
const maxPasswordBytes = 512

var (
	ErrPasswordTooShort = fmt.Errorf("password is too short")
	ErrPasswordTooLong  = fmt.Errorf("password is too long")
)

// Password is a plaintext password.
//
// It should never be persisted, logged or exposed in any other way. To
// protect ourselves from accidentally doing so, the type implements
// several common interfaces that would allow it to be used inappropriately.
//
// There are only two operations allowed on a Password:
// - Converting it to a hash.
// - Comparing it with an existing hash to see if they match.
type Password struct {
	plain []byte
}

// ParsePassword creates a new Password from a plaintext string.
// It errors if the password is shorter than minLen or longer than the
// fixed upper cap.
func ParsePassword(pwd string, minLen int) (Password, error) {
	if len(pwd) < minLen {
		return Password{}, fmt.Errorf("the password must be at least %d characters long: %w", minLen, ErrPasswordTooShort)
	}

	if len(pwd) > maxPasswordBytes {
		return Password{}, fmt.Errorf("the password must be at most %d characters long: %w", maxPasswordBytes, ErrPasswordTooLong)
	}

	return Password{
		plain: []byte(pwd),
	}, nil
}

// Match checks if the plaintext password matches the given hash.
func (p Password) Match(h krypto.Argon2Hash) bool {
	return h.MatchBytes(p.plain)
}

// Hash hashes the plaintext password using the argon2id algorithm.
func (p Password) Hash() (krypto.Argon2Hash, error) {
	return krypto.HashArgon2(p.plain)
}

func (p Password) Format(f fmt.State, verb rune) {
	f.Write([]byte(krypto.SecretMarker))
}

func (p Password) MarshalText() ([]byte, error) {
	return []byte(krypto.SecretMarker), nil
}
