package krypto

import (
	"crypto/subtle"
	"database/sql/driver"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Parameters recommended by OWASP for argon2id at the time of writing.
const (
	argon2Variant     = "argon2id"
	argon2MemoryKiB   = 47104
	argon2Iterations  = 1
	argon2Parallelism = 1

	saltLen = 16
	keyLen  = 32
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidArgon2Hash = errors.New("invalid argon2 hash")
)

// Argon2Hash is the result of hashing data using the argon2id algorithm.
// It keeps the parameters used to derive the hash, so that data can be
// re-hashed and compared even after the default parameters change.
type Argon2Hash struct {
	Variant     string
	Version     int
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	Salt        []byte
	Hash        []byte
}

// HashArgon2 hashes the provided data using the argon2id algorithm
// with a freshly generated random salt.
func HashArgon2(data []byte) (Argon2Hash, error) {
	if len(data) == 0 {
		return Argon2Hash{}, fmt.Errorf("%w: no data to hash", ErrInvalidInput)
	}

	salt, err := genRandomBytes(saltLen)
	if err != nil {
		return Argon2Hash{}, err
	}

	hash := argon2.IDKey(data, salt, argon2Iterations, argon2MemoryKiB, argon2Parallelism, keyLen)

	return Argon2Hash{
		Variant:     argon2Variant,
		Version:     argon2.Version,
		MemoryKiB:   argon2MemoryKiB,
		Iterations:  argon2Iterations,
		Parallelism: argon2Parallelism,
		Salt:        salt,
		Hash:        hash,
	}, nil
}

// MatchBytes re-hashes data using the salt and parameters of h and
// compares the result to h in constant time.
func (h Argon2Hash) MatchBytes(data []byte) bool {
	rehash := argon2.IDKey(data, h.Salt, h.Iterations, h.MemoryKiB, h.Parallelism, uint32(len(h.Hash)))
	return subtle.ConstantTimeCompare(h.Hash, rehash) == 1
}

// ParseArgon2Hash parses a hash in the common
// $argon2id$v=19$m=...,t=...,p=...$salt$hash encoding. Salt and hash are
// expected to be base64 encoded without padding.
func ParseArgon2Hash(raw string) (Argon2Hash, error) {
	parts := strings.Split(raw, "$")
	if len(parts) != 6 || parts[0] != "" {
		return Argon2Hash{}, fmt.Errorf("%w: wrong number of segments", ErrInvalidArgon2Hash)
	}

	if parts[1] != argon2Variant {
		return Argon2Hash{}, fmt.Errorf("%w: unsupported variant %q", ErrInvalidArgon2Hash, parts[1])
	}

	h := Argon2Hash{
		Variant: parts[1],
	}

	if _, err := fmt.Sscanf(parts[2], "v=%d", &h.Version); err != nil {
		return Argon2Hash{}, fmt.Errorf("%w: failed to parse version", ErrInvalidArgon2Hash)
	}

	if h.Version != argon2.Version {
		return Argon2Hash{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidArgon2Hash, h.Version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.MemoryKiB, &h.Iterations, &h.Parallelism); err != nil {
		return Argon2Hash{}, fmt.Errorf("%w: failed to parse parameters", ErrInvalidArgon2Hash)
	}

	var err error
	h.Salt, err = base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return Argon2Hash{}, fmt.Errorf("%w: failed to decode salt", ErrInvalidArgon2Hash)
	}

	h.Hash, err = base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return Argon2Hash{}, fmt.Errorf("%w: failed to decode hash", ErrInvalidArgon2Hash)
	}

	return h, nil
}

// String encodes the hash in the common $-separated encoding.
// Note that this exposes the parameters, salt and derived key. That is
// fine, the value being hashed remains unknown.
func (h Argon2Hash) String() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		h.Variant,
		h.Version,
		h.MemoryKiB,
		h.Iterations,
		h.Parallelism,
		base64.RawStdEncoding.EncodeToString(h.Salt),
		base64.RawStdEncoding.EncodeToString(h.Hash),
	)
}

func (h Argon2Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Argon2Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseArgon2Hash(string(text))
	if err != nil {
		return err
	}

	*h = parsed

	return nil
}

// Value implements driver.Valuer so hashes can be written directly to
// database columns.
func (h Argon2Hash) Value() (driver.Value, error) {
	return h.String(), nil
}

// Scan implements sql.Scanner so hashes can be read directly from
// database columns.
func (h *Argon2Hash) Scan(src any) error {
	switch s := src.(type) {
	case string:
		return h.UnmarshalText([]byte(s))
	case []byte:
		return h.UnmarshalText(s)
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidArgon2Hash, src)
	}
}
