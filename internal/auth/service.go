package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mdewinter/gatehouse/internal/email"
	"github.com/mdewinter/gatehouse/internal/errorz"
	"github.com/mdewinter/gatehouse/internal/krypto"
)

var (
	ErrEmailTaken   = errors.New("email address is already registered")
	ErrEmailTooLong = errors.New("email address is too long")
)

// Notifier is used to deliver activation messages.
type Notifier interface {
	SendActivation(ctx context.Context, to email.Address, token krypto.Token) error
}

// Service provides the main rules for authentication: it creates
// accounts, verifies credentials, gates access behind email activation
// and defends logins with a sliding-window lockout counter.
//
// A Service holds no per-account state, all methods are safe for
// concurrent use.
type Service struct {
	store    Store
	notifier Notifier
	settings Settings

	// comparisonHash is used to compare passwords when no user was found.
	comparisonHash krypto.Argon2Hash

	// NowFunc is used to get the current time.
	// Exposed for testing purposes.
	NowFunc func() time.Time
}

func NewService(store Store, notifier Notifier, settings Settings) (*Service, error) {
	// Hash a throwaway token so that login attempts against unknown
	// accounts spend the same time comparing as attempts against known
	// accounts. Timing differences could otherwise lead to user
	// enumeration attacks.
	tok, err := krypto.GenerateToken()
	if err != nil {
		return nil, err
	}

	hash, err := krypto.HashArgon2(tok[:])
	if err != nil {
		return nil, err
	}

	return &Service{
		store:          store,
		notifier:       notifier,
		settings:       settings,
		comparisonHash: hash,
		NowFunc:        time.Now,
	}, nil
}

// Settings returns the settings the service was constructed with.
func (s *Service) Settings() Settings {
	return s.settings
}

// Register creates a new, non-activated account and sends it an
// activation email.
//
// If the account row was persisted but the email could not be delivered,
// the account is kept and the delivery error is returned alongside the
// new user. ResendActivation is the remediation for that case.
func (s *Service) Register(ctx context.Context, rawEmail, rawPassword string) (User, error) {
	addr, err := email.ParseAddress(rawEmail)
	if err != nil {
		return User{}, err
	}

	if len(addr) > s.settings.EmailMaxLength {
		return User{}, fmt.Errorf("the email address must be shorter than %d characters: %w", s.settings.EmailMaxLength, ErrEmailTooLong)
	}

	pwd, err := ParsePassword(rawPassword, s.settings.PasswordMinLength)
	if err != nil {
		return User{}, err
	}

	pwdHash, err := pwd.Hash()
	if err != nil {
		return User{}, err
	}

	token, err := krypto.GenerateToken()
	if err != nil {
		return User{}, err
	}

	tokenHash, err := token.Hash()
	if err != nil {
		return User{}, err
	}

	now := s.NowFunc()
	user := User{
		ID:                  uuid.New(),
		Email:               addr,
		PasswordHash:        pwdHash,
		IsActivated:         false,
		ActivationTokenHash: tokenHash,
		TokenRequestedAt:    now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = s.inTx(ctx, func(tx Tx) error {
		// The unique constraint on the email column makes the
		// existence-check-and-insert a single atomic operation.
		txErr := tx.CreateUser(&user)
		if errors.Is(txErr, errorz.ErrConstraintViolated) {
			return fmt.Errorf("email %q is already registered: %w", addr, ErrEmailTaken)
		}
		return txErr
	})
	if err != nil {
		return User{}, err
	}

	// Delivery could fail independently of the transaction, in that case
	// the account is deliberately not rolled back. If the user has not
	// received the email they can request a new one.
	//
	// If at some point this becomes unacceptable, we need to consider
	// some kind of outbox pattern.
	if err := s.notifier.SendActivation(ctx, addr, token); err != nil {
		return user, fmt.Errorf("account created but activation email failed: %w", err)
	}

	return user, nil
}

// ResendActivation issues a fresh activation token for the account and
// sends it by email. The previous token no longer activates the account.
//
// If the account does not exist or is already activated, ResendActivation
// returns without effect. Both branches are indistinguishable to the
// caller so the method can not be used to probe which addresses are
// registered.
func (s *Service) ResendActivation(ctx context.Context, rawEmail string) error {
	addr, err := email.ParseAddress(rawEmail)
	if err != nil {
		return err
	}

	token, err := krypto.GenerateToken()
	if err != nil {
		return err
	}

	tokenHash, err := token.Hash()
	if err != nil {
		return err
	}

	issued := false
	err = s.inTx(ctx, func(tx Tx) error {
		users, txErr := tx.FindUsers(&UserFilter{
			Emails: []email.Address{addr},
		})
		if txErr != nil {
			return txErr
		}

		if len(users) != 1 || users[0].IsActivated {
			return nil
		}

		user := users[0]
		user.ActivationTokenHash = tokenHash
		user.TokenRequestedAt = s.NowFunc()
		user.UpdatedAt = user.TokenRequestedAt

		if txErr := tx.UpdateUser(&user); txErr != nil {
			return txErr
		}

		issued = true

		return nil
	})
	if err != nil {
		return err
	}

	if !issued {
		return nil
	}

	return s.notifier.SendActivation(ctx, addr, token)
}

// Activate marks the account as activated if the supplied token matches
// the stored one and the token has not expired.
//
// It returns false when activation was denied: unknown account, expired
// token or token mismatch. Callers can not distinguish these cases, the
// remediation for all of them is requesting a fresh token. Activating an
// already activated account with a still-valid token returns true again.
func (s *Service) Activate(ctx context.Context, rawEmail string, token krypto.Token) (bool, error) {
	addr, err := email.ParseAddress(rawEmail)
	if err != nil {
		return false, nil
	}

	activated := false
	err = s.inTx(ctx, func(tx Tx) error {
		users, txErr := tx.FindUsers(&UserFilter{
			Emails: []email.Address{addr},
		})
		if txErr != nil {
			return txErr
		}

		if len(users) != 1 {
			return nil
		}

		user := users[0]
		now := s.NowFunc()

		if now.Sub(user.TokenRequestedAt) > s.settings.ActivationTokenTTL {
			return nil
		}

		if !token.Match(user.ActivationTokenHash) {
			return nil
		}

		if !user.IsActivated {
			user.IsActivated = true
			user.UpdatedAt = now

			if txErr := tx.UpdateUser(&user); txErr != nil {
				return txErr
			}
		}

		activated = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return activated, nil
}

// ActivateByIdentifier is like Activate but resolves the account from the
// encoded email identifier that was embedded in the activation message.
func (s *Service) ActivateByIdentifier(ctx context.Context, identifier string, token krypto.Token) (bool, error) {
	addr, err := email.ParseIdentifier(identifier)
	if err != nil {
		return false, nil
	}

	return s.Activate(ctx, string(addr), token)
}

// Login verifies the provided credentials. The checks are evaluated in a
// fixed order, short-circuiting on the first failing one:
//
//  1. Lockout: at or above the attempt threshold within the window the
//     result is LoginLockedOut. The call itself is recorded as another
//     failed attempt, continued attempts during lockout keep pushing the
//     window forward.
//  2. Activation: a non-activated account yields LoginNotActivated and
//     records no attempt.
//  3. Credentials: a mismatch yields LoginWrongCredentials and records a
//     failed attempt. Unknown accounts take this same path after a decoy
//     comparison.
//
// A successful login records nothing and mutates no persisted state.
func (s *Service) Login(ctx context.Context, rawEmail, rawPassword string) (LoginResult, error) {
	addr := email.Address(rawEmail)
	now := s.NowFunc()

	count, err := s.store.CountLoginAttempts(ctx, addr, now.Add(-s.settings.LoginAttemptWindow))
	if err != nil {
		return LoginNone, err
	}

	if count >= s.settings.LoginMaxAttempts {
		if err := s.store.LogLoginAttempt(ctx, addr, now); err != nil {
			return LoginNone, err
		}
		return LoginLockedOut, nil
	}

	users, err := s.store.FindUsers(ctx, &UserFilter{
		Emails: []email.Address{addr},
	})
	if err != nil {
		return LoginNone, err
	}

	if len(users) != 1 {
		// Even if no user is found we compare to a hash to prevent timing
		// differences that could result in user enumeration attacks.
		_ = s.comparisonHash.MatchBytes([]byte(rawPassword))

		if err := s.store.LogLoginAttempt(ctx, addr, now); err != nil {
			return LoginNone, err
		}
		return LoginWrongCredentials, nil
	}

	user := users[0]

	if !user.IsActivated {
		return LoginNotActivated, nil
	}

	if !user.PasswordHash.MatchBytes([]byte(rawPassword)) {
		if err := s.store.LogLoginAttempt(ctx, addr, now); err != nil {
			return LoginNone, err
		}
		return LoginWrongCredentials, nil
	}

	return LoginSuccess, nil
}

func (s *Service) inTx(ctx context.Context, f func(tx Tx) error) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}

	err = f(tx)
	if err != nil {
		rBackErr := tx.Rollback()
		if rBackErr != nil {
			err = errors.Join(err, rBackErr)
		}
		return err
	}

	return tx.Commit()
}
