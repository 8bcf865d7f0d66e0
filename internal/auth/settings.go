package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mdewinter/gatehouse/internal/errorz"
)

var (
	ErrMissingOption = errors.New("option is mandatory and missing")
	ErrInvalidOption = errors.New("option has an invalid value")
)

// Settings parameterizes all policy logic. It is immutable after
// construction and may be shared freely between goroutines.
type Settings struct {
	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength int
	// EmailMaxLength bounds stored email addresses. This is a stored-schema
	// limit, not a business rule.
	EmailMaxLength int
	// LoginMaxAttempts is the number of failed attempts allowed within
	// LoginAttemptWindow before an account is locked out.
	LoginMaxAttempts int
	// LoginAttemptWindow is the sliding window over which failed login
	// attempts are counted.
	LoginAttemptWindow time.Duration
	// ActivationTokenTTL is the validity period of an issued activation token.
	ActivationTokenTTL time.Duration

	MailFrom     string
	MailSubject  string
	MailBody     string
	MailBodyHTML string
}

// option describes a single recognized configuration option: its name,
// default, whether it must be provided and how its raw value is applied
// to the settings.
type option struct {
	name         string
	defaultValue string
	mandatory    bool
	apply        func(v string, s *Settings) error
}

// Durations are configured as a number of seconds to stay compatible
// with pre-existing configuration files.
var options = []option{
	{"password_min_length", "8", false, func(v string, s *Settings) error {
		return confInt(v, &s.PasswordMinLength, 0)
	}},
	{"email_max_length", "100", false, func(v string, s *Settings) error {
		return confInt(v, &s.EmailMaxLength, 1)
	}},
	{"login_max_attempts", "5", false, func(v string, s *Settings) error {
		return confInt(v, &s.LoginMaxAttempts, 1)
	}},
	{"login_attempt_expire", "43200", false, func(v string, s *Settings) error {
		return confSeconds(v, &s.LoginAttemptWindow)
	}},
	{"mail_activation_expire", "86400", false, func(v string, s *Settings) error {
		return confSeconds(v, &s.ActivationTokenTTL)
	}},
	{"mail_from", "webmaster@your-site.com", false, func(v string, s *Settings) error {
		s.MailFrom = v
		return nil
	}},
	{"mail_subject", "Welcome to Website - Please confirm your email address", false, func(v string, s *Settings) error {
		s.MailSubject = v
		return nil
	}},
	{"mail_body", "Please go to http://your-site.com/?activate_email={ACTIVATION_TOKEN} to activate your email address.", false, func(v string, s *Settings) error {
		s.MailBody = v
		return nil
	}},
	{"mail_body_html", "", false, func(v string, s *Settings) error {
		s.MailBodyHTML = v
		return nil
	}},
}

// DefaultSettings returns the settings with all options at their defaults.
func DefaultSettings() Settings {
	s, err := LoadSettings(func(string) (string, bool) {
		return "", false
	})
	if err != nil {
		// The defaults table is static, failing to apply it is a bug.
		panic(err)
	}
	return s
}

// LoadSettings constructs settings by resolving every recognized option
// via the provided lookup function, falling back to defaults for options
// the lookup does not know. All invalid or missing options are reported
// together, each error names the offending option.
func LoadSettings(lookup func(name string) (string, bool)) (Settings, error) {
	var s Settings
	var invalid errorz.InvalidInput

	for _, opt := range options {
		v, ok := lookup(opt.name)
		if !ok {
			if opt.mandatory {
				invalid = append(invalid, errorz.Keyed{Key: opt.name, Err: ErrMissingOption})
				continue
			}
			v = opt.defaultValue
		}

		if err := opt.apply(v, &s); err != nil {
			invalid = append(invalid, errorz.Keyed{Key: opt.name, Err: err})
		}
	}

	if len(invalid) > 0 {
		return Settings{}, invalid
	}

	return s, nil
}

func confInt(v string, tgt *int, min int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidOption, v)
	}

	if n < min {
		return fmt.Errorf("%w: %d is below minimum %d", ErrInvalidOption, n, min)
	}

	*tgt = n

	return nil
}

func confSeconds(v string, tgt *time.Duration) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number of seconds", ErrInvalidOption, v)
	}

	if n <= 0 {
		return fmt.Errorf("%w: %d seconds is not a valid window", ErrInvalidOption, n)
	}

	*tgt = time.Duration(n) * time.Second

	return nil
}
