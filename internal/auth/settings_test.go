package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdewinter/gatehouse/internal/auth"
	"github.com/mdewinter/gatehouse/internal/errorz"
)

func Test_DefaultSettings(t *testing.T) {
	s := auth.DefaultSettings()

	assert.Equal(t, 8, s.PasswordMinLength)
	assert.Equal(t, 100, s.EmailMaxLength)
	assert.Equal(t, 5, s.LoginMaxAttempts)
	assert.Equal(t, 12*time.Hour, s.LoginAttemptWindow)
	assert.Equal(t, 24*time.Hour, s.ActivationTokenTTL)
	assert.Equal(t, "webmaster@your-site.com", s.MailFrom)
	assert.Equal(t, "Welcome to Website - Please confirm your email address", s.MailSubject)
	assert.Contains(t, s.MailBody, "{ACTIVATION_TOKEN}")
	assert.Empty(t, s.MailBodyHTML)
}

func Test_LoadSettings(t *testing.T) {
	fromMap := func(m map[string]string) func(string) (string, bool) {
		return func(name string) (string, bool) {
			v, ok := m[name]
			return v, ok
		}
	}

	t.Run("ok, overrides are applied", func(t *testing.T) {
		s, err := auth.LoadSettings(fromMap(map[string]string{
			"password_min_length":  "12",
			"login_max_attempts":   "3",
			"login_attempt_expire": "60",
			"mail_from":            "noreply@gatehouse.test",
		}))
		require.NoError(t, err)

		assert.Equal(t, 12, s.PasswordMinLength)
		assert.Equal(t, 3, s.LoginMaxAttempts)
		assert.Equal(t, time.Minute, s.LoginAttemptWindow)
		assert.Equal(t, "noreply@gatehouse.test", s.MailFrom)

		// Untouched options keep their defaults.
		assert.Equal(t, 24*time.Hour, s.ActivationTokenTTL)
	})

	t.Run("fail, all invalid options are reported together", func(t *testing.T) {
		_, err := auth.LoadSettings(fromMap(map[string]string{
			"password_min_length": "apple",
			"login_max_attempts":  "0",
		}))
		require.Error(t, err)

		var invalid errorz.InvalidInput
		require.True(t, errors.As(err, &invalid))
		assert.Len(t, invalid, 2)
	})

	t.Run("fail, invalid values", func(t *testing.T) {
		tests := map[string]map[string]string{
			"non-numeric int":      {"password_min_length": "apple"},
			"negative min length":  {"password_min_length": "-1"},
			"zero max attempts":    {"login_max_attempts": "0"},
			"non-numeric duration": {"login_attempt_expire": "soon"},
			"zero duration":        {"mail_activation_expire": "0"},
		}

		for name, m := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := auth.LoadSettings(fromMap(m))
				require.ErrorIs(t, err, auth.ErrInvalidOption)

				// The error names the offending option.
				var keyed errorz.Keyed
				require.True(t, errors.As(err, &keyed))
				for k := range m {
					assert.Equal(t, k, keyed.Key)
				}
			})
		}
	})
}
