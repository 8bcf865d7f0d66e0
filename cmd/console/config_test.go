package main

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/mdewinter/gatehouse/internal/krypto"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("ok, uses defaults when environment is empty", func(t *testing.T) {
		want := defaultConfig()
		got, err := configFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got\n%+v\nwant\n%+v", got, want)
		}
	})

	t.Run("ok, uses provided env variables", func(t *testing.T) {
		envForTest(t, "DB_FILE", "/tmp/accounts.db")
		envForTest(t, "MAIL_API_URL", "https://api.postmarkapp.com/email")
		envForTest(t, "MAIL_API_TOKEN", "server-token")
		envForTest(t, "PASSWORD_MIN_LENGTH", "12")
		envForTest(t, "LOGIN_ATTEMPT_EXPIRE", "60")

		got, err := configFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := defaultConfig()
		want.dbFile = "/tmp/accounts.db"
		want.mail.apiURL = must(url.Parse("https://api.postmarkapp.com/email"))
		want.mail.serverToken = krypto.NewSecret("server-token")
		want.auth.PasswordMinLength = 12
		want.auth.LoginAttemptWindow = time.Minute

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got\n%+v\nwant\n%+v", got, want)
		}
	})

	t.Run("fail, mail API without token", func(t *testing.T) {
		envForTest(t, "MAIL_API_URL", "https://api.postmarkapp.com/email")

		_, err := configFromEnv()
		if err == nil {
			t.Fatalf("expected an error, got none")
		}
	})

	t.Run("fail, invalid policy option", func(t *testing.T) {
		envForTest(t, "LOGIN_MAX_ATTEMPTS", "zero")

		_, err := configFromEnv()
		if err == nil {
			t.Fatalf("expected an error, got none")
		}
	})
}

func envForTest(t *testing.T, key, val string) {
	t.Helper()
	t.Setenv(key, val)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
