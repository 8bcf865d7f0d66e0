package krypto_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mdewinter/gatehouse/internal/krypto"
)

func Test_Token_GenerateToken(t *testing.T) {
	t.Run("ok, tokens are unique", func(t *testing.T) {
		t1, err := krypto.GenerateToken()
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		t2, err := krypto.GenerateToken()
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		if t1 == t2 {
			t.Errorf("expected two generated tokens to differ, both were %v", t1)
		}
	})
}

func Test_Token_ParseToken(t *testing.T) {
	t.Run("ok, round-trip via string", func(t *testing.T) {
		tok, err := krypto.GenerateToken()
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		got, err := krypto.ParseToken(tok.String())
		if err != nil {
			t.Fatalf("failed to parse token: %v", err)
		}

		if got != tok {
			t.Errorf("got %v want %v", got, tok)
		}
	})

	failTests := map[string]string{
		"fail, empty":     "",
		"fail, too short": "0102",
		"fail, non-hex":   "zz02030405060708091011121314151617181920212223242526272829303132",
	}

	for name, raw := range failTests {
		t.Run(name, func(t *testing.T) {
			_, err := krypto.ParseToken(raw)
			if !errors.Is(err, krypto.ErrInvalidToken) {
				t.Fatalf("expected %v, got %v (via errors.Is)", krypto.ErrInvalidToken, err)
			}
		})
	}
}

func Test_Token_HashAndMatch(t *testing.T) {
	tok, err := krypto.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	hash, err := tok.Hash()
	if err != nil {
		t.Fatalf("failed to hash token: %v", err)
	}

	if !tok.Match(hash) {
		t.Errorf("expected token to match its own hash")
	}

	other, err := krypto.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if other.Match(hash) {
		t.Errorf("expected other token to not match hash")
	}
}

func Test_Token_LogValue(t *testing.T) {
	tok, err := krypto.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	got := tok.LogValue().String()
	if got != krypto.SecretMarker {
		t.Errorf("got %q want %q", got, krypto.SecretMarker)
	}
}

func Test_Secret_Redacts(t *testing.T) {
	secret := krypto.NewSecret("super-secret-api-key")

	if got := fmt.Sprintf("%v", secret); got != krypto.SecretMarker {
		t.Errorf("got %q want %q", got, krypto.SecretMarker)
	}

	txt, err := secret.MarshalText()
	if err != nil {
		t.Fatalf("failed to marshal secret: %v", err)
	}

	if string(txt) != krypto.SecretMarker {
		t.Errorf("got %q want %q", txt, krypto.SecretMarker)
	}

	if string(secret.SecretValue()) != "super-secret-api-key" {
		t.Errorf("expected SecretValue to return the raw secret")
	}
}
