package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/mdewinter/gatehouse/internal/auth"
	"github.com/mdewinter/gatehouse/internal/krypto"
)

// mailAPIConfig configures the optional JSON mail API sender. If no URL
// is provided activation emails are logged instead of delivered.
type mailAPIConfig struct {
	apiURL      *url.URL
	serverToken krypto.Secret
	tokenHeader string
}

// config is the configuration for the console command.
type config struct {
	dbFile string
	mail   mailAPIConfig
	auth   auth.Settings
}

// defaultConfig returns a config with sane default values.
func defaultConfig() config {
	return config{
		dbFile: "gatehouse.db",
		mail: mailAPIConfig{
			tokenHeader: "X-Postmark-Server-Token",
		},
		auth: auth.DefaultSettings(),
	}
}

// envMap maps environment variable names to fields in the config struct.
var envMap = map[string]func(v string, c *config) error{
	"DB_FILE": func(v string, c *config) error {
		c.dbFile = v
		return nil
	},
	"MAIL_API_URL": func(v string, c *config) error {
		u, err := url.Parse(v)
		if err != nil {
			return err
		}
		c.mail.apiURL = u
		return nil
	},
	"MAIL_API_TOKEN": func(v string, c *config) error {
		c.mail.serverToken = krypto.NewSecret(v)
		return nil
	},
	"MAIL_API_TOKEN_HEADER": func(v string, c *config) error {
		c.mail.tokenHeader = v
		return nil
	},
}

// configFromEnv returns a config with values from the environment. It falls
// back to default values for any missing environment variables.
//
// It does a best effort to validate provided values, so that mistakes are
// caught ASAP. However, there is no guarantee that the returned config
// is valid and will work.
func configFromEnv() (config, error) {
	c := defaultConfig()

	for key, mf := range envMap {
		if val, ok := os.LookupEnv(key); ok {
			if err := mf(val, &c); err != nil {
				return c, fmt.Errorf("invalid env variable %s: %w", key, err)
			}
		}
	}

	// The policy options keep their historical lowercase names, in the
	// environment they are looked up as uppercase variables.
	settings, err := auth.LoadSettings(func(name string) (string, bool) {
		return os.LookupEnv(strings.ToUpper(name))
	})
	if err != nil {
		return c, err
	}
	c.auth = settings

	if c.mail.apiURL != nil && len(c.mail.serverToken.SecretValue()) == 0 {
		return c, fmt.Errorf("MAIL_API_URL is set but MAIL_API_TOKEN is missing")
	}

	return c, nil
}
