package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:                      tt.env,
				DBSSLMode:                tt.sslMode,
				JWTSecret:                "secure-secret-at-least-32-chars-long",
				DBPassword:               "secure-password",
				Port:                     "8080",
				DBConnMaxLifetimeMinutes: 1,
				TracingSampleRatio:       1,
			}

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateProductionSecrets(t *testing.T) {
	base := Config{
		Env:                "production",
		DBSSLMode:          "require",
		JWTSecret:          "secure-secret-at-least-32-chars-long",
		DBPassword:         "secure-password",
		Port:               "8080",
		TracingSampleRatio: 1,
	}

	short := base
	short.JWTSecret = "short"
	assert.Error(t, short.Validate())

	defaulted := base
	defaulted.JWTSecret = defaultJWTSecret
	assert.Error(t, defaulted.Validate())

	weakDB := base
	weakDB.DBPassword = "password"
	assert.Error(t, weakDB.Validate())

	assert.NoError(t, base.Validate())
}

func TestConfig_ValidateRequiredFields(t *testing.T) {
	assert.Error(t, (&Config{JWTSecret: "x"}).Validate())
	assert.Error(t, (&Config{Port: "8080"}).Validate())
	assert.Error(t, (&Config{Port: "8080", JWTSecret: "x", TracingSampleRatio: 2}).Validate())
}

func TestLoadConfig_DefaultsAndNormalization(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("NOTIFY_REPEAT_LIKES", "false")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "8375", c.Port)
	assert.Equal(t, 25, c.DBMaxOpenConns)
	assert.False(t, c.NotifyRepeatLikes)
	assert.False(t, c.IsProduction())
}
