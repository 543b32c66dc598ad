// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret-access-secret-access-secret"
	testRefreshSecret = "refresh-secret-refresh-secret-refresh-secret"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Database: DatabaseConfig{URL: "postgres://localhost/tournament"},
		Redis:    RedisConfig{URL: "redis://localhost:6379/0"},
		JWT: JWTConfig{
			AccessTokenSecret:  testAccessSecret,
			RefreshTokenSecret: testRefreshSecret,
			AccessTokenExpire:  15 * time.Minute,
			RefreshTokenExpire: 168 * time.Hour,
		},
		Auth: AuthConfig{MinPasswordLength: 8},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validate(validConfig()))
	})

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{
			name:   "missing database url",
			mutate: func(c *Config) { c.Database.URL = "" },
			want:   "DATABASE_URL",
		},
		{
			name:   "missing refresh secret",
			mutate: func(c *Config) { c.JWT.RefreshTokenSecret = "" },
			want:   "REFRESH_TOKEN_SECRET",
		},
		{
			name:   "short secret",
			mutate: func(c *Config) { c.JWT.AccessTokenSecret = "short" },
			want:   "at least",
		},
		{
			name: "identical secrets",
			mutate: func(c *Config) {
				c.JWT.RefreshTokenSecret = c.JWT.AccessTokenSecret
			},
			want: "must differ",
		},
		{
			name:   "zero password length",
			mutate: func(c *Config) { c.Auth.MinPasswordLength = 0 },
			want:   "min_password_length",
		},
		{
			name: "wildcard origin with credentials",
			mutate: func(c *Config) {
				c.CORS.AllowCredentials = true
				c.CORS.AllowedOrigins = []string{"*"}
			},
			want: "wildcard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yamlBody := `
server:
  port: 4000
database:
  url: postgres://file/tournament
redis:
  url: redis://file:6379/0
jwt:
  access_token_secret: ` + testAccessSecret + `
  refresh_token_secret: ` + testRefreshSecret + `
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))

	t.Setenv("PORT", "5000")
	t.Setenv("DATABASE_URL", "postgres://env/tournament")
	t.Setenv("DATABASE_MIGRATE", "false")

	c, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, c.Server.Port)
	assert.Equal(t, "postgres://env/tournament", c.Database.URL)
	assert.Equal(t, "redis://file:6379/0", c.Redis.URL)
	assert.False(t, c.Database.MigrateOnStart)
	assert.Equal(t, 15*time.Minute, c.JWT.AccessTokenExpire)
	assert.Equal(t, 8, c.Auth.MinPasswordLength)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := validConfig()
	c.Database.URL = ""
	c.Redis.URL = ""
	c.JWT.AccessTokenExpire = 0

	err := validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "REDIS_URL")
	assert.Contains(t, err.Error(), "lifetimes")
}
