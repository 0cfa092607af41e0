package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  dsn: postgres://localhost:5432/clinicia
identity:
  jwks_url: https://idp.example.com/jwks
`)

	c, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "dev", c.App.Env)
	require.Equal(t, "info", c.App.LogLevel)
	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, "memory", c.Cache.Kind)
	require.Equal(t, "__session", c.Auth.Session.CookieName)
	require.Equal(t, "lax", c.Auth.Session.SameSite)
	require.Equal(t, "1h", c.Auth.Session.TTL)
	require.Equal(t, "/login", c.Auth.LoginPath)
	require.Equal(t, "/dashboard", c.Auth.HomePath)
	require.Equal(t, 10, c.Rate.Login.Limit)
	require.Equal(t, "15m", c.Rate.Login.Window)
}

// Con solo variables de entorno alcanza, sin archivo.
func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/clinicia")
	t.Setenv("IDENTITY_JWKS_URL", "https://idp.example.com/jwks")
	t.Setenv("APP_ENV", "staging")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "staging", c.App.Env)
	require.Equal(t, "postgres://db:5432/clinicia", c.Storage.DSN)
	require.True(t, c.Auth.Session.Secure)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
app:
  app_env: dev
server:
  addr: ":9000"
storage:
  dsn: postgres://file:5432/clinicia
identity:
  jwks_url: https://idp.example.com/jwks
`)
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("DATABASE_URL", "postgres://env:5432/clinicia")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", c.Server.Addr)
	require.Equal(t, "postgres://env:5432/clinicia", c.Storage.DSN)
}

func TestValidate_Failures(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.Storage.DSN = "postgres://localhost/clinicia"
		c.Identity.JWKSURL = "https://idp.example.com/jwks"
		c.applyDefaults()
		return c
	}

	t.Run("missing dsn", func(t *testing.T) {
		c := base()
		c.Storage.DSN = ""
		require.Error(t, c.Validate())
	})

	t.Run("missing jwks url", func(t *testing.T) {
		c := base()
		c.Identity.JWKSURL = ""
		require.Error(t, c.Validate())
	})

	t.Run("prod needs portal secret", func(t *testing.T) {
		c := base()
		c.App.Env = "prod"
		c.Portal.TokenSecret = ""
		require.Error(t, c.Validate())

		c.Portal.TokenSecret = "s3cret"
		require.NoError(t, c.Validate())
	})

	t.Run("redis without addr", func(t *testing.T) {
		c := base()
		c.Cache.Kind = "redis"
		require.Error(t, c.Validate())

		c.Cache.Redis.Addr = "localhost:6379"
		require.NoError(t, c.Validate())
	})

	t.Run("bad duration", func(t *testing.T) {
		c := base()
		c.Auth.Session.TTL = "one hour"
		require.Error(t, c.Validate())
	})
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a: map")
	_, err := Load(path)
	require.Error(t, err)
}

func TestDur(t *testing.T) {
	require.Equal(t, 90*time.Second, Dur("90s"))
}
