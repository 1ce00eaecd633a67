package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "GHS", cfg.App.Currency)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "storefront", cfg.Database.DBName)
		assert.Equal(t, 30*time.Minute, cfg.Checkout.TTL)
		assert.Equal(t, 5, cfg.Checkout.LowStockThreshold)
		assert.Equal(t, 15*time.Minute, cfg.Checkout.PurgeInterval)
		assert.Equal(t, "https://api.paystack.co", cfg.Paystack.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Paystack.Timeout)
		assert.Equal(t, "http://localhost:8080/api/v1/payments/callback", cfg.Paystack.CallbackURL)
		assert.Equal(t, "X-Session-ID", cfg.Session.Header)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, 5, cfg.Database.ConnectAttempts)
		assert.Equal(t, []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}, cfg.HTTP.CORSAllowMethods)
	})

	t.Run("loads values from environment variables with STORE prefix", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("STORE_APP_NAME", "test-store")
		t.Setenv("STORE_APP_PORT", "9000")
		t.Setenv("STORE_DATABASE_HOST", "testdb.local")
		t.Setenv("STORE_DATABASE_PORT", "5433")
		t.Setenv("STORE_PAYSTACK_SECRET_KEY", "sk_test_123")
		t.Setenv("STORE_CHECKOUT_TTL", "45m")
		t.Setenv("STORE_REDIS_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-store", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "sk_test_123", cfg.Paystack.SecretKey)
		assert.Equal(t, 45*time.Minute, cfg.Checkout.TTL)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "test-store", cfg.Telemetry.ServiceName)
	})

	t.Run("reads config.toml below environment", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		toml := `
[app]
site_url = "https://mbvogue.test"

[database]
conn_max_lifetime = "10m"

[http]
cors_allow_origins = ["https://mbvogue.test"]

[checkout]
ttl = "20m"
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))
		t.Setenv("STORE_CHECKOUT_TTL", "40m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, []string{"https://mbvogue.test"}, cfg.HTTP.CORSAllowOrigins)
		assert.Equal(t, 40*time.Minute, cfg.Checkout.TTL)
		assert.Equal(t, "https://mbvogue.test/api/v1/payments/callback", cfg.Paystack.CallbackURL)
	})

	t.Run("rejects weak production settings", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("STORE_APP_ENV", "production")
		t.Setenv("STORE_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
		assert.Contains(t, err.Error(), "paystack.secret_key")
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := decode(newViper())
		require.NoError(t, err)
		return cfg
	}

	t.Run("idle conns above open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns + 1
		assert.Error(t, cfg.validate())
	})

	t.Run("mail enabled without host", func(t *testing.T) {
		cfg := base()
		cfg.Mail.Enabled = true
		assert.ErrorContains(t, cfg.validate(), "mail.host")
	})

	t.Run("storage enabled without bucket", func(t *testing.T) {
		cfg := base()
		cfg.Storage.Enabled = true
		assert.ErrorContains(t, cfg.validate(), "storage.bucket")
	})

	t.Run("production requires secure sessions", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "pw"
		cfg.Database.SSLMode = "require"
		cfg.Paystack.SecretKey = "sk_live"
		assert.ErrorContains(t, cfg.validate(), "session.secure")
		cfg.Session.Secure = true
		assert.NoError(t, cfg.validate())
	})

	t.Run("sampling ratio out of range", func(t *testing.T) {
		cfg := base()
		cfg.Telemetry.SamplingRatio = 1.5
		assert.Error(t, cfg.validate())
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss word", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%20word@db:5432/shop?sslmode=disable", d.DSN())
}
