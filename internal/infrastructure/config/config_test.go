package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storefront-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Checkout.ShippingFee.Equal(decimal.NewFromInt(30000)))
	assert.True(t, cfg.Checkout.FreeShippingThreshold.Equal(decimal.NewFromInt(500000)))
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_APP_PORT", "9090")
	t.Setenv("STOREFRONT_DATABASE_PASSWORD", "s3cret")
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")
	t.Setenv("STOREFRONT_CHECKOUT_SHIPPING_FEE", "15000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Checkout.ShippingFee.Equal(decimal.NewFromInt(15000)))
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("STOREFRONT_APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")

	t.Setenv("STOREFRONT_JWT_SECRET", "a-real-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RejectsNegativeCheckoutSettings(t *testing.T) {
	t.Setenv("STOREFRONT_CHECKOUT_SHIPPING_FEE", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shipping_fee")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "pw",
		DBName:   "storefront",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=app password=pw dbname=storefront sslmode=require",
		c.DSN())
}
