package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ORDER_PLACEMENT_MODE", "")
	t.Setenv("NUMERIC_COERCION", "")
	t.Setenv("AUDIT_FLUSH_INTERVAL", "")
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg := Load()
	assert.Equal(t, OrderModeAtomic, cfg.OrderPlacementMode)
	assert.Equal(t, CoercionStrict, cfg.NumericCoercion)
	assert.Equal(t, 2*time.Second, cfg.AuditFlushInterval)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ORDER_PLACEMENT_MODE", OrderModeLegacy)
	t.Setenv("NUMERIC_COERCION", CoercionLegacy)
	t.Setenv("AUDIT_BUFFER_SIZE", "7")
	t.Setenv("JWT_EXPIRY", "90m")
	t.Setenv("OTEL_TRACES_STDOUT", "true")

	cfg := Load()
	assert.Equal(t, OrderModeLegacy, cfg.OrderPlacementMode)
	assert.Equal(t, CoercionLegacy, cfg.NumericCoercion)
	assert.Equal(t, 7, cfg.AuditBufferSize)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiry)
	assert.True(t, cfg.TracesStdout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWTSecret:          "s",
			DBPassword:         "p",
			OrderPlacementMode: OrderModeAtomic,
			NumericCoercion:    CoercionStrict,
		}
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"missing jwt secret":  func(c *Config) { c.JWTSecret = "" },
		"missing db password": func(c *Config) { c.DBPassword = "" },
		"unknown order mode":  func(c *Config) { c.OrderPlacementMode = "eventual" },
		"unknown coercion":    func(c *Config) { c.NumericCoercion = "loose" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseDuration("3s", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 12, parseInt("12", 1))
	assert.Equal(t, 1, parseInt("0", 1))
	assert.Equal(t, 1, parseInt("x", 1))
}

func TestDSN(t *testing.T) {
	c := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "shop", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=shop port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
