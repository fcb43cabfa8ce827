package config_test

import (
	"testing"
	"time"

	"pethaul/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8002", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, "pethaul", cfg.TokenIssuer)
	assert.False(t, cfg.IsProduction())
	assert.NotEmpty(t, cfg.JWTSecret, "development falls back to a local secret")
}

func TestFromViper_ProductionRequiresSecret(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]interface{}{"APP_ENV": "production"}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg, err := config.FromViper(newViper(map[string]interface{}{"APP_ENV": "production", "JWT_SECRET": "s3cret"}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestFromViper_RejectsUnknownValues(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]interface{}{"DB_DRIVER": "oracle"}))
	assert.Error(t, err)

	_, err = config.FromViper(newViper(map[string]interface{}{"APP_ENV": "staging"}))
	assert.Error(t, err)

	_, err = config.FromViper(newViper(map[string]interface{}{"JWT_TTL": "-1h"}))
	assert.Error(t, err)
}

func TestFromViper_ParsesDurations(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]interface{}{"REPORT_CACHE_TTL": "30s", "CLIENT_TOKEN_TTL": "48h"}))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ReportCacheTTL)
	assert.Equal(t, 48*time.Hour, cfg.ClientTokenTTL)
}
