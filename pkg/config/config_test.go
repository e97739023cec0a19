package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Redis.ProfileTTL)
	assert.Equal(t, "postgres://postgres:@localhost:5432/capacita?sslmode=disable", cfg.DB.ConnectionString())
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 30, cfg.HTTP.CouponRatePerMinute)
	require.NotNil(t, cfg.App.Location)
	assert.Equal(t, "America/Sao_Paulo", cfg.App.Location.String())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("HTTP_PORT", "9090")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("CERT_VERIFY_URL", "https://capacita.example/verificar/")
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")
	v.Set("DB_AUTO_MIGRATE", "false")
	v.Set("APP_TIMEZONE", "America/Manaus")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "https://capacita.example/verificar", cfg.Certificate.VerifyBaseURL)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "America/Manaus", cfg.App.Location.String())
}

func TestFromViper_ZonaInvalida(t *testing.T) {
	v := viper.New()
	v.Set("APP_TIMEZONE", "Marte/Olympus")
	_, err := fromViper(v)
	assert.ErrorContains(t, err, "APP_TIMEZONE")
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProductionSinSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "h", Port: 5432, User: "u", Password: "p@ss/word", DBName: "d", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@h:5432/d?sslmode=require", c.DSN())
}
