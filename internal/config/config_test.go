package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadGatewayConfig_Defaults(t *testing.T) {
	cfg, err := LoadGatewayConfig()
	require.NoError(t, err)
	require.Equal(t, "localhost", cfg.DB.Host)
	require.Equal(t, "5432", cfg.DB.Port)
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.Equal(t, "localhost:50051", cfg.LedgerTarget)
	require.Equal(t, "localhost:50052", cfg.NotifyTarget)
	require.Equal(t, "0.0.0.0", cfg.APIHost)
	require.Equal(t, "8000", cfg.APIPort)
}

func TestLoadGatewayConfig_EnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("REDIS_URL", "redis://cache:6380/1")
	t.Setenv("LEDGER_GRPC_TARGET", "ledger.internal:9000")
	t.Setenv("API_PORT", "9090")

	cfg, err := LoadGatewayConfig()
	require.NoError(t, err)
	require.Equal(t, "db.internal", cfg.DB.Host)
	require.Equal(t, "redis://cache:6380/1", cfg.RedisURL)
	require.Equal(t, "ledger.internal:9000", cfg.LedgerTarget)
	require.Equal(t, "9090", cfg.APIPort)
}

func TestLoadLedgerConfig_Defaults(t *testing.T) {
	cfg, err := LoadLedgerConfig()
	require.NoError(t, err)
	require.Equal(t, "50051", cfg.GRPCPort)
	require.Equal(t, "easpayments", cfg.DB.Database)
}

func TestLoadNotifyConfig_Defaults(t *testing.T) {
	cfg, err := LoadNotifyConfig()
	require.NoError(t, err)
	require.Equal(t, "50052", cfg.GRPCPort)
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "h", Port: "p", Database: "d", User: "u", Password: "pw"}
	require.Equal(t, "postgres://u:pw@h:p/d?sslmode=disable", c.DSN())
}
