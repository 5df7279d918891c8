// Package config loads the environment variables each of the three
// processes needs, defaulting anything left unset.
package config

import (
	"fmt"
	"os"
)

// DBConfig holds the discrete Postgres connection parameters
// (host/port/db/user/password), rather than one opaque DSN string.
type DBConfig struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// DSN renders the libpq connection string pgxpool.New expects.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

func loadDB() DBConfig {
	return DBConfig{
		Host:     envOr("POSTGRES_HOST", "localhost"),
		Port:     envOr("POSTGRES_PORT", "5432"),
		Database: envOr("POSTGRES_DB", "easpayments"),
		User:     envOr("POSTGRES_USER", "easuser"),
		Password: envOr("POSTGRES_PASSWORD", "easpass"),
	}
}

// GatewayConfig configures cmd/gateway.
type GatewayConfig struct {
	DB           DBConfig
	RedisURL     string
	LedgerTarget string
	NotifyTarget string
	APIHost      string
	APIPort      string
}

// LoadGatewayConfig reads the gateway's environment.
func LoadGatewayConfig() (*GatewayConfig, error) {
	return &GatewayConfig{
		DB:           loadDB(),
		RedisURL:     envOr("REDIS_URL", "redis://localhost:6379/0"),
		LedgerTarget: envOr("LEDGER_GRPC_TARGET", "localhost:50051"),
		NotifyTarget: envOr("NOTIFY_GRPC_TARGET", "localhost:50052"),
		APIHost:      envOr("API_HOST", "0.0.0.0"),
		APIPort:      envOr("API_PORT", "8000"),
	}, nil
}

// LedgerConfig configures cmd/ledger.
type LedgerConfig struct {
	DB       DBConfig
	GRPCPort string
}

// LoadLedgerConfig reads the ledger service's environment.
func LoadLedgerConfig() (*LedgerConfig, error) {
	return &LedgerConfig{
		DB:       loadDB(),
		GRPCPort: envOr("LEDGER_GRPC_PORT", "50051"),
	}, nil
}

// NotifyConfig configures cmd/notifications.
type NotifyConfig struct {
	GRPCPort string
}

// LoadNotifyConfig reads the notifications service's environment.
func LoadNotifyConfig() (*NotifyConfig, error) {
	return &NotifyConfig{
		GRPCPort: envOr("NOTIFY_GRPC_PORT", "50052"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
