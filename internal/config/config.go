package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const ServiceName = "coffee-pos"

type Config struct {
	HTTPAddr string
	MySQLDSN string

	// RedisAddr enables the order idempotency guard when set.
	RedisAddr string

	// ConsulAddr enables service registration when set.
	ConsulAddr  string
	ServicePort int

	MaxOpenConns int
	MaxIdleConns int
}

func Load() (*Config, error) {
	// .env is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:   getEnv("HTTP_ADDR", ":8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/coffee?parseTime=true"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		ConsulAddr: os.Getenv("CONSUL_ADDR"),
	}

	var err error
	if cfg.ServicePort, err = getEnvInt("SERVICE_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns, err = getEnvInt("MYSQL_MAX_OPEN_CONNS", 50); err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns, err = getEnvInt("MYSQL_MAX_IDLE_CONNS", 25); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
