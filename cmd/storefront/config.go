package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vladislavdragonenkov/storefront/internal/app"
)

const (
	envPort                = "PORT"
	envHTTPAddr            = "STOREFRONT_HTTP_ADDR"
	envMetricsAddr         = "STOREFRONT_METRICS_ADDR"
	envStorageDriver       = "STOREFRONT_STORAGE_DRIVER"
	envMongoURI            = "MONGODB_URI"
	envMongoDatabase       = "STOREFRONT_MONGO_DATABASE"
	envPostgresDSN         = "STOREFRONT_POSTGRES_DSN"
	envPostgresAutoMigrate = "STOREFRONT_POSTGRES_AUTO_MIGRATE"
	envStoreTimeout        = "STOREFRONT_STORE_TIMEOUT"
	envBreakerFailures     = "STOREFRONT_BREAKER_FAILURES"
	envBreakerCooldown     = "STOREFRONT_BREAKER_COOLDOWN"
	envBodyLimit           = "STOREFRONT_BODY_LIMIT_BYTES"
	envKafkaBrokers        = "KAFKA_BROKERS"
	envLogLevel            = "STOREFRONT_LOG_LEVEL"
	envLogFormat           = "STOREFRONT_LOG_FORMAT"
	envGinMode             = "GIN_MODE"
)

// envLookup возвращает значение ключа и признак того, что он задан.
type envLookup func(key string) (string, bool)

// newLookup собирает источник настроек: .env (если есть), окружение и необязательный файл конфигурации.
// Переменные окружения важнее файла.
func newLookup(configPath string) (envLookup, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	return func(key string) (string, bool) {
		if !v.IsSet(key) {
			return "", false
		}
		return v.GetString(key), true
	}, nil
}

// readConfigFromEnv формирует конфигурацию приложения. Некорректное значение
// не останавливает запуск: остаётся значение по умолчанию и возвращается предупреждение.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string
	warn := func(key, raw string, err error) {
		warnings = append(warnings, fmt.Sprintf("invalid %s=%q: %v, using default", key, raw, err))
	}

	if raw, ok := lookupTrimmed(lookup, envPort); ok {
		port, err := parseInt(raw, func(v int) bool { return v > 0 && v <= 65535 }, "must be a TCP port")
		if err != nil {
			warn(envPort, raw, err)
		} else {
			cfg.HTTPAddr = ":" + strconv.Itoa(port)
		}
	}
	if raw, ok := lookupTrimmed(lookup, envHTTPAddr); ok {
		cfg.HTTPAddr = raw
	}
	if raw, ok := lookupTrimmed(lookup, envMetricsAddr); ok {
		cfg.MetricsAddr = raw
	}

	if raw, ok := lookupTrimmed(lookup, envStorageDriver); ok {
		driver, err := app.ParseStorageDriver(raw)
		if err != nil {
			warn(envStorageDriver, raw, err)
		} else {
			cfg.StorageDriver = driver
		}
	}
	if raw, ok := lookupTrimmed(lookup, envMongoURI); ok {
		cfg.MongoURI = raw
	}
	if raw, ok := lookupTrimmed(lookup, envMongoDatabase); ok {
		cfg.MongoDatabase = raw
	}
	if raw, ok := lookupTrimmed(lookup, envPostgresDSN); ok {
		cfg.PostgresDSN = raw
	}
	if raw, ok := lookupTrimmed(lookup, envPostgresAutoMigrate); ok {
		value, err := parseBool(raw)
		if err != nil {
			warn(envPostgresAutoMigrate, raw, err)
		} else {
			cfg.PostgresAutoMigrate = value
		}
	}

	positive := func(v time.Duration) bool { return v > 0 }
	if raw, ok := lookupTrimmed(lookup, envStoreTimeout); ok {
		value, err := parseDuration(raw, positive, "must be > 0")
		if err != nil {
			warn(envStoreTimeout, raw, err)
		} else {
			cfg.StoreTimeout = value
		}
	}
	if raw, ok := lookupTrimmed(lookup, envBreakerFailures); ok {
		value, err := parseUint32(raw, func(v uint32) bool { return v > 0 }, "must be > 0")
		if err != nil {
			warn(envBreakerFailures, raw, err)
		} else {
			cfg.BreakerFailures = value
		}
	}
	if raw, ok := lookupTrimmed(lookup, envBreakerCooldown); ok {
		value, err := parseDuration(raw, positive, "must be > 0")
		if err != nil {
			warn(envBreakerCooldown, raw, err)
		} else {
			cfg.BreakerCooldown = value
		}
	}
	if raw, ok := lookupTrimmed(lookup, envBodyLimit); ok {
		value, err := parseInt64(raw, func(v int64) bool { return v > 0 }, "must be > 0")
		if err != nil {
			warn(envBodyLimit, raw, err)
		} else {
			cfg.BodyLimit = value
		}
	}
	if raw, ok := lookupTrimmed(lookup, envKafkaBrokers); ok {
		cfg.KafkaBrokers = raw
	}

	return cfg, warnings
}

func lookupTrimmed(lookup envLookup, key string) (string, bool) {
	raw, ok := lookup(key)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on", "y":
		return true, nil
	case "0", "false", "no", "off", "n":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", raw)
	}
}

func parseInt(raw string, valid func(int) bool, rule string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !valid(value) {
		return 0, errors.New(rule)
	}
	return value, nil
}

// parseUint32 отклоняет значения вне диапазона uint32, а не обрезает их.
func parseUint32(raw string, valid func(uint32) bool, rule string) (uint32, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, err
	}
	value := uint32(parsed)
	if !valid(value) {
		return 0, errors.New(rule)
	}
	return value, nil
}

func parseInt64(raw string, valid func(int64) bool, rule string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if !valid(value) {
		return 0, errors.New(rule)
	}
	return value, nil
}

func parseDuration(raw string, valid func(time.Duration) bool, rule string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !valid(value) {
		return 0, errors.New(rule)
	}
	return value, nil
}
