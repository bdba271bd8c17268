package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/app"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(level, format string) error {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if strings.TrimSpace(level) == "" {
		log.SetLevel(log.InfoLevel)
		return nil
	}
	parsed, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		log.SetLevel(log.InfoLevel)
		return err
	}
	log.SetLevel(parsed)
	return nil
}

// ginMode выбирает режим gin: явный GIN_MODE важнее, иначе debug только при подробных логах.
func ginMode(explicit, level string) string {
	switch mode := strings.ToLower(strings.TrimSpace(explicit)); mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return mode
	}
	parsed, err := log.ParseLevel(strings.TrimSpace(level))
	if err == nil && parsed >= log.DebugLevel {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

func main() {
	configPath := flag.String("config", "", "optional config file (yaml, json, toml, env)")
	flag.Parse()

	lookup, err := newLookup(*configPath)
	if err != nil {
		log.WithError(err).Fatal("не удалось прочитать конфигурацию")
	}

	level, _ := lookup(envLogLevel)
	format, _ := lookup(envLogFormat)
	if err := setupLogger(level, format); err != nil {
		log.WithError(err).Warn("unknown log level, using info")
	}
	explicitGinMode, _ := lookup(envGinMode)
	gin.SetMode(ginMode(explicitGinMode, level))

	cfg, warnings := readConfigFromEnv(lookup)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":      cfg.HTTPAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
		"version":        version.GetVersion(),
		"commit":         version.GetCommit(),
	}).Info("запускаем storefront")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("storefront остановлен")
}
