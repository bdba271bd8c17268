package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/httpapi"
	"github.com/vladislavdragonenkov/storefront/internal/service/ordering"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Config описывает настройки запуска витрины.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	// StorageDriver пустой означает автоопределение по MongoURI/PostgresDSN.
	StorageDriver       StorageDriver
	MongoURI            string
	MongoDatabase       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	StoreTimeout    time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration

	BodyLimit    int64
	KafkaBrokers string
}

// DefaultConfig возвращает базовые адреса и лимиты.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":10000",
		MetricsAddr:         ":9090",
		MongoDatabase:       "val10",
		PostgresAutoMigrate: true,
		StoreTimeout:        5 * time.Second,
		BreakerFailures:     3,
		BreakerCooldown:     30 * time.Second,
		BodyLimit:           httpapi.DefaultBodyLimit,
	}
}

// Run поднимает HTTP API и сервер метрик и блокируется до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close(logger)

	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	storeMetrics := deps.storeMetrics
	serviceLogger := logger.WithField("layer", "service")
	catalogOpts := []catalog.Option{catalog.WithMetrics(storeMetrics), catalog.WithLogger(serviceLogger)}
	orderOpts := []ordering.Option{ordering.WithMetrics(storeMetrics), ordering.WithLogger(serviceLogger)}
	if kafkaProducer != nil {
		catalogOpts = append(catalogOpts, catalog.WithPublisher(kafkaProducer))
		orderOpts = append(orderOpts, ordering.WithPublisher(kafkaProducer))
	}

	handler := httpapi.NewHandler(
		catalog.NewService(deps.products, catalogOpts...),
		ordering.NewService(deps.orders, orderOpts...),
		logger.WithField("layer", "http"),
	)
	router := httpapi.NewRouter(handler,
		httpapi.WithBodyLimit(cfg.BodyLimit),
		httpapi.WithMetrics(metrics.NewHTTPMetrics()),
		httpapi.WithLogger(logger.WithField("layer", "http")),
	)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", deps.storageChecker)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	lis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		shutdownHTTP(metricsSrv, logger)
		return fmt.Errorf("listen %s: %w", cfg.HTTPAddr, err)
	}

	apiSrv := &http.Server{Handler: router, ReadHeaderTimeout: readHeaderTimeout}
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("driver", deps.driver).Infof("HTTP API слушает %s", lis.Addr())
		errCh <- apiSrv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus и health checks.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
