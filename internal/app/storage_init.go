package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/storage/fallback"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	mongostore "github.com/vladislavdragonenkov/storefront/internal/storage/mongo"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// StorageDriver выбирает долговременное хранилище.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverMongo    StorageDriver = "mongo"
	StorageDriverPostgres StorageDriver = "postgres"
)

// ParseStorageDriver разбирает имя драйвера. Пустая строка допустима и означает автоопределение.
func ParseStorageDriver(raw string) (StorageDriver, error) {
	switch driver := StorageDriver(strings.ToLower(strings.TrimSpace(raw))); driver {
	case "", StorageDriverMemory, StorageDriverMongo, StorageDriverPostgres:
		return driver, nil
	case "mongodb":
		return StorageDriverMongo, nil
	default:
		return "", fmt.Errorf("unsupported storage driver: %q", raw)
	}
}

// resolveStorageDriver: явный драйвер важнее, иначе MONGODB_URI, затем DSN PostgreSQL, затем память.
func resolveStorageDriver(cfg Config) (StorageDriver, error) {
	driver, err := ParseStorageDriver(string(cfg.StorageDriver))
	if err != nil {
		return "", err
	}
	if driver != "" {
		return driver, nil
	}
	switch {
	case strings.TrimSpace(cfg.MongoURI) != "":
		return StorageDriverMongo, nil
	case strings.TrimSpace(cfg.PostgresDSN) != "":
		return StorageDriverPostgres, nil
	default:
		return StorageDriverMemory, nil
	}
}

type runtimeDependencies struct {
	driver         StorageDriver
	products       domain.ProductRepository
	orders         domain.OrderRepository
	storeMetrics   *metrics.StoreMetrics
	storageChecker healthcheck.Checker
	closeFn        func() error
}

func (d *runtimeDependencies) close(logger *log.Entry) {
	if d == nil || d.closeFn == nil {
		return
	}
	if err := d.closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close storage")
		return
	}
	logger.Info("storage closed")
}

// durableStore описывает поднятое при старте основное хранилище.
type durableStore struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	ping     func(ctx context.Context) error
	closeFn  func() error
}

// initRuntimeDependencies выбирает хранилище и оборачивает его fallback-кэшем.
// Недоступность хранилища при старте не ошибка: сервис стартует на кэше.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	driver, err := resolveStorageDriver(cfg)
	if err != nil {
		return nil, err
	}

	storeMetrics := metrics.NewStoreMetrics()
	storageLogger := logger.WithField("driver", string(driver))

	if driver == StorageDriverMemory {
		storageLogger.Warn("durable store is not configured, data lives only in process memory")
		return &runtimeDependencies{
			driver:       driver,
			products:     memory.NewProductRepository(),
			orders:       memory.NewOrderRepository(),
			storeMetrics: storeMetrics,
			storageChecker: healthcheck.NewStatusChecker("storage", func() (healthcheck.Status, string) {
				return healthcheck.StatusDegraded, "in-memory storage, data is not durable"
			}),
		}, nil
	}

	store, err := openDurableStore(ctx, driver, cfg, storageLogger)
	if err != nil && !domain.IsStoreUnavailable(err) {
		return nil, err
	}
	if err != nil {
		storageLogger.WithError(err).Warn("durable store unavailable at startup, serving from in-memory fallback")
		store = durableStore{}
	}

	opts := []fallback.Option{
		fallback.WithBreaker(cfg.BreakerFailures, cfg.BreakerCooldown),
		fallback.WithMetrics(storeMetrics),
		fallback.WithLogger(logger.WithField("component", "storage-fallback")),
	}
	products := fallback.NewProductRepository(store.products, memory.NewProductRepository(), opts...)
	orders := fallback.NewOrderRepository(store.orders, memory.NewOrderRepository(), opts...)

	return &runtimeDependencies{
		driver:         driver,
		products:       products,
		orders:         orders,
		storeMetrics:   storeMetrics,
		storageChecker: newStorageChecker(store.ping, products, orders),
		closeFn:        store.closeFn,
	}, nil
}

// openDurableStore подключается к выбранному драйверу. При недоступности сервера
// ошибка помечена domain.ErrStoreUnavailable.
func openDurableStore(ctx context.Context, driver StorageDriver, cfg Config, logger *log.Entry) (durableStore, error) {
	timeout := cfg.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().StoreTimeout
	}
	openCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch driver {
	case StorageDriverMongo:
		if strings.TrimSpace(cfg.MongoURI) == "" {
			return durableStore{}, errors.New("mongo storage driver requires MONGODB_URI")
		}
		store, err := mongostore.Open(openCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return durableStore{}, err
		}
		if err := store.EnsureIndexes(openCtx); err != nil {
			logger.WithError(err).Warn("failed to ensure mongo indexes")
		}
		logger.WithField("database", cfg.MongoDatabase).Info("mongo storage initialized")
		return durableStore{
			products: mongostore.NewProductRepository(store),
			orders:   mongostore.NewOrderRepository(store),
			closeFn: func() error {
				closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return store.Close(closeCtx)
			},
		}, nil

	case StorageDriverPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return durableStore{}, errors.New("postgres storage driver requires STOREFRONT_POSTGRES_DSN")
		}
		store, err := postgres.Open(openCtx, cfg.PostgresDSN)
		if err != nil {
			return durableStore{}, err
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return durableStore{}, fmt.Errorf("apply postgres migrations: %w", err)
			}
		}
		logger.Info("postgres storage initialized")
		return durableStore{
			products: postgres.NewProductRepository(store),
			orders:   postgres.NewOrderRepository(store),
			closeFn:  store.Close,
		}, nil

	default:
		return durableStore{}, fmt.Errorf("unsupported storage driver: %q", driver)
	}
}

const storagePingTimeout = 2 * time.Second

type degradable interface {
	Degraded() bool
	State() string
}

// storageChecker отдаёт healthy, только если хранилище отвечает на ping.
// Работа на кэше и молчащее хранилище дают degraded: готовность сохраняется, сервис продолжает отвечать.
type storageChecker struct {
	repos []degradable
	ping  *healthcheck.SimpleChecker
}

func newStorageChecker(ping func(ctx context.Context) error, repos ...degradable) healthcheck.Checker {
	c := &storageChecker{repos: repos}
	if ping != nil {
		c.ping = healthcheck.NewSimpleChecker("storage", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), storagePingTimeout)
			defer cancel()
			return ping(ctx)
		}).WithFailureStatus(healthcheck.StatusDegraded)
	}
	return c
}

func (c *storageChecker) Check() healthcheck.Check {
	for _, repo := range c.repos {
		if repo.Degraded() {
			return healthcheck.Check{
				Name:    "storage",
				Status:  healthcheck.StatusDegraded,
				Message: "serving from in-memory fallback: " + repo.State(),
			}
		}
	}
	if c.ping == nil {
		return healthcheck.Check{
			Name:    "storage",
			Status:  healthcheck.StatusDegraded,
			Message: "durable store is not connected",
		}
	}
	return c.ping.Check()
}
