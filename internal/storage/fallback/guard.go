// Package fallback переключает вызовы с долговременного хранилища на in-memory кэш,
// когда хранилище недоступно.
//
// Недоступность определяется двумя способами: по ошибке, помеченной domain.ErrStoreUnavailable,
// и по открытому circuit breaker. Ответы «не найдено» и ошибки валидации от основного
// хранилища возвращаются как есть. Записи, сделанные в кэш, не переносятся обратно.
package fallback

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

const (
	defaultFailureThreshold = 3
	defaultCooldown         = 30 * time.Second
)

// Option настраивает fallback-репозиторий.
type Option func(*settings)

type settings struct {
	failures uint32
	cooldown time.Duration
	metrics  *metrics.StoreMetrics
	logger   *log.Entry
}

// WithBreaker задаёт число подряд идущих сбоев до размыкания и время до пробного запроса.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(s *settings) {
		if failures > 0 {
			s.failures = failures
		}
		if cooldown > 0 {
			s.cooldown = cooldown
		}
	}
}

// WithMetrics подключает метрики переключений.
func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithLogger задаёт базовый логгер.
func WithLogger(logger *log.Entry) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// guard решает, куда направить вызов: в основное хранилище или в кэш.
type guard struct {
	entity  string
	breaker *gobreaker.CircuitBreaker // nil, если основное хранилище недоступно с момента старта
	metrics *metrics.StoreMetrics
	logger  *log.Entry
}

func newGuard(entity string, primaryAvailable bool, opts []Option) *guard {
	s := settings{
		failures: defaultFailureThreshold,
		cooldown: defaultCooldown,
		logger:   log.WithField("component", "storage-fallback"),
	}
	for _, opt := range opts {
		opt(&s)
	}

	g := &guard{
		entity:  entity,
		metrics: s.metrics,
		logger:  s.logger.WithField("entity", entity),
	}
	if !primaryAvailable {
		return g
	}

	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "store-" + entity,
		MaxRequests: 1,
		Timeout:     s.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.failures
		},
		// Бизнес-ошибки (не найдено, конфликт) не должны размыкать цепь.
		IsSuccessful: func(err error) bool {
			return err == nil || !domain.IsStoreUnavailable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("store circuit breaker state changed")
			g.metrics.SetBreakerState(entity, breakerStateValue(to))
		},
	})
	g.metrics.SetBreakerState(entity, breakerStateValue(gobreaker.StateClosed))
	return g
}

// degraded сообщает, обслуживаются ли вызовы сейчас кэшем.
func (g *guard) degraded() bool {
	return g.breaker == nil || g.breaker.State() != gobreaker.StateClosed
}

func (g *guard) state() string {
	if g.breaker == nil {
		return "primary store unavailable since startup"
	}
	return "breaker " + g.breaker.State().String()
}

func (g *guard) recordFallback(operation string, cause error) {
	g.metrics.RecordFallback(g.entity, operation)
	entry := g.logger.WithFields(log.Fields{
		"operation": operation,
		"state":     g.state(),
	})
	if cause != nil {
		entry = entry.WithError(cause)
	}
	entry.Warn("durable store unavailable, serving from in-memory fallback")
}

// shouldFallback отделяет недоступность хранилища от остальных ошибок.
func shouldFallback(err error) bool {
	return domain.IsStoreUnavailable(err) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}

func breakerStateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// none заменяет результат для операций, возвращающих только ошибку.
type none struct{}

func run[T any](ctx context.Context, g *guard, operation string, primary, secondary func(context.Context) (T, error)) (T, error) {
	if g.breaker == nil {
		g.recordFallback(operation, nil)
		return secondary(ctx)
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return primary(ctx)
	})
	if err == nil {
		return result.(T), nil
	}
	if !shouldFallback(err) {
		var zero T
		return zero, err
	}

	g.recordFallback(operation, err)
	return secondary(ctx)
}

func runErr(ctx context.Context, g *guard, operation string, primary, secondary func(context.Context) error) error {
	_, err := run(ctx, g, operation,
		func(ctx context.Context) (none, error) { return none{}, primary(ctx) },
		func(ctx context.Context) (none, error) { return none{}, secondary(ctx) },
	)
	return err
}
