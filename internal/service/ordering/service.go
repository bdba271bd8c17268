// Package ordering реализует операции с заказами витрины.
package ordering

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Service управляет заказами. Наличие товара в каталоге при оформлении не проверяется:
// заказ хранит собственный снимок названия, размера и суммы.
type Service struct {
	repo      domain.OrderRepository
	publisher domain.EventPublisher
	metrics   *metrics.StoreMetrics
	logger    *log.Entry
	now       func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithPublisher подключает публикацию событий заказов.
func WithPublisher(publisher domain.EventPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithMetrics подключает учёт публикаций.
func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger задаёт логгер сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService конструирует сервис заказов.
func NewService(repo domain.OrderRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: log.WithFields(log.Fields{"component": "ordering", "layer": "service"}),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp отдаёт время с миллисекундной точностью: грубее точности хранилищ нет.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// List возвращает все заказы, новые первыми.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

// Get возвращает заказ по id.
func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}

// Create оформляет заказ в статусе pending.
func (s *Service) Create(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	order := domain.NewOrder(draft, s.timestamp())
	if err := domain.NewValidationError(order.ValidateInvariants()); err != nil {
		return domain.Order{}, err
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.WithFields(log.Fields{
		"order_id":     created.ID,
		"product_name": created.ProductName,
		"total_price":  created.TotalPrice,
	}).Info("order created")
	s.emit(domain.EventTypeOrderCreated, created.ID, created)

	return created, nil
}

// UpdateStatus меняет только статус заказа; остальные поля сохраняются.
// Ограничений на порядок переходов нет.
func (s *Service) UpdateStatus(ctx context.Context, id string, rawStatus string) (domain.Order, error) {
	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return domain.Order{}, domain.NewValidationError([]error{err})
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status, s.timestamp())
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.WithFields(log.Fields{
		"order_id": updated.ID,
		"status":   updated.Status,
	}).Info("order status changed")
	s.emit(domain.EventTypeOrderStatusChanged, updated.ID, updated)

	return updated, nil
}

// Delete удаляет заказ.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("order_id", id).Info("order deleted")
	s.emit(domain.EventTypeOrderDeleted, id, nil)
	return nil
}

func (s *Service) emit(eventType domain.EventType, id string, payload any) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(domain.Event{
		Type:          eventType,
		AggregateType: domain.AggregateOrder,
		AggregateID:   id,
		OccurredAt:    s.now(),
		Payload:       payload,
	})
	s.metrics.RecordEvent(string(eventType), err)
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   id,
			"event_type": eventType,
		}).Warn("failed to publish order event")
	}
}
