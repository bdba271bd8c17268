// Package catalog реализует операции каталога товаров поверх ProductRepository.
package catalog

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Service управляет карточками товаров.
type Service struct {
	repo      domain.ProductRepository
	publisher domain.EventPublisher
	metrics   *metrics.StoreMetrics
	logger    *log.Entry
	now       func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithPublisher подключает публикацию событий каталога.
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

// NewService конструирует сервис каталога.
func NewService(repo domain.ProductRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: log.WithFields(log.Fields{"component": "catalog", "layer": "service"}),
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

// List возвращает все товары, новые первыми.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Get возвращает товар по id. Отсутствующий и некорректный id дают ErrProductNotFound.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

// Create проверяет черновик, подставляет значения по умолчанию и сохраняет товар.
// При ошибке валидации хранилище не трогается.
func (s *Service) Create(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	product := domain.NewProduct(draft, s.timestamp())
	if err := domain.NewValidationError(product.ValidateInvariants()); err != nil {
		return domain.Product{}, err
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.WithFields(log.Fields{
		"product_id": created.ID,
		"name":       created.Name,
	}).Info("product created")
	s.emit(domain.EventTypeProductCreated, created.ID, created)

	return created, nil
}

// Update применяет частичное обновление к существующему товару.
// Результат слияния валидируется целиком; при нарушении запись остаётся прежней.
func (s *Service) Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := current.Apply(patch, s.timestamp())
	if err := domain.NewValidationError(updated.ValidateInvariants()); err != nil {
		return domain.Product{}, err
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return domain.Product{}, err
	}

	s.logger.WithField("product_id", updated.ID).Info("product updated")
	s.emit(domain.EventTypeProductUpdated, updated.ID, updated)

	return updated, nil
}

// Delete удаляет товар. Заказы хранят собственный снимок и не затрагиваются.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("product_id", id).Info("product deleted")
	s.emit(domain.EventTypeProductDeleted, id, nil)
	return nil
}

// emit публикует событие после успешной записи. Ошибка публикации только логируется.
func (s *Service) emit(eventType domain.EventType, id string, payload any) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(domain.Event{
		Type:          eventType,
		AggregateType: domain.AggregateProduct,
		AggregateID:   id,
		OccurredAt:    s.now(),
		Payload:       payload,
	})
	s.metrics.RecordEvent(string(eventType), err)
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"product_id": id,
			"event_type": eventType,
		}).Warn("failed to publish catalog event")
	}
}
