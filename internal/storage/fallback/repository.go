package fallback

import (
	"context"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// ProductRepository направляет операции каталога в основное хранилище или в кэш.
type ProductRepository struct {
	primary   domain.ProductRepository
	secondary domain.ProductRepository
	guard     *guard
}

// NewProductRepository создаёт каталог с fallback. primary == nil означает, что
// основное хранилище не поднялось при старте и все вызовы идут в secondary.
func NewProductRepository(primary, secondary domain.ProductRepository, opts ...Option) *ProductRepository {
	return &ProductRepository{
		primary:   primary,
		secondary: secondary,
		guard:     newGuard("product", primary != nil, opts),
	}
}

// Degraded сообщает, обслуживает ли сейчас вызовы кэш.
func (r *ProductRepository) Degraded() bool { return r.guard.degraded() }

// State описывает текущий режим для health-проверки.
func (r *ProductRepository) State() string { return r.guard.state() }

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return run(ctx, r.guard, "list",
		func(ctx context.Context) ([]domain.Product, error) { return r.primary.List(ctx) },
		r.secondary.List,
	)
}

func (r *ProductRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	return run(ctx, r.guard, "get",
		func(ctx context.Context) (domain.Product, error) { return r.primary.Get(ctx, id) },
		func(ctx context.Context) (domain.Product, error) { return r.secondary.Get(ctx, id) },
	)
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	return run(ctx, r.guard, "create",
		func(ctx context.Context) (domain.Product, error) { return r.primary.Create(ctx, product) },
		func(ctx context.Context) (domain.Product, error) { return r.secondary.Create(ctx, product) },
	)
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	return runErr(ctx, r.guard, "update",
		func(ctx context.Context) error { return r.primary.Update(ctx, product) },
		func(ctx context.Context) error { return r.secondary.Update(ctx, product) },
	)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return runErr(ctx, r.guard, "delete",
		func(ctx context.Context) error { return r.primary.Delete(ctx, id) },
		func(ctx context.Context) error { return r.secondary.Delete(ctx, id) },
	)
}

// OrderRepository направляет операции с заказами в основное хранилище или в кэш.
type OrderRepository struct {
	primary   domain.OrderRepository
	secondary domain.OrderRepository
	guard     *guard
}

// NewOrderRepository создаёт хранилище заказов с fallback.
func NewOrderRepository(primary, secondary domain.OrderRepository, opts ...Option) *OrderRepository {
	return &OrderRepository{
		primary:   primary,
		secondary: secondary,
		guard:     newGuard("order", primary != nil, opts),
	}
}

// Degraded сообщает, обслуживает ли сейчас вызовы кэш.
func (r *OrderRepository) Degraded() bool { return r.guard.degraded() }

// State описывает текущий режим для health-проверки.
func (r *OrderRepository) State() string { return r.guard.state() }

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return run(ctx, r.guard, "list",
		func(ctx context.Context) ([]domain.Order, error) { return r.primary.List(ctx) },
		r.secondary.List,
	)
}

func (r *OrderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	return run(ctx, r.guard, "get",
		func(ctx context.Context) (domain.Order, error) { return r.primary.Get(ctx, id) },
		func(ctx context.Context) (domain.Order, error) { return r.secondary.Get(ctx, id) },
	)
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	return run(ctx, r.guard, "create",
		func(ctx context.Context) (domain.Order, error) { return r.primary.Create(ctx, order) },
		func(ctx context.Context) (domain.Order, error) { return r.secondary.Create(ctx, order) },
	)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, updatedAt time.Time) (domain.Order, error) {
	return run(ctx, r.guard, "update_status",
		func(ctx context.Context) (domain.Order, error) {
			return r.primary.UpdateStatus(ctx, id, status, updatedAt)
		},
		func(ctx context.Context) (domain.Order, error) {
			return r.secondary.UpdateStatus(ctx, id, status, updatedAt)
		},
	)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return runErr(ctx, r.guard, "delete",
		func(ctx context.Context) error { return r.primary.Delete(ctx, id) },
		func(ctx context.Context) error { return r.secondary.Delete(ctx, id) },
	)
}

var (
	_ domain.ProductRepository = (*ProductRepository)(nil)
	_ domain.OrderRepository   = (*OrderRepository)(nil)
)
