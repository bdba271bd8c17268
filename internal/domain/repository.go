package domain

import (
	"context"
	"time"
)

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	// List возвращает все товары, новые первыми (createdAt desc).
	List(ctx context.Context) ([]Product, error)
	// Get возвращает товар или ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	// Create назначает товару новый ID и сохраняет его.
	Create(ctx context.Context, product Product) (Product, error)
	// Update перезаписывает существующий товар целиком; ErrProductNotFound, если его нет.
	Update(ctx context.Context, product Product) error
	// Delete удаляет товар; ErrProductNotFound, если его нет.
	Delete(ctx context.Context, id string) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// List возвращает все заказы, новые первыми (createdAt desc).
	List(ctx context.Context) ([]Order, error)
	// Get возвращает заказ или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// Create назначает заказу новый ID и сохраняет его.
	Create(ctx context.Context, order Order) (Order, error)
	// UpdateStatus атомарно меняет статус одного заказа и возвращает обновлённую запись.
	UpdateStatus(ctx context.Context, id string, status OrderStatus, updatedAt time.Time) (Order, error)
	// Delete удаляет заказ; ErrOrderNotFound, если его нет.
	Delete(ctx context.Context, id string) error
}
