package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus описывает жизненный цикл заказа витрины.
type OrderStatus string

const (
	// OrderStatusPending: заказ принят и ждёт обработки.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed: заказ подтверждён продавцом.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusShipped: заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered: заказ вручён покупателю.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled: заказ отменён.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid сообщает, входит ли статус в допустимый набор.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseOrderStatus разбирает статус без учёта регистра. Американское написание "canceled" тоже принимается.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "canceled" {
		normalized = string(OrderStatusCancelled)
	}
	status := OrderStatus(normalized)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrStatusInvalid, raw)
	}
	return status, nil
}

// Order хранит снимок покупки на момент оформления.
// ProductName и Size копируются из запроса и не ссылаются на карточку товара:
// последующие правки или удаление товара не меняют историю заказов.
type Order struct {
	ID              string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	ProductName     string
	Size            string
	TotalPrice      float64
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderDraft содержит поля нового заказа, пришедшие от покупателя.
type OrderDraft struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	ProductName     string
	Size            string
	TotalPrice      float64
}

// NewOrder создаёт заказ в статусе pending.
func NewOrder(draft OrderDraft, now time.Time) Order {
	return Order{
		CustomerName:    strings.TrimSpace(draft.CustomerName),
		CustomerPhone:   strings.TrimSpace(draft.CustomerPhone),
		CustomerAddress: strings.TrimSpace(draft.CustomerAddress),
		ProductName:     strings.TrimSpace(draft.ProductName),
		Size:            strings.TrimSpace(draft.Size),
		TotalPrice:      draft.TotalPrice,
		Status:          OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	required := []struct {
		value string
		err   error
	}{
		{o.CustomerName, ErrCustomerNameRequired},
		{o.CustomerPhone, ErrCustomerPhoneRequired},
		{o.CustomerAddress, ErrCustomerAddressRequired},
		{o.ProductName, ErrProductNameRequired},
		{o.Size, ErrSizeRequired},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			errs = append(errs, field.err)
		}
	}

	if o.TotalPrice < 0 {
		errs = append(errs, ErrTotalPriceNegative)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrStatusInvalid)
	}

	return errs
}
