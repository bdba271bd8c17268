package domain

import (
	"errors"
	"strings"
)

var (
	// Ошибка пустого названия товара.
	ErrNameRequired = errors.New("name is required")
	// Ошибка отрицательной цены товара.
	ErrPriceNegative = errors.New("price must be non-negative")
	// Ошибки отсутствующих данных покупателя.
	ErrCustomerNameRequired    = errors.New("customerName is required")
	ErrCustomerPhoneRequired   = errors.New("customerPhone is required")
	ErrCustomerAddressRequired = errors.New("customerAddress is required")
	// Ошибки отсутствующего снимка товара в заказе.
	ErrProductNameRequired = errors.New("productName is required")
	ErrSizeRequired        = errors.New("size is required")
	// Ошибка отрицательной суммы заказа.
	ErrTotalPriceNegative = errors.New("totalPrice must be non-negative")
	// Ошибка неизвестного статуса заказа.
	ErrStatusInvalid = errors.New("status must be one of pending, confirmed, shipped, delivered, cancelled")
	// ErrProductNotFound возвращается, если товара нет или идентификатор некорректен.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStoreUnavailable: долговременное хранилище недоступно (сеть, таймаут, закрытое соединение).
	ErrStoreUnavailable = errors.New("durable store unavailable")
)

// ValidationError собирает все нарушенные инварианты одной сущности.
type ValidationError struct {
	Errs []error
}

// NewValidationError возвращает nil для пустого списка, чтобы результат можно было вернуть напрямую.
func NewValidationError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errs: errs}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return e.Errs
}

// IsValidation проверяет, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsNotFound проверяет, что запись (товар или заказ) отсутствует.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrOrderNotFound)
}

// IsStoreUnavailable проверяет, что ошибка вызвана недоступностью хранилища.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
