package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// helper для создания валидного заказа.
func makeOrder() domain.Order {
	return domain.NewOrder(domain.OrderDraft{
		CustomerName:    "Amina",
		CustomerPhone:   "+212600000000",
		CustomerAddress: "12 rue des Fleurs, Casablanca",
		ProductName:     "Tee",
		Size:            "M",
		TotalPrice:      40,
	}, time.Now().UTC())
}

func TestNewOrder_DefaultsToPending(t *testing.T) {
	order := makeOrder()

	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.ID != "" {
		t.Fatalf("id must be assigned by the store, got %q", order.ID)
	}
	if !order.CreatedAt.Equal(order.UpdatedAt) {
		t.Fatal("createdAt and updatedAt must match on creation")
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
		want error
	}{
		{"no customer name", func(o *domain.Order) { o.CustomerName = "  " }, domain.ErrCustomerNameRequired},
		{"no phone", func(o *domain.Order) { o.CustomerPhone = "" }, domain.ErrCustomerPhoneRequired},
		{"no address", func(o *domain.Order) { o.CustomerAddress = "" }, domain.ErrCustomerAddressRequired},
		{"no product name", func(o *domain.Order) { o.ProductName = "" }, domain.ErrProductNameRequired},
		{"no size", func(o *domain.Order) { o.Size = "" }, domain.ErrSizeRequired},
		{"negative total", func(o *domain.Order) { o.TotalPrice = -1 }, domain.ErrTotalPriceNegative},
		{"unknown status", func(o *domain.Order) { o.Status = "lost" }, domain.ErrStatusInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			err := domain.NewValidationError(order.ValidateInvariants())
			if err == nil {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	cases := map[string]domain.OrderStatus{
		"pending":     domain.OrderStatusPending,
		" Confirmed ": domain.OrderStatusConfirmed,
		"SHIPPED":     domain.OrderStatusShipped,
		"delivered":   domain.OrderStatusDelivered,
		"cancelled":   domain.OrderStatusCancelled,
		"canceled":    domain.OrderStatusCancelled,
	}
	for raw, want := range cases {
		got, err := domain.ParseOrderStatus(raw)
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q) failed: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseOrderStatus(%q) = %s, want %s", raw, got, want)
		}
	}

	if _, err := domain.ParseOrderStatus("refunded"); !errors.Is(err, domain.ErrStatusInvalid) {
		t.Fatalf("expected ErrStatusInvalid, got %v", err)
	}
}
