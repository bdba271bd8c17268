package ordering_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/ordering"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

type stubPublisher struct {
	events []domain.Event
	err    error
}

func (p *stubPublisher) Publish(event domain.Event) error {
	p.events = append(p.events, event)
	return p.err
}

type OrderingServiceSuite struct {
	suite.Suite

	ctx       context.Context
	publisher *stubPublisher
	clock     time.Time
	svc       *ordering.Service
}

func (s *OrderingServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.publisher = &stubPublisher{}
	s.clock = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	s.svc = ordering.NewService(memory.NewOrderRepository(),
		ordering.WithPublisher(s.publisher),
		ordering.WithClock(func() time.Time {
			s.clock = s.clock.Add(time.Second)
			return s.clock
		}),
	)
}

func TestOrderingServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderingServiceSuite))
}

func validDraft() domain.OrderDraft {
	return domain.OrderDraft{
		CustomerName:    "Ann",
		CustomerPhone:   "+79990001122",
		CustomerAddress: "Moscow, Tverskaya 1",
		ProductName:     "Hoodie",
		Size:            "M",
		TotalPrice:      90,
	}
}

func (s *OrderingServiceSuite) TestCreateStartsPending() {
	created, err := s.svc.Create(s.ctx, validDraft())
	s.Require().NoError(err)

	s.NotEmpty(created.ID)
	s.Equal(domain.OrderStatusPending, created.Status)
	s.False(created.CreatedAt.IsZero())
	s.Require().Len(s.publisher.events, 1)
	s.Equal(domain.EventTypeOrderCreated, s.publisher.events[0].Type)
	s.Equal(created.ID, s.publisher.events[0].AggregateID)
}

func (s *OrderingServiceSuite) TestCreateRequiresAllFields() {
	_, err := s.svc.Create(s.ctx, domain.OrderDraft{TotalPrice: 10})
	s.Require().Error(err)
	s.True(domain.IsValidation(err))
	for _, expected := range []error{
		domain.ErrCustomerNameRequired,
		domain.ErrCustomerPhoneRequired,
		domain.ErrCustomerAddressRequired,
		domain.ErrProductNameRequired,
		domain.ErrSizeRequired,
	} {
		s.ErrorIs(err, expected)
	}

	listed, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(listed)
	s.Empty(s.publisher.events)
}

func (s *OrderingServiceSuite) TestUpdateStatusMergesOnlyStatus() {
	created, err := s.svc.Create(s.ctx, validDraft())
	s.Require().NoError(err)

	updated, err := s.svc.UpdateStatus(s.ctx, created.ID, "Shipped")
	s.Require().NoError(err)

	s.Equal(domain.OrderStatusShipped, updated.Status)
	s.Equal(created.CustomerName, updated.CustomerName)
	s.Equal(created.TotalPrice, updated.TotalPrice)
	s.Equal(created.CreatedAt, updated.CreatedAt)
	s.True(updated.UpdatedAt.After(created.UpdatedAt))

	// Переходы не ограничены: из delivered можно вернуться в pending.
	_, err = s.svc.UpdateStatus(s.ctx, created.ID, "delivered")
	s.Require().NoError(err)
	back, err := s.svc.UpdateStatus(s.ctx, created.ID, "pending")
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusPending, back.Status)
}

func (s *OrderingServiceSuite) TestUpdateStatusAcceptsCanceledSpelling() {
	created, err := s.svc.Create(s.ctx, validDraft())
	s.Require().NoError(err)

	updated, err := s.svc.UpdateStatus(s.ctx, created.ID, "canceled")
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCancelled, updated.Status)
}

func (s *OrderingServiceSuite) TestUpdateStatusRejectsUnknown() {
	created, err := s.svc.Create(s.ctx, validDraft())
	s.Require().NoError(err)

	_, err = s.svc.UpdateStatus(s.ctx, created.ID, "lost")
	s.Require().Error(err)
	s.True(domain.IsValidation(err))
	s.ErrorIs(err, domain.ErrStatusInvalid)

	stored, err := s.svc.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusPending, stored.Status)
}

func (s *OrderingServiceSuite) TestUpdateStatusMissing() {
	_, err := s.svc.UpdateStatus(s.ctx, "missing", "confirmed")
	s.ErrorIs(err, domain.ErrOrderNotFound)
}

func (s *OrderingServiceSuite) TestDeleteTwice() {
	created, err := s.svc.Create(s.ctx, validDraft())
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, created.ID))
	s.ErrorIs(s.svc.Delete(s.ctx, created.ID), domain.ErrOrderNotFound)
}

func (s *OrderingServiceSuite) TestListNewestFirst() {
	first, err := s.svc.Create(s.ctx, validDraft())
	s.Require().NoError(err)
	second, err := s.svc.Create(s.ctx, validDraft())
	s.Require().NoError(err)

	listed, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal(second.ID, listed[0].ID)
	s.Equal(first.ID, listed[1].ID)
}

// Заказ хранит снимок товара: правка и удаление товара его не меняют.
func TestOrderSnapshotSurvivesProductChanges(t *testing.T) {
	ctx := context.Background()
	products := catalog.NewService(memory.NewProductRepository())
	orders := ordering.NewService(memory.NewOrderRepository())

	price := 120.0
	product, err := products.Create(ctx, domain.ProductDraft{Name: "Hoodie", Price: price})
	require.NoError(t, err)

	order, err := orders.Create(ctx, domain.OrderDraft{
		CustomerName:    "Bob",
		CustomerPhone:   "+100",
		CustomerAddress: "Main st 1",
		ProductName:     product.Name,
		Size:            "L",
		TotalPrice:      product.Price,
	})
	require.NoError(t, err)

	newName := "Hoodie v2"
	_, err = products.Update(ctx, product.ID, domain.ProductPatch{Name: &newName})
	require.NoError(t, err)
	require.NoError(t, products.Delete(ctx, product.ID))

	stored, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, "Hoodie", stored.ProductName)
	require.Equal(t, price, stored.TotalPrice)
}

// Заказ на несуществующий товар принимается.
func TestCreateDoesNotCheckCatalog(t *testing.T) {
	orders := ordering.NewService(memory.NewOrderRepository())

	draft := validDraft()
	draft.ProductName = "Never existed"
	created, err := orders.Create(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, "Never existed", created.ProductName)
}

func TestPublishFailureIsIgnored(t *testing.T) {
	publisher := &stubPublisher{err: errors.New("broker down")}
	orders := ordering.NewService(memory.NewOrderRepository(), ordering.WithPublisher(publisher))

	created, err := orders.Create(context.Background(), validDraft())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
}

func TestTimestampsMatchStoredRecord(t *testing.T) {
	ctx := context.Background()
	stamp := time.Date(2026, 1, 10, 9, 0, 0, 123456789, time.UTC)
	orders := ordering.NewService(memory.NewOrderRepository(), ordering.WithClock(func() time.Time { return stamp }))

	created, err := orders.Create(ctx, validDraft())
	require.NoError(t, err)
	require.Equal(t, stamp.Truncate(time.Millisecond), created.CreatedAt)

	stored, err := orders.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, stored)

	stamp = stamp.Add(time.Second + 987654*time.Nanosecond)
	updated, err := orders.UpdateStatus(ctx, created.ID, "shipped")
	require.NoError(t, err)
	require.Equal(t, stamp.Truncate(time.Millisecond), updated.UpdatedAt)

	stored, err = orders.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, stored)
}
