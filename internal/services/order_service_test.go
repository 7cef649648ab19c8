package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, e *env, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: "Vase", Price: 10, Stock: stock}
	require.NoError(t, e.store.Products.Insert(context.Background(), p))
	return p
}

func orderRequest(t *testing.T, items ...models.LineItem) *dto.PlaceOrderRequest {
	return &dto.PlaceOrderRequest{
		Name:          "Ana",
		Address:       "1 Main St",
		Contact:       "0917",
		PaymentMethod: "cod",
		Items:         items,
		TotalAmount:   number(t, `"20.00"`),
	}
}

func stockOf(t *testing.T, e *env, id string) int {
	t.Helper()
	p, err := e.store.Products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func countOrders(t *testing.T, e *env) int {
	t.Helper()
	orders, err := e.store.Orders.Scan(context.Background(), "")
	require.NoError(t, err)
	return len(orders)
}

func TestOrderService_PlaceDecrementsStock(t *testing.T) {
	for _, mode := range []string{config.OrderModeAtomic, config.OrderModeLegacy} {
		t.Run(mode, func(t *testing.T) {
			e := newEnv(t)
			svc := services.NewOrderService(e.store, nil, mode)
			p := seedProduct(t, e, 10)

			order, replayed, err := svc.Place(context.Background(), orderRequest(t, models.NewLineItem(p.ID, 2)), "")
			require.NoError(t, err)
			assert.False(t, replayed)
			assert.Equal(t, models.OrderStatusPending, order.Status)
			assert.Equal(t, 20.0, order.TotalAmount)

			assert.Equal(t, 8, stockOf(t, e, p.ID))
			stored, err := svc.Track(context.Background(), order.ID)
			require.NoError(t, err)
			require.Len(t, stored.Items, 1)
			qty, ok := stored.Items[0].Quantity()
			require.True(t, ok)
			assert.Equal(t, 2, qty)
		})
	}
}

func TestOrderService_Validation(t *testing.T) {
	e := newEnv(t)
	svc := services.NewOrderService(e.store, nil, config.OrderModeAtomic)
	ctx := context.Background()

	req := orderRequest(t)
	_, _, err := svc.Place(ctx, req, "")
	assert.Equal(t, 400, apperr.Status(err))

	req = orderRequest(t, models.NewLineItem("p1", 0))
	_, _, err = svc.Place(ctx, req, "")
	assert.Equal(t, 400, apperr.Status(err))

	req = orderRequest(t, models.NewLineItem("p1", 1))
	req.Contact = ""
	req.PaymentMethod = " "
	_, _, err = svc.Place(ctx, req, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact, payment_method")
	assert.Zero(t, countOrders(t, e))
}

func TestOrderService_KeepsItemFieldsAsSent(t *testing.T) {
	e := newEnv(t)
	svc := services.NewOrderService(e.store, nil, config.OrderModeAtomic)
	ctx := context.Background()
	p := seedProduct(t, e, 5)

	item := models.LineItem{"id": p.ID, "quantity": "2", "price": 0.0, "size": "7", "image": ""}
	order, _, err := svc.Place(ctx, orderRequest(t, item), "")
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, e, p.ID))

	stored, err := svc.Track(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, item, stored.Items[0])

	_, _, err = svc.Place(ctx, orderRequest(t, models.LineItem{"id": p.ID, "quantity": 1.5}), "")
	assert.Equal(t, 400, apperr.Status(err))
}

func TestOrderService_AtomicRollsBack(t *testing.T) {
	e := newEnv(t)
	svc := services.NewOrderService(e.store, nil, config.OrderModeAtomic)
	ctx := context.Background()
	a := seedProduct(t, e, 10)
	b := seedProduct(t, e, 1)

	_, _, err := svc.Place(ctx, orderRequest(t,
		models.NewLineItem(a.ID, 2),
		models.NewLineItem(b.ID, 3),
	), "")
	assert.Equal(t, 400, apperr.Status(err))
	assert.Equal(t, 10, stockOf(t, e, a.ID))
	assert.Equal(t, 1, stockOf(t, e, b.ID))

	_, _, err = svc.Place(ctx, orderRequest(t,
		models.NewLineItem(a.ID, 2),
		models.NewLineItem("missing", 1),
	), "")
	assert.Equal(t, 404, apperr.Status(err))
	assert.Equal(t, 10, stockOf(t, e, a.ID))
	assert.Zero(t, countOrders(t, e))
}

func TestOrderService_LegacyKeepsPartialWrites(t *testing.T) {
	e := newEnv(t)
	svc := services.NewOrderService(e.store, nil, config.OrderModeLegacy)
	ctx := context.Background()
	p := seedProduct(t, e, 1)

	_, _, err := svc.Place(ctx, orderRequest(t, models.NewLineItem(p.ID, 3)), "")
	require.NoError(t, err)
	assert.Equal(t, -2, stockOf(t, e, p.ID), "legacy mode has no stock floor")

	_, _, err = svc.Place(ctx, orderRequest(t,
		models.NewLineItem(p.ID, 1),
		models.NewLineItem("missing", 1),
	), "")
	assert.Equal(t, 500, apperr.Status(err))
	assert.Equal(t, 2, countOrders(t, e), "the order stays persisted")
	assert.Equal(t, -3, stockOf(t, e, p.ID), "earlier decrements are kept")
}

func TestOrderService_IdempotencyKey(t *testing.T) {
	e := newEnv(t)
	_, rdb := testutil.NewRedis(t)
	svc := services.NewOrderService(e.store, store.NewIdempotency(rdb, 24*time.Hour), config.OrderModeAtomic)
	ctx := context.Background()
	p := seedProduct(t, e, 10)
	req := orderRequest(t, models.NewLineItem(p.ID, 2))

	first, replayed, err := svc.Place(ctx, req, "key-1")
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := svc.Place(ctx, req, "key-1")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 8, stockOf(t, e, p.ID))

	// A failed attempt releases its key.
	bad := orderRequest(t, models.NewLineItem(p.ID, 100))
	_, _, err = svc.Place(ctx, bad, "key-2")
	assert.Equal(t, 400, apperr.Status(err))
	_, _, err = svc.Place(ctx, req, "key-2")
	require.NoError(t, err)
	assert.Equal(t, 6, stockOf(t, e, p.ID))
}

func TestOrderService_StatusTransitions(t *testing.T) {
	e := newEnv(t)
	svc := services.NewOrderService(e.store, nil, config.OrderModeAtomic)
	ctx := context.Background()
	p := seedProduct(t, e, 10)

	order, _, err := svc.Place(ctx, orderRequest(t, models.NewLineItem(p.ID, 1)), "")
	require.NoError(t, err)

	// No predecessor check: Delivered can be set straight from Pending.
	delivered, err := svc.MarkDelivered(ctx, order.ID, "proof-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)
	assert.Equal(t, "proof-1.jpg", delivered.ProofPhoto)

	delivering, err := svc.MarkDelivering(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivering, delivering.Status)

	_, err = svc.MarkDelivering(ctx, "missing")
	assert.Equal(t, 404, apperr.Status(err))
	_, err = svc.MarkDelivered(ctx, "missing", "x.jpg")
	assert.Equal(t, 404, apperr.Status(err))
}

func TestOrderService_ListAndDelete(t *testing.T) {
	e := newEnv(t)
	svc := services.NewOrderService(e.store, nil, config.OrderModeAtomic)
	ctx := context.Background()
	p := seedProduct(t, e, 10)

	older, _, err := svc.Place(ctx, orderRequest(t, models.NewLineItem(p.ID, 1)), "")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	newer, _, err := svc.Place(ctx, orderRequest(t, models.NewLineItem(p.ID, 1)), "")
	require.NoError(t, err)

	orders, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)

	require.NoError(t, svc.Delete(ctx, older.ID))
	assert.Equal(t, 404, apperr.Status(svc.Delete(ctx, older.ID)))
	_, err = svc.Track(ctx, older.ID)
	assert.Equal(t, 404, apperr.Status(err))
}
