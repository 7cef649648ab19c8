package services_test

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createVase(t *testing.T, svc *services.ProductService) *models.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), &dto.CreateProductRequest{
		Name:     "Vase",
		Type:     "decor",
		Material: "clay",
		Price:    number(t, `"10"`),
		Stock:    number(t, `5`),
	}, "")
	require.NoError(t, err)
	return p
}

func productLogs(t *testing.T, e *env, action string) []models.ProductLog {
	t.Helper()
	e.audit.Flush()
	logs, err := e.store.ProductLogs.ScanByField(context.Background(), "action", action)
	require.NoError(t, err)
	return logs
}

func TestProductService_CreateLogsAndIDsAreUnique(t *testing.T) {
	e := newEnv(t)
	svc := services.NewProductService(e.store, e.audit, config.CoercionStrict)

	a := createVase(t, svc)
	b := createVase(t, svc)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 10.0, a.Price)
	assert.Equal(t, 5, a.Stock)

	logs := productLogs(t, e, models.ActionCreateProduct)
	require.Len(t, logs, 2)
	assert.Equal(t, `Created product "Vase" (decor).`, logs[0].Details)
	assert.Equal(t, "Unknown Admin", logs[0].PerformedBy)
}

func TestProductService_CreateValidatesNumbers(t *testing.T) {
	e := newEnv(t)
	svc := services.NewProductService(e.store, e.audit, config.CoercionStrict)
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.CreateProductRequest{Name: "X", Price: number(t, `-1`), Stock: number(t, `1`)}, "")
	assert.Equal(t, 400, apperr.Status(err))

	_, err = svc.Create(ctx, &dto.CreateProductRequest{Name: "X", Price: number(t, `1`)}, "")
	assert.Equal(t, 400, apperr.Status(err))
}

func TestProductService_UpdateWithoutChanges(t *testing.T) {
	e := newEnv(t)
	svc := services.NewProductService(e.store, e.audit, config.CoercionStrict)
	p := createVase(t, svc)

	_, err := svc.Update(context.Background(), p.ID, &dto.UpdateProductRequest{Name: ptr("Vase")}, "admin@x.io")
	require.NoError(t, err)

	logs := productLogs(t, e, models.ActionUpdateProduct)
	require.Len(t, logs, 1)
	assert.Equal(t, `Product "Vase" was updated (no significant changes).`, logs[0].Details)
	assert.Equal(t, "admin@x.io", logs[0].PerformedBy)
}

func TestProductService_UpdatePriceDiff(t *testing.T) {
	e := newEnv(t)
	svc := services.NewProductService(e.store, e.audit, config.CoercionStrict)
	p := createVase(t, svc)

	updated, err := svc.Update(context.Background(), p.ID, &dto.UpdateProductRequest{
		Price:    number(t, `12.5`),
		Material: ptr("glass"),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, p.CreatedAt.Unix(), updated.CreatedAt.Unix())

	logs := productLogs(t, e, models.ActionUpdateProduct)
	require.Len(t, logs, 1)
	assert.Equal(t, `Price: changed from ₱10 to ₱12.5, Material: changed from "clay" to "glass"`, logs[0].Details)

	stored, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "glass", stored.Material)
}

func TestProductService_UpdateRejectsNegativePrice(t *testing.T) {
	e := newEnv(t)
	svc := services.NewProductService(e.store, e.audit, config.CoercionStrict)
	p := createVase(t, svc)

	_, err := svc.Update(context.Background(), p.ID, &dto.UpdateProductRequest{Price: number(t, `-3`)}, "")
	assert.Equal(t, 400, apperr.Status(err))
	assert.Empty(t, productLogs(t, e, models.ActionUpdateProduct))
}

func TestProductService_StrictCoercionWritesZero(t *testing.T) {
	e := newEnv(t)
	svc := services.NewProductService(e.store, e.audit, config.CoercionStrict)
	p := createVase(t, svc)

	updated, err := svc.Update(context.Background(), p.ID, &dto.UpdateProductRequest{Stock: number(t, `0`)}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
}

// known-issue: legacy coercion treats 0 as "not provided", so stock
// cannot be cleared through update. Kept for behavioral parity.
func TestProductService_LegacyCoercionIgnoresZero(t *testing.T) {
	e := newEnv(t)
	svc := services.NewProductService(e.store, e.audit, config.CoercionLegacy)
	p := createVase(t, svc)

	updated, err := svc.Update(context.Background(), p.ID, &dto.UpdateProductRequest{
		Stock: number(t, `0`),
		Price: number(t, `""`),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, 10.0, updated.Price)

	logs := productLogs(t, e, models.ActionUpdateProduct)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Details, "no significant changes")
}

func TestProductService_DeleteMissingIsNotFoundWithoutLog(t *testing.T) {
	e := newEnv(t)
	svc := services.NewProductService(e.store, e.audit, config.CoercionStrict)
	ctx := context.Background()

	assert.Equal(t, 404, apperr.Status(svc.Delete(ctx, "nope", "")))
	_, err := svc.Update(ctx, "nope", &dto.UpdateProductRequest{}, "")
	assert.Equal(t, 404, apperr.Status(err))

	p := createVase(t, svc)
	require.NoError(t, svc.Delete(ctx, p.ID, ""))

	logs := productLogs(t, e, models.ActionDeleteProduct)
	require.Len(t, logs, 1)
	assert.Equal(t, `Deleted product "Vase".`, logs[0].Details)
}
