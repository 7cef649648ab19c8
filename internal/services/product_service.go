package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/audit"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
)

type ProductService struct {
	store    *store.Store
	audit    Auditor
	coercion string
}

// NewProductService builds the catalog service. coercion is one of
// config.CoercionStrict or config.CoercionLegacy.
func NewProductService(s *store.Store, a Auditor, coercion string) *ProductService {
	return &ProductService{store: s, audit: a, coercion: coercion}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.store.Products.Scan(ctx, "")
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, req *dto.CreateProductRequest, actor string) (*models.Product, error) {
	price, ok := req.Price.Float()
	if !ok || price < 0 {
		return nil, apperr.Validation("price must be a non-negative number")
	}
	stock, ok := req.Stock.Int()
	if !ok {
		return nil, apperr.Validation("stock must be an integer")
	}

	p := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Material:    req.Material,
		Price:       price,
		Stock:       stock,
	}
	if err := s.store.Products.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Append(ctx, audit.Products, audit.Event{
		Action:      models.ActionCreateProduct,
		PerformedBy: actor,
		Target:      p.Name,
		Details:     fmt.Sprintf("Created product \"%s\" (%s).", p.Name, p.Type),
	})
	return p, nil
}

// Update merges the present fields into the stored product and writes the
// whole record back.
func (s *ProductService) Update(ctx context.Context, id string, req *dto.UpdateProductRequest, actor string) (*models.Product, error) {
	original, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *original
	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.Type != nil {
		merged.Type = *req.Type
	}
	if req.Material != nil {
		merged.Material = *req.Material
	}

	if s.applies(req.Price) {
		price, ok := req.Price.Float()
		if !ok || price < 0 {
			return nil, apperr.Validation("price must be a non-negative number")
		}
		merged.Price = price
	}
	if s.applies(req.Stock) {
		stock, ok := req.Stock.Int()
		if !ok {
			return nil, apperr.Validation("stock must be an integer")
		}
		merged.Stock = stock
	}

	if err := s.store.Products.Put(ctx, &merged); err != nil {
		return nil, err
	}

	s.audit.Append(ctx, audit.Products, audit.Event{
		Action:      models.ActionUpdateProduct,
		PerformedBy: actor,
		Target:      merged.Name,
		Details:     productDiff(original, &merged),
	})
	return &merged, nil
}

// applies reports whether a numeric field takes part in the merge. Legacy
// coercion skips falsy values, so 0 can never be written through update.
func (s *ProductService) applies(n dto.Number) bool {
	if !n.Present {
		return false
	}
	if s.coercion == config.CoercionLegacy {
		return !n.Falsy
	}
	// null and "" carry no value in either mode.
	return n.Valid || !n.Falsy
}

func productDiff(before, after *models.Product) string {
	var changes []string
	if before.Name != after.Name {
		changes = append(changes, fmt.Sprintf("Name: changed from \"%s\" to \"%s\"", before.Name, after.Name))
	}
	if before.Price != after.Price {
		changes = append(changes, fmt.Sprintf("Price: changed from ₱%s to ₱%s", formatAmount(before.Price), formatAmount(after.Price)))
	}
	if before.Stock != after.Stock {
		changes = append(changes, fmt.Sprintf("Stock: changed from %d to %d", before.Stock, after.Stock))
	}
	if before.Type != after.Type {
		changes = append(changes, fmt.Sprintf("Type: changed from \"%s\" to \"%s\"", before.Type, after.Type))
	}
	if before.Material != after.Material {
		changes = append(changes, fmt.Sprintf("Material: changed from \"%s\" to \"%s\"", before.Material, after.Material))
	}
	if len(changes) == 0 {
		return fmt.Sprintf("Product \"%s\" was updated (no significant changes).", before.Name)
	}
	return strings.Join(changes, ", ")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *ProductService) Delete(ctx context.Context, id, actor string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Products.Delete(ctx, id); err != nil {
		return notFound(err, "Product not found")
	}

	s.audit.Append(ctx, audit.Products, audit.Event{
		Action:      models.ActionDeleteProduct,
		PerformedBy: actor,
		Target:      p.Name,
		Details:     fmt.Sprintf("Deleted product \"%s\".", p.Name),
	})
	return nil
}

// Logs returns product audit entries, newest first.
func (s *ProductService) Logs(ctx context.Context) ([]models.ProductLog, error) {
	return s.store.ProductLogs.Scan(ctx, "timestamp DESC")
}
