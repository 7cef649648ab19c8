package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
)

var ErrDuplicateOrder = apperr.Validation("duplicate order submission in progress")

type OrderService struct {
	store *store.Store
	idem  *store.Idempotency
	mode  string
	now   func() time.Time
}

// NewOrderService builds the order flow. mode is config.OrderModeAtomic
// or config.OrderModeLegacy; idem may be nil, in which case idempotency
// keys are ignored.
func NewOrderService(s *store.Store, idem *store.Idempotency, mode string) *OrderService {
	return &OrderService{store: s, idem: idem, mode: mode, now: time.Now}
}

// Place creates an order and takes its items out of stock. replayed is
// true when the idempotency key matched an earlier completed order.
func (s *OrderService) Place(ctx context.Context, req *dto.PlaceOrderRequest, idemKey string) (order *models.Order, replayed bool, err error) {
	order, lines, err := s.buildOrder(req)
	if err != nil {
		return nil, false, err
	}

	if idemKey != "" && s.idem != nil {
		prev, claimErr := s.idem.Claim(ctx, idemKey)
		switch {
		case errors.Is(claimErr, store.ErrInProgress):
			return nil, false, ErrDuplicateOrder
		case claimErr != nil:
			return nil, false, claimErr
		case prev != "":
			existing, trackErr := s.Track(ctx, prev)
			if trackErr != nil {
				return nil, false, trackErr
			}
			return existing, true, nil
		}
		defer func() {
			if err != nil {
				if rerr := s.idem.Release(ctx, idemKey); rerr != nil {
					slog.Warn("idempotency release failed", "error", rerr)
				}
				return
			}
			if cerr := s.idem.Complete(ctx, idemKey, order.ID); cerr != nil {
				slog.Warn("idempotency completion failed", "order_id", order.ID, "error", cerr)
			}
		}()
	}

	if s.mode == config.OrderModeLegacy {
		err = s.placeLegacy(ctx, order, lines)
	} else {
		err = s.placeAtomic(ctx, order, lines)
	}
	if err != nil {
		return nil, false, err
	}
	return order, false, nil
}

// stockLine is the part of a line item the stock decrement needs.
type stockLine struct {
	productID string
	quantity  int
}

func (s *OrderService) buildOrder(req *dto.PlaceOrderRequest) (*models.Order, []stockLine, error) {
	required := []struct{ field, value string }{
		{"name", req.Name},
		{"address", req.Address},
		{"contact", req.Contact},
		{"payment_method", req.PaymentMethod},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return nil, nil, apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
	}
	if len(req.Items) == 0 {
		return nil, nil, apperr.Validation("order must contain at least one item")
	}
	total, ok := req.TotalAmount.Float()
	if !ok {
		return nil, nil, apperr.Validation("totalAmount must be a number")
	}

	lines := make([]stockLine, 0, len(req.Items))
	for _, it := range req.Items {
		qty, ok := it.Quantity()
		if it.ProductID() == "" || !ok || qty <= 0 {
			return nil, nil, apperr.Validation("each item needs an id and a positive quantity")
		}
		lines = append(lines, stockLine{productID: it.ProductID(), quantity: qty})
	}

	return &models.Order{
		Name:          req.Name,
		Address:       req.Address,
		Contact:       req.Contact,
		PaymentMethod: req.PaymentMethod,
		Items:         req.Items,
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		Date:          s.now().UTC(),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}, lines, nil
}

// placeLegacy writes the order, then decrements each product on its own.
// Nothing is compensated: a failed decrement leaves the order and the
// earlier decrements in place, and stock may go negative.
func (s *OrderService) placeLegacy(ctx context.Context, order *models.Order, lines []stockLine) error {
	if err := s.store.Orders.Insert(ctx, order); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := s.store.Products.Update(ctx, l.productID, map[string]any{
			"stock": store.Decrement("stock", l.quantity),
		}); err != nil {
			slog.Error("stock decrement failed after order was saved",
				"order_id", order.ID, "product_id", l.productID, "error", err)
			return apperr.Unexpected("Internal server error", err)
		}
	}
	return nil
}

// placeAtomic writes the order and every guarded decrement in one
// transaction.
func (s *OrderService) placeAtomic(ctx context.Context, order *models.Order, lines []stockLine) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Orders.Insert(ctx, order); err != nil {
			return err
		}
		for _, l := range lines {
			_, err := tx.Products.UpdateIf(ctx, l.productID,
				store.AtLeast("stock", l.quantity),
				map[string]any{"stock": store.Decrement("stock", l.quantity)},
			)
			switch {
			case errors.Is(err, store.ErrNotFound):
				return apperr.Wrap(apperr.NotFound("Product not found: "+l.productID), err)
			case errors.Is(err, store.ErrConditionFailed):
				return apperr.Wrap(apperr.Validation("Insufficient stock for product "+l.productID), err)
			case err != nil:
				return err
			}
		}
		return nil
	})
}

// List returns all orders, newest first.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders.Scan(ctx, "date DESC")
}

func (s *OrderService) Track(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.store.Orders.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return notFound(s.store.Orders.Delete(ctx, id), "Order not found")
}

// MarkDelivering sets the status regardless of the current one.
func (s *OrderService) MarkDelivering(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.store.Orders.Update(ctx, id, map[string]any{"status": models.OrderStatusDelivering})
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	return o, nil
}

// MarkDelivered records the proof photo filename and sets Delivered.
func (s *OrderService) MarkDelivered(ctx context.Context, id, proofPhoto string) (*models.Order, error) {
	o, err := s.store.Orders.Update(ctx, id, map[string]any{
		"status":      models.OrderStatusDelivered,
		"proof_photo": proofPhoto,
	})
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	return o, nil
}
