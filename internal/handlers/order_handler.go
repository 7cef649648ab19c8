package handlers

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orders    *services.OrderService
	uploadDir string
}

func NewOrderHandler(orders *services.OrderService, uploadDir string) *OrderHandler {
	return &OrderHandler{orders: orders, uploadDir: uploadDir}
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req dto.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	order, replayed, err := h.orders.Place(c.UserContext(), &req, c.Get(middleware.IdempotencyHeader))
	if err != nil {
		return respondError(c, err, "Internal server error")
	}

	status := fiber.StatusCreated
	if replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(dto.PlaceOrderResponse{
		Message: "Order placed and stock updated successfully",
		Order:   order,
	})
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch orders")
	}
	return c.JSON(orders)
}

func (h *OrderHandler) Track(c *fiber.Ctx) error {
	order, err := h.orders.Track(c.UserContext(), c.Params("orderId"))
	if err != nil {
		return respondError(c, err, "Failed to fetch order details")
	}
	return c.JSON(order)
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete order")
	}
	return c.JSON(dto.MessageResponse{Message: "Order deleted successfully"})
}

func (h *OrderHandler) Deliver(c *fiber.Ctx) error {
	order, err := h.orders.MarkDelivering(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to update order status")
	}
	return c.JSON(order)
}

// DeliverProof stores the uploaded photo under uploads/proofs and marks
// the order Delivered. The file is removed again if the order is missing.
func (h *OrderHandler) DeliverProof(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "Proof photo is required")
	}

	dir := filepath.Join(h.uploadDir, "proofs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return respondError(c, err, "Failed to upload delivery proof")
	}
	name := proofFilename(filepath.Ext(file.Filename))
	path := filepath.Join(dir, name)
	if err := c.SaveFile(file, path); err != nil {
		return respondError(c, err, "Failed to upload delivery proof")
	}

	order, err := h.orders.MarkDelivered(c.UserContext(), c.Params("id"), name)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Warn("failed to remove orphaned proof photo", "path", path, "error", rmErr)
		}
		return respondError(c, err, "Failed to upload delivery proof")
	}
	return c.JSON(order)
}

func proofFilename(ext string) string {
	return fmt.Sprintf("proof-%d-%d%s", time.Now().UnixMilli(), rand.IntN(1e9), ext)
}
