package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	carts *services.CartService
}

func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	items, err := h.carts.Items(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, err, "Failed to fetch cart")
	}
	return c.JSON(items)
}

func (h *CartHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.carts.Save(c.UserContext(), c.Params("userId"), req.Items); err != nil {
		return respondError(c, err, "Failed to save cart")
	}
	return c.JSON(dto.MessageResponse{Message: "Cart saved successfully"})
}
