package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RiderHandler struct {
	riders *services.RiderService
}

func NewRiderHandler(riders *services.RiderService) *RiderHandler {
	return &RiderHandler{riders: riders}
}

func (h *RiderHandler) Location(c *fiber.Ctx) error {
	loc, err := h.riders.Location(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, err, "Internal Server Error")
	}
	return c.JSON(loc)
}
