package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch products")
	}
	return c.JSON(products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to fetch product")
	}
	return c.JSON(product)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	product, err := h.products.Create(c.UserContext(), &req, middleware.Actor(c, req.AdminEmail))
	if err != nil {
		return respondError(c, err, "Failed to create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	product, err := h.products.Update(c.UserContext(), c.Params("id"), &req, middleware.Actor(c, req.AdminEmail))
	if err != nil {
		return respondError(c, err, "Failed to update product")
	}
	return c.JSON(product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.UserContext(), c.Params("id"), middleware.Actor(c, adminEmail(c))); err != nil {
		return respondError(c, err, "Failed to delete product")
	}
	return c.JSON(dto.MessageResponse{Message: "Product deleted successfully"})
}

func (h *ProductHandler) Logs(c *fiber.Ctx) error {
	logs, err := h.products.Logs(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch logs")
	}
	return c.JSON(logs)
}
