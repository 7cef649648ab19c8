package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users *services.UserService
	auth  *services.AuthService
}

func NewUserHandler(users *services.UserService, auth *services.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch users")
	}
	return c.JSON(users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to fetch user")
	}
	return c.JSON(user)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.users.Create(c.UserContext(), &req, middleware.Actor(c, req.AdminEmail))
	if err != nil {
		return respondError(c, err, "Failed to create user")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.users.Update(c.UserContext(), c.Params("id"), &req, middleware.Actor(c, req.AdminEmail))
	if err != nil {
		return respondError(c, err, "Failed to update user")
	}
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id"), middleware.Actor(c, adminEmail(c))); err != nil {
		return respondError(c, err, "Failed to delete user")
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted"})
}

func (h *UserHandler) Logs(c *fiber.Ctx) error {
	logs, err := h.users.Logs(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch logs")
	}
	return c.JSON(logs)
}

// UpdateProfile is the self-service update behind a required token.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: "No token provided"})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.auth.UpdateProfile(c.UserContext(), principal, &req)
	if err != nil {
		return respondError(c, err, "Failed to update profile")
	}
	if updated == nil {
		return c.JSON(dto.MessageResponse{Message: "No changes made"})
	}
	return c.JSON(dto.UpdateProfileResponse{UpdatedUser: updated})
}
