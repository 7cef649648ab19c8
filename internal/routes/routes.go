package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Products *handlers.ProductHandler
	Carts    *handlers.CartHandler
	Orders   *handlers.OrderHandler
	Riders   *handlers.RiderHandler
	Health   *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/health", h.Health.Check)

	// Proof photos
	app.Static("/uploads", cfg.UploadDir)

	// Auth: 10 req/min per IP
	auth := app.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/verify-email", h.Auth.VerifyEmail)
	auth.Post("/login", h.Auth.Login)

	// Mutations accept an optional bearer token for audit attribution.
	attributed := middleware.OptionalJWT(cfg)

	users := app.Group("/users")
	users.Get("/", h.Users.List)
	users.Post("/", attributed, h.Users.Create)
	users.Get("/logs/all", h.Users.Logs)
	users.Put("/update-profile", middleware.JWTProtected(cfg), h.Users.UpdateProfile)
	users.Get("/:id", h.Users.Get)
	users.Put("/:id", attributed, h.Users.Update)
	users.Delete("/:id", attributed, h.Users.Delete)

	products := app.Group("/products")
	products.Get("/", h.Products.List)
	products.Post("/", attributed, h.Products.Create)
	products.Get("/logs/all", h.Products.Logs)
	products.Get("/:id", h.Products.Get)
	products.Put("/:id", attributed, h.Products.Update)
	products.Delete("/:id", attributed, h.Products.Delete)

	cart := app.Group("/cart")
	cart.Get("/:userId", h.Carts.Get)
	cart.Post("/:userId", h.Carts.Save)

	orders := app.Group("/orders")
	orders.Post("/", h.Orders.Place)
	orders.Get("/", h.Orders.List)
	orders.Get("/track-order/:orderId", h.Orders.Track)
	orders.Delete("/:id", h.Orders.Delete)
	orders.Patch("/:id/deliver", h.Orders.Deliver)
	orders.Post("/:id/deliver-proof", h.Orders.DeliverProof)

	app.Get("/riders/location/:userId", h.Riders.Location)
}
