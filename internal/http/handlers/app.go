package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "shopfront/internal/log"
)

type AppOptions struct {
	APIPrefix string
	// LoginRateMax is the number of login attempts allowed per IP every ten
	// minutes. Zero disables the login limiter.
	LoginRateMax int
	// RateMax is the global per-IP request budget per minute. Zero disables it.
	RateMax int
	// AccessLog enables fiber's access logger.
	AccessLog bool
}

// NewApp builds the fiber app with middleware and every API route.
func NewApp(d *Deps, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	if opts.RateMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateMax,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.global.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
			},
		}))
	}

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	api := app.Group(opts.APIPrefix)

	// Auth (login throttled)
	loginGuards := []fiber.Handler{}
	if opts.LoginRateMax > 0 {
		loginGuards = append(loginGuards, limiter.New(limiter.Config{
			Max:        opts.LoginRateMax,
			Expiration: 10 * time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.login.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
			},
		}))
	}
	api.Post("/auth/register", d.AuthHandler.Register)
	api.Post("/auth/login", append(loginGuards, d.AuthHandler.Login)...)

	// Catalog; /search is registered before /:id so it is not taken as an id
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/search", d.SearchHandler.Search)
	api.Get("/products/:id", d.ProductHandler.Detail)

	user := RequireUser(d.Auth)

	// Cart
	api.Get("/cart", user, d.CartHandler.View)
	api.Post("/cart/add", user, d.CartHandler.Add)
	api.Delete("/cart/remove/:productId", user, d.CartHandler.Remove)

	// Wishlist
	api.Get("/wishlist", user, d.WishlistHandler.List)
	api.Post("/wishlist/add", user, d.WishlistHandler.Save)
	api.Delete("/wishlist/remove/:productId", user, d.WishlistHandler.Unsave)

	// Orders
	api.Get("/orders", user, d.OrderHandler.History)
	api.Post("/orders/checkout", user, d.OrderHandler.Checkout)

	// Admin
	admin := api.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/users", d.AdminHandler.ListUsers)
	admin.Get("/products", d.AdminHandler.ListProducts)
	admin.Get("/orders", d.AdminHandler.ListOrders)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "route not found"})
	})
	return app
}
