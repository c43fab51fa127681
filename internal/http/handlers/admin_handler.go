package handlers

import (
	applog "shopfront/internal/log"
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves read-only listings. Routes are mounted behind
// RequireAdmin.
type AdminHandler struct {
	Auth    *services.AuthService
	Catalog *services.CatalogService
	Orders  *services.OrderService
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Auth.ListUsers(c.UserContext())
	if err != nil {
		return fail(c, "admin.users.list", err)
	}
	applog.Audit(c, "admin.users.list", map[string]any{"count": len(users)})
	return c.JSON(users)
}

// GET /admin/products
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return fail(c, "admin.products.list", err)
	}
	return c.JSON(products)
}

// GET /admin/orders
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.Orders.ListAll(c.UserContext())
	if err != nil {
		return fail(c, "admin.orders.list", err)
	}
	applog.Audit(c, "admin.orders.list", map[string]any{"count": len(orders)})
	return c.JSON(orders)
}
