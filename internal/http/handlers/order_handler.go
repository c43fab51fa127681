package handlers

import (
	applog "shopfront/internal/log"
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Order *services.OrderService
}

// POST /orders/checkout
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	o, err := h.Order.Checkout(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, "order.place", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID,
		"total":    o.Total,
		"lines":    len(o.Items),
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// GET /orders lists the caller's orders, newest first.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Order.History(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, "orders.history", err)
	}
	return c.JSON(orders)
}
