package handlers

import (
	"errors"

	applog "shopfront/internal/log"
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	items, err := h.Cart.Get(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// POST /cart/add
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "cart.add")
	}
	items, err := h.Cart.Add(c.UserContext(), userID(c), req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, "cart.add", err)
	}
	applog.Audit(c, "cart.add", map[string]any{"product": req.ProductID, "qty": req.Quantity})
	return c.JSON(fiber.Map{"items": items})
}

// DELETE /cart/remove/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid := c.Params("productId")
	items, err := h.Cart.Remove(c.UserContext(), userID(c), pid)
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "cart not found", "items": []any{}})
	}
	if err != nil {
		return fail(c, "cart.remove", err)
	}
	applog.Audit(c, "cart.remove", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"items": items})
}
