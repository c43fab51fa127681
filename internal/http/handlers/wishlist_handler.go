package handlers

import (
	"errors"

	applog "shopfront/internal/log"
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

type addToWishlistRequest struct {
	ProductID string `json:"productId"`
}

// GET /wishlist
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	items, err := h.Wish.Get(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, "wishlist.list", err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// POST /wishlist/add
func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	var req addToWishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "wishlist.save")
	}
	items, err := h.Wish.Add(c.UserContext(), userID(c), req.ProductID)
	if err != nil {
		return fail(c, "wishlist.save", err)
	}
	applog.Audit(c, "wishlist.save", map[string]any{"product": req.ProductID})
	return c.JSON(fiber.Map{"items": items})
}

// DELETE /wishlist/remove/:productId
func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	pid := c.Params("productId")
	items, err := h.Wish.Remove(c.UserContext(), userID(c), pid)
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wishlist not found", "items": []any{}})
	}
	if err != nil {
		return fail(c, "wishlist.unsave", err)
	}
	applog.Audit(c, "wishlist.unsave", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"items": items})
}
