package handlers

import (
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return fail(c, "products.list", err)
	}
	return c.JSON(products)
}

// GET /products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	p, err := h.Catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "products.get", err)
	}
	return c.JSON(p)
}
