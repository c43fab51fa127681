package handlers

import (
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// GET /products/search?q=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	products, err := h.Catalog.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, "search", err)
	}
	return c.JSON(products)
}
