package handlers

import (
	"shopfront/internal/log"
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "auth.register")
	}
	u, tok, err := h.Auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		log.Security(c, "auth.register.fail", map[string]any{"email": req.Email})
		return fail(c, "auth.register", err)
	}
	log.Audit(c, "auth.register.success", map[string]any{"email": u.Email, "user": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u, "token": tok})
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "auth.login")
	}
	u, tok, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return fail(c, "auth.login", err)
	}
	log.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.JSON(fiber.Map{"user": u, "token": tok})
}
