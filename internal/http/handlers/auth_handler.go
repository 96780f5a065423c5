package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/auth"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/log"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/validate"
)

type AuthHandler struct {
	Auth *auth.Service
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	username, ok := validate.Username(body.Username)
	if !ok || body.Password == "" {
		return badRequest(c, "username and password are required")
	}

	token, user, err := h.Auth.Login(c.UserContext(), username, body.Password)
	if err != nil {
		log.Warn(c, "login_failed", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	log.Info(c, "login")
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
