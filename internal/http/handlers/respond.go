package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/log"
)

// fail maps service errors onto HTTP statuses. Insufficient stock and
// state conflicts are both 409 so clients can retry or give up; expired
// return windows get 422 since the request is well formed but refused.
func fail(c *fiber.Ctx, action string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrDeadlineExceeded):
		status = fiber.StatusUnprocessableEntity
	}
	if status == fiber.StatusInternalServerError {
		log.Error(c, action, err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
