package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/log"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/services"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/validate"

	"go.uber.org/zap"
)

type ReturnHandler struct {
	Returns *services.Returns
}

func (h *ReturnHandler) Request(c *fiber.Ctx) error {
	var body struct {
		TransactionID string                     `json:"transaction_id"`
		Items         []services.ReturnItemInput `json:"items"`
		Reason        string                     `json:"reason"`
		RefundMethod  string                     `json:"refund_method"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	transactionID, ok := validate.ID(body.TransactionID)
	if !ok {
		return badRequest(c, "missing transaction_id")
	}
	method, ok := validate.Method(body.RefundMethod)
	if !ok {
		return badRequest(c, "invalid refund_method")
	}

	ret, err := h.Returns.Request(c.UserContext(), transactionID, body.Items, body.Reason, method)
	if err != nil {
		return fail(c, "return_request", err)
	}

	log.Info(c, "return_request", zap.String("return_id", ret.ID), zap.String("status", ret.Status))
	return c.Status(fiber.StatusCreated).JSON(ret)
}

func (h *ReturnHandler) Approve(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "missing id")
	}
	ret, err := h.Returns.Approve(c.UserContext(), id)
	if err != nil {
		return fail(c, "return_approve", err)
	}
	log.Info(c, "return_approve", zap.String("return_id", ret.ID))
	return c.JSON(ret)
}

func (h *ReturnHandler) Reject(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "missing id")
	}
	ret, err := h.Returns.Reject(c.UserContext(), id)
	if err != nil {
		return fail(c, "return_reject", err)
	}
	log.Info(c, "return_reject", zap.String("return_id", ret.ID))
	return c.JSON(ret)
}

func (h *ReturnHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "missing id")
	}
	ret, err := h.Returns.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "return_get", err)
	}
	return c.JSON(ret)
}
