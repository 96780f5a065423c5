package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/log"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/services"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/validate"

	"go.uber.org/zap"
)

type TransferHandler struct {
	Transfers *services.Transfers
}

func (h *TransferHandler) Request(c *fiber.Ctx) error {
	var body struct {
		VariantID    string `json:"variant_id"`
		FromBranchID string `json:"from_branch_id"`
		ToBranchID   string `json:"to_branch_id"`
		Quantity     int    `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	variantID, ok := validate.ID(body.VariantID)
	if !ok {
		return badRequest(c, "missing variant_id")
	}

	tf, err := h.Transfers.Request(c.UserContext(), variantID, body.FromBranchID, body.ToBranchID, body.Quantity)
	if err != nil {
		return fail(c, "transfer_request", err)
	}

	log.Info(c, "transfer_request", zap.String("transfer_id", tf.ID))
	return c.Status(fiber.StatusCreated).JSON(tf)
}

// Approve moves the stock. Insufficient source stock leaves the request
// pending so it can be retried after a restock.
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "missing id")
	}
	tf, err := h.Transfers.Approve(c.UserContext(), id)
	if err != nil {
		return fail(c, "transfer_approve", err)
	}
	log.Info(c, "transfer_approve", zap.String("transfer_id", tf.ID))
	return c.JSON(tf)
}

func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "missing id")
	}
	tf, err := h.Transfers.Reject(c.UserContext(), id)
	if err != nil {
		return fail(c, "transfer_reject", err)
	}
	log.Info(c, "transfer_reject", zap.String("transfer_id", tf.ID))
	return c.JSON(tf)
}

func (h *TransferHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "missing id")
	}
	tf, err := h.Transfers.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "transfer_get", err)
	}
	return c.JSON(tf)
}
