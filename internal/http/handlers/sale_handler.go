package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/log"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/services"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/validate"

	"go.uber.org/zap"
)

type SaleHandler struct {
	Sales *services.Sales
}

// Create processes a sale. Stock debits, discrepancy records and the
// transaction itself commit together or not at all.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in services.SaleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid body")
	}

	tr, err := h.Sales.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "transaction_create", err)
	}

	log.Info(c, "transaction_create", zap.String("transaction_id", tr.ID), zap.Float64("total", tr.Total))
	return c.Status(fiber.StatusCreated).JSON(tr)
}

func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "missing id")
	}
	tr, err := h.Sales.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "transaction_get", err)
	}
	return c.JSON(tr)
}

// Cancel voids a completed transaction. Stock is not restocked here;
// goods come back through the return workflow.
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "missing id")
	}
	tr, err := h.Sales.Cancel(c.UserContext(), id)
	if err != nil {
		return fail(c, "transaction_cancel", err)
	}
	log.Info(c, "transaction_cancel", zap.String("transaction_id", tr.ID))
	return c.JSON(tr)
}
