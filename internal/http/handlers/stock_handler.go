package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/services"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/validate"
)

type StockHandler struct {
	Inv *services.Inventory
}

// stockView is the read shape: the stored row plus the computed low flag.
type stockView struct {
	domain.Stock
	Low bool `json:"low"`
}

func view(s domain.Stock) stockView { return stockView{Stock: s, Low: s.Low()} }

// List returns current stock for a branch, low rows flagged.
func (h *StockHandler) List(c *fiber.Ctx) error {
	branchID := strings.TrimSpace(c.Query("branchId"))
	rows, err := h.Inv.List(c.UserContext(), branchID)
	if err != nil {
		return fail(c, "stock_list", err)
	}
	out := make([]stockView, 0, len(rows))
	for _, r := range rows {
		out = append(out, view(r))
	}
	return c.JSON(fiber.Map{"stock": out})
}

// Get returns one stock row.
func (h *StockHandler) Get(c *fiber.Ctx) error {
	variantID, ok := validate.ID(c.Query("variantId"))
	if !ok {
		return badRequest(c, "missing variantId")
	}
	branchID := strings.TrimSpace(c.Query("branchId"))

	st, err := h.Inv.Read(c.UserContext(), variantID, branchID)
	if err != nil {
		return fail(c, "stock_get", err)
	}
	return c.JSON(view(st))
}

// Adjust applies a manual correction with a reason and returns the new row.
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var body struct {
		VariantID string `json:"variant_id"`
		BranchID  string `json:"branch_id"`
		Delta     int    `json:"delta"`
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	variantID, ok := validate.ID(body.VariantID)
	if !ok {
		return badRequest(c, "missing variant_id")
	}

	st, err := h.Inv.Adjust(c.UserContext(), variantID, strings.TrimSpace(body.BranchID), body.Delta, body.Reason)
	if err != nil {
		return fail(c, "stock_adjust", err)
	}
	return c.JSON(view(st))
}

// History lists the adjustment trail for one stock row, newest first.
func (h *StockHandler) History(c *fiber.Ctx) error {
	variantID, ok := validate.ID(c.Query("variantId"))
	if !ok {
		return badRequest(c, "missing variantId")
	}
	branchID := strings.TrimSpace(c.Query("branchId"))
	limit := validate.Limit(c.Query("limit"), 50)

	rows, err := h.Inv.History(c.UserContext(), variantID, branchID, limit)
	if err != nil {
		return fail(c, "stock_history", err)
	}
	return c.JSON(fiber.Map{"adjustments": rows})
}
