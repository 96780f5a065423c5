package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/events"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/ledger"
	applog "github.com/ziqrishahab/PelarisAPI-sub001/internal/log"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
)

// Transfers moves stock between branches through a PENDING → APPROVED /
// REJECTED state machine. Source stock is checked when the decision is
// made, not when the request was filed: sales keep happening at the source
// branch while a manager sits on the request.
type Transfers struct {
	store  store.Store
	ledger *ledger.Ledger
	pub    events.Publisher
}

func NewTransfers(s store.Store, l *ledger.Ledger, pub events.Publisher) *Transfers {
	return &Transfers{store: s, ledger: l, pub: pub}
}

func (t *Transfers) Request(ctx context.Context, variantID, fromBranchID, toBranchID string, qty int) (domain.StockTransfer, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.StockTransfer{}, err
	}
	if qty <= 0 {
		return domain.StockTransfer{}, fmt.Errorf("transfer qty must be positive: %w", domain.ErrValidation)
	}
	if fromBranchID == toBranchID {
		return domain.StockTransfer{}, fmt.Errorf("transfer within one branch: %w", domain.ErrConflict)
	}

	tr := domain.StockTransfer{
		ID:           uuid.NewString(),
		TenantID:     actor.TenantID,
		VariantID:    variantID,
		FromBranchID: fromBranchID,
		ToBranchID:   toBranchID,
		Quantity:     qty,
		Status:       domain.StatusPending,
		RequestedBy:  actor.ID,
		CreatedAt:    time.Now().UTC(),
	}
	err = t.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetVariant(ctx, actor.TenantID, variantID); err != nil {
			return err
		}
		if _, err := tx.GetBranch(ctx, actor.TenantID, fromBranchID); err != nil {
			return err
		}
		if _, err := tx.GetBranch(ctx, actor.TenantID, toBranchID); err != nil {
			return err
		}
		return tx.InsertTransfer(ctx, tr)
	})
	if err != nil {
		return domain.StockTransfer{}, err
	}
	applog.Info(nil, "transfer.requested", zap.String("transfer_id", tr.ID), zap.Int("qty", qty))
	return tr, nil
}

// Approve re-validates source stock and, if sufficient, moves the quantity
// in one unit: debit source, credit destination, mark APPROVED. When stock
// has been consumed in the interim the unit aborts, the transfer stays
// PENDING and the caller may retry after restock.
func (t *Transfers) Approve(ctx context.Context, id string) (domain.StockTransfer, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.StockTransfer{}, err
	}
	var (
		tr      domain.StockTransfer
		fromQty int
		toQty   int
	)
	err = t.store.InTx(ctx, func(tx store.Tx) error {
		tr, err = tx.GetTransfer(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if tr.Status != domain.StatusPending {
			return fmt.Errorf("transfer %s is %s: %w", id, tr.Status, domain.ErrConflict)
		}
		from := domain.StockKey{TenantID: tr.TenantID, VariantID: tr.VariantID, BranchID: tr.FromBranchID}
		to := domain.StockKey{TenantID: tr.TenantID, VariantID: tr.VariantID, BranchID: tr.ToBranchID}
		reason := "transfer " + tr.ID

		fromQty, err = t.ledger.Debit(ctx, tx, from, tr.Quantity, reason, actor.ID)
		if err != nil {
			return err
		}
		toQty, err = t.ledger.Credit(ctx, tx, to, tr.Quantity, reason, actor.ID)
		if err != nil {
			return err
		}
		return tx.SetTransferStatus(ctx, actor.TenantID, id, domain.StatusApproved)
	})
	if err != nil {
		return domain.StockTransfer{}, err
	}

	now := time.Now().UTC()
	tr.Status = domain.StatusApproved
	tr.DecidedAt = &now
	applog.Info(nil, "transfer.approved", zap.String("transfer_id", id))
	publish(ctx, t.pub, events.New(events.TypeTransferDecided, tr.TenantID, tr))
	publish(ctx, t.pub, events.New(events.TypeStockChanged, tr.TenantID, stockChangedPayload{
		VariantID: tr.VariantID, BranchID: tr.FromBranchID, Quantity: fromQty, Delta: -tr.Quantity, Reason: "transfer",
	}))
	publish(ctx, t.pub, events.New(events.TypeStockChanged, tr.TenantID, stockChangedPayload{
		VariantID: tr.VariantID, BranchID: tr.ToBranchID, Quantity: toQty, Delta: tr.Quantity, Reason: "transfer",
	}))
	return tr, nil
}

// Reject closes a pending transfer without touching stock.
func (t *Transfers) Reject(ctx context.Context, id string) (domain.StockTransfer, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.StockTransfer{}, err
	}
	var tr domain.StockTransfer
	err = t.store.InTx(ctx, func(tx store.Tx) error {
		tr, err = tx.GetTransfer(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if tr.Status != domain.StatusPending {
			return fmt.Errorf("transfer %s is %s: %w", id, tr.Status, domain.ErrConflict)
		}
		return tx.SetTransferStatus(ctx, actor.TenantID, id, domain.StatusRejected)
	})
	if err != nil {
		return domain.StockTransfer{}, err
	}

	now := time.Now().UTC()
	tr.Status = domain.StatusRejected
	tr.DecidedAt = &now
	applog.Info(nil, "transfer.rejected", zap.String("transfer_id", id))
	publish(ctx, t.pub, events.New(events.TypeTransferDecided, tr.TenantID, tr))
	return tr, nil
}

func (t *Transfers) Get(ctx context.Context, id string) (domain.StockTransfer, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.StockTransfer{}, err
	}
	return t.store.GetTransfer(ctx, actor.TenantID, id)
}
