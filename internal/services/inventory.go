package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/events"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/ledger"
	applog "github.com/ziqrishahab/PelarisAPI-sub001/internal/log"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
)

// Inventory exposes the manual stock surface: corrections through the
// ledger and the display reads (current rows, adjustment history).
type Inventory struct {
	store  store.Store
	ledger *ledger.Ledger
	pub    events.Publisher
}

func NewInventory(s store.Store, l *ledger.Ledger, pub events.Publisher) *Inventory {
	return &Inventory{store: s, ledger: l, pub: pub}
}

// Adjust applies a signed manual correction in its own unit.
func (s *Inventory) Adjust(ctx context.Context, variantID, branchID string, delta int, reason string) (domain.Stock, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.Stock{}, err
	}
	if branchID == "" {
		branchID = actor.BranchID
	}
	key := domain.StockKey{TenantID: actor.TenantID, VariantID: variantID, BranchID: branchID}

	var qty int
	err = s.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetVariant(ctx, actor.TenantID, variantID); err != nil {
			return err
		}
		if _, err := tx.GetBranch(ctx, actor.TenantID, branchID); err != nil {
			return err
		}
		qty, err = s.ledger.Adjust(ctx, tx, key, delta, reason, actor.ID)
		return err
	})
	if err != nil {
		return domain.Stock{}, err
	}

	applog.Info(nil, "stock.adjusted",
		zap.String("variant_id", variantID),
		zap.String("branch_id", branchID),
		zap.Int("delta", delta),
	)
	publish(ctx, s.pub, events.New(events.TypeStockChanged, actor.TenantID, stockChangedPayload{
		VariantID: variantID, BranchID: branchID, Quantity: qty, Delta: delta, Reason: reason,
	}))
	return s.store.GetStock(ctx, key)
}

func (s *Inventory) Read(ctx context.Context, variantID, branchID string) (domain.Stock, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.Stock{}, err
	}
	if branchID == "" {
		branchID = actor.BranchID
	}
	return s.ledger.Read(ctx, domain.StockKey{TenantID: actor.TenantID, VariantID: variantID, BranchID: branchID})
}

func (s *Inventory) List(ctx context.Context, branchID string) ([]domain.Stock, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if branchID == "" {
		branchID = actor.BranchID
	}
	return s.store.ListStock(ctx, actor.TenantID, branchID)
}

func (s *Inventory) History(ctx context.Context, variantID, branchID string, limit int) ([]domain.StockAdjustment, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if branchID == "" {
		branchID = actor.BranchID
	}
	return s.ledger.History(ctx, domain.StockKey{TenantID: actor.TenantID, VariantID: variantID, BranchID: branchID}, limit)
}
