// Package ledger owns every mutation of stock quantities. All other
// components request debits and credits through it; none of them write
// quantity directly. Each mutation pairs the quantity change with one
// append-only adjustment entry in the same atomic unit, so the current
// quantity is always reconstructable by replaying the log.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
)

type Ledger struct {
	store store.Store
}

func New(s store.Store) *Ledger { return &Ledger{store: s} }

// Debit removes qty from the key's stock inside the caller's unit. Fails
// with domain.ErrInsufficientStock when fewer than qty are on hand; nothing
// is written in that case.
func (l *Ledger) Debit(ctx context.Context, tx store.Tx, key domain.StockKey, qty int, reason, actor string) (int, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("debit qty must be positive: %w", domain.ErrValidation)
	}
	return l.apply(ctx, tx, key, -qty, reason, actor)
}

// Credit adds qty to the key's stock inside the caller's unit. Never fails
// on a valid positive qty; the first credit for a key creates its row.
func (l *Ledger) Credit(ctx context.Context, tx store.Tx, key domain.StockKey, qty int, reason, actor string) (int, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("credit qty must be positive: %w", domain.ErrValidation)
	}
	return l.apply(ctx, tx, key, qty, reason, actor)
}

// Adjust is the generalized manual correction, composable into the
// caller's unit like Debit and Credit. A delta that would drive the
// quantity negative fails with ErrInsufficientStock.
func (l *Ledger) Adjust(ctx context.Context, tx store.Tx, key domain.StockKey, delta int, reason, actor string) (int, error) {
	if delta == 0 {
		return 0, fmt.Errorf("adjustment delta must be non-zero: %w", domain.ErrValidation)
	}
	return l.apply(ctx, tx, key, delta, reason, actor)
}

// Read returns the current row outside any unit; display only.
func (l *Ledger) Read(ctx context.Context, key domain.StockKey) (domain.Stock, error) {
	return l.store.GetStock(ctx, key)
}

func (l *Ledger) apply(ctx context.Context, tx store.Tx, key domain.StockKey, delta int, reason, actor string) (int, error) {
	qty, err := tx.AddStockQty(ctx, key, delta)
	if err != nil {
		return 0, err
	}
	err = tx.AppendAdjustment(ctx, domain.StockAdjustment{
		ID:        uuid.NewString(),
		TenantID:  key.TenantID,
		VariantID: key.VariantID,
		BranchID:  key.BranchID,
		Delta:     delta,
		Reason:    reason,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// History lists the newest adjustment entries for a key.
func (l *Ledger) History(ctx context.Context, key domain.StockKey, limit int) ([]domain.StockAdjustment, error) {
	return l.store.ListAdjustments(ctx, key, limit)
}
