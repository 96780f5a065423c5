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

type ReturnItemInput struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// Returns reverses part of a committed transaction. Requests are checked
// against the quantities still returnable and the tenant's return window;
// approval credits stock back to the transaction's branch and writes a
// refund record.
type Returns struct {
	store  store.Store
	ledger *ledger.Ledger
	pub    events.Publisher
	policy PolicyProvider
}

func NewReturns(s store.Store, l *ledger.Ledger, pub events.Publisher, policy PolicyProvider) *Returns {
	return &Returns{store: s, ledger: l, pub: pub, policy: policy}
}

func (r *Returns) Request(ctx context.Context, transactionID string, items []ReturnItemInput, reason, refundMethod string) (domain.Return, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.Return{}, err
	}
	if len(items) == 0 {
		return domain.Return{}, fmt.Errorf("no return items: %w", domain.ErrValidation)
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return domain.Return{}, fmt.Errorf("return qty for %s must be positive: %w", it.VariantID, domain.ErrValidation)
		}
		// One line per variant, or the guard below would check each line
		// against the same baseline and let the ceiling slip.
		if seen[it.VariantID] {
			return domain.Return{}, fmt.Errorf("variant %s listed more than once: %w", it.VariantID, domain.ErrValidation)
		}
		seen[it.VariantID] = true
	}
	if !domain.ValidPaymentMethod(refundMethod) {
		return domain.Return{}, fmt.Errorf("unknown refund method %q: %w", refundMethod, domain.ErrValidation)
	}

	policy, err := r.policy.ReturnPolicy(ctx, actor.TenantID)
	if err != nil {
		return domain.Return{}, err
	}

	ret := domain.Return{
		ID:            uuid.NewString(),
		TenantID:      actor.TenantID,
		TransactionID: transactionID,
		Reason:        reason,
		Status:        domain.StatusPending,
		RefundMethod:  refundMethod,
		RequestedBy:   actor.ID,
		CreatedAt:     time.Now().UTC(),
	}

	autoApproved := false
	err = r.store.InTx(ctx, func(tx store.Tx) error {
		tr, err := tx.GetTransaction(ctx, actor.TenantID, transactionID)
		if err != nil {
			return err
		}
		if tr.Status != domain.TxStatusCompleted {
			return fmt.Errorf("transaction %s is %s: %w", transactionID, tr.Status, domain.ErrConflict)
		}
		if policy.WindowDays > 0 {
			deadline := tr.CreatedAt.AddDate(0, 0, policy.WindowDays)
			if time.Now().UTC().After(deadline) {
				return fmt.Errorf("transaction %s older than %d days: %w", transactionID, policy.WindowDays, domain.ErrDeadlineExceeded)
			}
		}

		sold := make(map[string]domain.TransactionItem, len(tr.Items))
		for _, it := range tr.Items {
			sold[it.VariantID] = it
		}
		for _, it := range items {
			orig, ok := sold[it.VariantID]
			if !ok {
				return fmt.Errorf("variant %s not in transaction %s: %w", it.VariantID, transactionID, domain.ErrValidation)
			}
			already, err := tx.SumReturned(ctx, actor.TenantID, transactionID, it.VariantID)
			if err != nil {
				return err
			}
			if already+it.Quantity > orig.Quantity {
				return fmt.Errorf("over-return of %s: %d sold, %d already returned: %w",
					it.VariantID, orig.Quantity, already, domain.ErrValidation)
			}
			ret.Items = append(ret.Items, domain.ReturnItem{
				ReturnID:  ret.ID,
				VariantID: it.VariantID,
				Quantity:  it.Quantity,
				UnitPrice: orig.UnitPrice,
			})
		}

		if !policy.RequiresApproval {
			// Tenant policy waives review: approve in the same unit.
			now := time.Now().UTC()
			ret.Status = domain.StatusApproved
			ret.DecidedAt = &now
			autoApproved = true
			if err := tx.InsertReturn(ctx, ret); err != nil {
				return err
			}
			return r.settle(ctx, tx, ret, tr, actor.ID)
		}
		return tx.InsertReturn(ctx, ret)
	})
	if err != nil {
		return domain.Return{}, err
	}

	applog.Info(nil, "return.requested",
		zap.String("return_id", ret.ID),
		zap.String("transaction_id", transactionID),
		zap.Bool("auto_approved", autoApproved),
	)
	if autoApproved {
		publish(ctx, r.pub, events.New(events.TypeReturnDecided, ret.TenantID, ret))
	}
	return ret, nil
}

// Approve credits every returned item back to the transaction's branch and
// writes the refund, all in one unit.
func (r *Returns) Approve(ctx context.Context, id string) (domain.Return, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.Return{}, err
	}
	var ret domain.Return
	err = r.store.InTx(ctx, func(tx store.Tx) error {
		ret, err = tx.GetReturn(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if ret.Status != domain.StatusPending {
			return fmt.Errorf("return %s is %s: %w", id, ret.Status, domain.ErrConflict)
		}
		tr, err := tx.GetTransaction(ctx, actor.TenantID, ret.TransactionID)
		if err != nil {
			return err
		}
		if err := tx.SetReturnStatus(ctx, actor.TenantID, id, domain.StatusApproved); err != nil {
			return err
		}
		return r.settle(ctx, tx, ret, tr, actor.ID)
	})
	if err != nil {
		return domain.Return{}, err
	}

	now := time.Now().UTC()
	ret.Status = domain.StatusApproved
	ret.DecidedAt = &now
	applog.Info(nil, "return.approved", zap.String("return_id", id))
	publish(ctx, r.pub, events.New(events.TypeReturnDecided, ret.TenantID, ret))
	return ret, nil
}

// settle credits stock and records the refund for an approved return.
// Runs inside the approving unit.
func (r *Returns) settle(ctx context.Context, tx store.Tx, ret domain.Return, tr domain.Transaction, actorID string) error {
	amount := 0.0
	for _, it := range ret.Items {
		key := domain.StockKey{TenantID: ret.TenantID, VariantID: it.VariantID, BranchID: tr.BranchID}
		if _, err := r.ledger.Credit(ctx, tx, key, it.Quantity, "return "+ret.ID, actorID); err != nil {
			return err
		}
		amount += float64(it.Quantity) * it.UnitPrice
	}
	return tx.InsertRefund(ctx, domain.Refund{
		ID:        uuid.NewString(),
		TenantID:  ret.TenantID,
		ReturnID:  ret.ID,
		Amount:    amount,
		Method:    ret.RefundMethod,
		CreatedAt: time.Now().UTC(),
	})
}

// Reject closes a pending return; stock stays as it is.
func (r *Returns) Reject(ctx context.Context, id string) (domain.Return, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.Return{}, err
	}
	var ret domain.Return
	err = r.store.InTx(ctx, func(tx store.Tx) error {
		ret, err = tx.GetReturn(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if ret.Status != domain.StatusPending {
			return fmt.Errorf("return %s is %s: %w", id, ret.Status, domain.ErrConflict)
		}
		return tx.SetReturnStatus(ctx, actor.TenantID, id, domain.StatusRejected)
	})
	if err != nil {
		return domain.Return{}, err
	}

	now := time.Now().UTC()
	ret.Status = domain.StatusRejected
	ret.DecidedAt = &now
	applog.Info(nil, "return.rejected", zap.String("return_id", id))
	publish(ctx, r.pub, events.New(events.TypeReturnDecided, ret.TenantID, ret))
	return ret, nil
}

func (r *Returns) Get(ctx context.Context, id string) (domain.Return, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.Return{}, err
	}
	return r.store.GetReturn(ctx, actor.TenantID, id)
}
