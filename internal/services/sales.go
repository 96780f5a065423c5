package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/events"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/ledger"
	applog "github.com/ziqrishahab/PelarisAPI-sub001/internal/log"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
)

// amountEpsilon absorbs float arithmetic noise when checking that split
// payment amounts sum to the total.
const amountEpsilon = 0.005

type CartItem struct {
	VariantID string  `json:"variant_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type SaleInput struct {
	BranchID           string     `json:"branch_id"`
	Items              []CartItem `json:"items"`
	Discount           float64    `json:"discount"`
	Tax                float64    `json:"tax"`
	PaymentMethod      string     `json:"payment_method"`
	PaymentAmount      float64    `json:"payment_amount"`
	SplitPaymentMethod string     `json:"split_payment_method"`
	SplitPaymentAmount float64    `json:"split_payment_amount"`
}

// Sales turns a cart into a committed transaction: validate, debit stock
// item by item through the ledger, record price discrepancies, persist the
// transaction, all inside one atomic unit. Any failure leaves zero side
// effects.
type Sales struct {
	store  store.Store
	ledger *ledger.Ledger
	pub    events.Publisher
}

func NewSales(s store.Store, l *ledger.Ledger, pub events.Publisher) *Sales {
	return &Sales{store: s, ledger: l, pub: pub}
}

func (s *Sales) Create(ctx context.Context, in SaleInput) (domain.Transaction, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	if in.BranchID == "" {
		in.BranchID = actor.BranchID
	}

	if len(in.Items) == 0 {
		return domain.Transaction{}, fmt.Errorf("cart is empty: %w", domain.ErrValidation)
	}
	subtotal := 0.0
	seen := make(map[string]bool, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return domain.Transaction{}, fmt.Errorf("quantity for %s must be positive: %w", it.VariantID, domain.ErrValidation)
		}
		if it.UnitPrice < 0 {
			return domain.Transaction{}, fmt.Errorf("price for %s must not be negative: %w", it.VariantID, domain.ErrValidation)
		}
		// One line per variant; duplicates would also collide on the
		// transaction_items key.
		if seen[it.VariantID] {
			return domain.Transaction{}, fmt.Errorf("variant %s listed more than once: %w", it.VariantID, domain.ErrValidation)
		}
		seen[it.VariantID] = true
		subtotal += float64(it.Quantity) * it.UnitPrice
	}
	if in.Discount < 0 || in.Tax < 0 {
		return domain.Transaction{}, fmt.Errorf("discount and tax must not be negative: %w", domain.ErrValidation)
	}
	if in.Discount > subtotal {
		return domain.Transaction{}, fmt.Errorf("discount exceeds subtotal: %w", domain.ErrValidation)
	}
	total := subtotal - in.Discount + in.Tax

	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return domain.Transaction{}, fmt.Errorf("unknown payment method %q: %w", in.PaymentMethod, domain.ErrValidation)
	}
	if in.SplitPaymentMethod != "" {
		if !domain.ValidPaymentMethod(in.SplitPaymentMethod) {
			return domain.Transaction{}, fmt.Errorf("unknown payment method %q: %w", in.SplitPaymentMethod, domain.ErrValidation)
		}
		if in.SplitPaymentMethod == in.PaymentMethod {
			return domain.Transaction{}, fmt.Errorf("split payment methods must differ: %w", domain.ErrValidation)
		}
		if math.Abs(in.PaymentAmount+in.SplitPaymentAmount-total) > amountEpsilon {
			return domain.Transaction{}, fmt.Errorf("split payment amounts must sum to total: %w", domain.ErrValidation)
		}
	} else {
		// Single payment settles the whole total.
		in.PaymentAmount = total
		in.SplitPaymentAmount = 0
	}

	tr := domain.Transaction{
		ID:                 uuid.NewString(),
		TenantID:           actor.TenantID,
		BranchID:           in.BranchID,
		Discount:           in.Discount,
		Tax:                in.Tax,
		Total:              total,
		PaymentMethod:      in.PaymentMethod,
		PaymentAmount:      in.PaymentAmount,
		SplitPaymentMethod: in.SplitPaymentMethod,
		SplitPaymentAmount: in.SplitPaymentAmount,
		Status:             domain.TxStatusCompleted,
		CashierID:          actor.ID,
		CreatedAt:          time.Now().UTC(),
	}

	var stockChanges []stockChangedPayload
	err = s.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetBranch(ctx, actor.TenantID, in.BranchID); err != nil {
			return err
		}
		for _, it := range in.Items {
			variant, err := tx.GetVariant(ctx, actor.TenantID, it.VariantID)
			if err != nil {
				return err
			}
			key := domain.StockKey{TenantID: actor.TenantID, VariantID: it.VariantID, BranchID: in.BranchID}
			qty, err := s.ledger.Debit(ctx, tx, key, it.Quantity, "sale "+tr.ID, actor.ID)
			if err != nil {
				// First insufficiency aborts the whole unit, earlier
				// debits included.
				return err
			}
			stockChanges = append(stockChanges, stockChangedPayload{
				VariantID: it.VariantID, BranchID: in.BranchID,
				Quantity: qty, Delta: -it.Quantity, Reason: "sale",
			})

			if d, ok := DetectPriceDiscrepancy(variant.Price, it.UnitPrice); ok {
				d.ID = uuid.NewString()
				d.TenantID = actor.TenantID
				d.TransactionID = tr.ID
				d.VariantID = it.VariantID
				d.CreatedAt = tr.CreatedAt
				if err := tx.InsertDiscrepancy(ctx, d); err != nil {
					return err
				}
			}

			tr.Items = append(tr.Items, domain.TransactionItem{
				TransactionID: tr.ID,
				VariantID:     it.VariantID,
				Quantity:      it.Quantity,
				UnitPrice:     it.UnitPrice,
			})
		}
		return tx.InsertTransaction(ctx, tr)
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	applog.Info(nil, "transaction.created",
		zap.String("transaction_id", tr.ID),
		zap.String("branch_id", tr.BranchID),
		zap.Float64("total", tr.Total),
	)
	publish(ctx, s.pub, events.New(events.TypeTransactionCreated, tr.TenantID, tr))
	for _, ch := range stockChanges {
		publish(ctx, s.pub, events.New(events.TypeStockChanged, tr.TenantID, ch))
	}
	return tr, nil
}

// Cancel flips a completed transaction to CANCELLED. Stock history is not
// rewritten; compensation, when wanted, is a manual adjustment.
func (s *Sales) Cancel(ctx context.Context, id string) (domain.Transaction, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	var tr domain.Transaction
	err = s.store.InTx(ctx, func(tx store.Tx) error {
		tr, err = tx.GetTransaction(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if tr.Status != domain.TxStatusCompleted {
			return fmt.Errorf("transaction %s is %s: %w", id, tr.Status, domain.ErrConflict)
		}
		tr.Status = domain.TxStatusCancelled
		return tx.SetTransactionStatus(ctx, actor.TenantID, id, domain.TxStatusCancelled)
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	applog.Info(nil, "transaction.cancelled", zap.String("transaction_id", id))
	return tr, nil
}

func (s *Sales) Get(ctx context.Context, id string) (domain.Transaction, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	return s.store.GetTransaction(ctx, actor.TenantID, id)
}
