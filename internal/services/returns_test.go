package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/ledger"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/services"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store/memstore"
)

func newReturns(st *memstore.Store, policy domain.ReturnPolicy) *services.Returns {
	return services.NewReturns(st, ledger.New(st), nil, services.StaticPolicy{Policy: policy})
}

// sell runs a real sale so the returns under test reverse an actual
// committed transaction.
func sell(t *testing.T, st *memstore.Store, ctx context.Context, variantID string, qty int, price float64) domain.Transaction {
	t.Helper()
	tr, err := newSales(st).Create(ctx, services.SaleInput{
		Items:         []services.CartItem{{VariantID: variantID, Quantity: qty, UnitPrice: price}},
		PaymentMethod: domain.PaymentCash,
	})
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

var reviewed = domain.ReturnPolicy{RequiresApproval: true, WindowDays: 7}

func TestReturns_ApproveRestocksAndRefunds(t *testing.T) {
	st, ctx := fixture(t)
	svc := newReturns(st, reviewed)

	tr := sell(t, st, ctx, "v1", 5, 1000) // stock 10 -> 5

	ret, err := svc.Request(ctx, tr.ID, []services.ReturnItemInput{{VariantID: "v1", Quantity: 3}}, "defect", domain.PaymentCash)
	if err != nil {
		t.Fatal(err)
	}
	if ret.Status != domain.StatusPending {
		t.Fatalf("want PENDING, got %s", ret.Status)
	}
	if q := stockQty(t, st, "v1", "b1"); q != 5 {
		t.Fatalf("request must not restock, got %d", q)
	}

	ret, err = svc.Approve(ctx, ret.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ret.Status != domain.StatusApproved || ret.DecidedAt == nil {
		t.Fatalf("bad decided return: %+v", ret)
	}
	if q := stockQty(t, st, "v1", "b1"); q != 8 {
		t.Fatalf("want stock=8 after restock, got %d", q)
	}

	refunds := st.Refunds()
	if len(refunds) != 1 {
		t.Fatalf("want 1 refund, got %d", len(refunds))
	}
	if refunds[0].Amount != 3000 || refunds[0].Method != domain.PaymentCash {
		t.Fatalf("bad refund: %+v", refunds[0])
	}
}

// Returned quantities accumulate across requests; the sold quantity is a
// hard ceiling.
func TestReturns_OverReturnGuard(t *testing.T) {
	st, ctx := fixture(t)
	svc := newReturns(st, reviewed)

	tr := sell(t, st, ctx, "v1", 5, 1000)

	ret, err := svc.Request(ctx, tr.ID, []services.ReturnItemInput{{VariantID: "v1", Quantity: 3}}, "defect", domain.PaymentCash)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Approve(ctx, ret.ID); err != nil {
		t.Fatal(err)
	}

	_, err = svc.Request(ctx, tr.ID, []services.ReturnItemInput{{VariantID: "v1", Quantity: 3}}, "changed mind", domain.PaymentCash)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation for over-return, got %v", err)
	}

	// The two still returnable go through.
	if _, err := svc.Request(ctx, tr.ID, []services.ReturnItemInput{{VariantID: "v1", Quantity: 2}}, "changed mind", domain.PaymentCash); err != nil {
		t.Fatal(err)
	}
}

// One request listing the same variant on two lines must not slip past the
// over-return ceiling: each line would otherwise be checked against the same
// already-returned baseline.
func TestReturns_DuplicateVariantLinesRejected(t *testing.T) {
	st, ctx := fixture(t)
	// Auto-approve is the worst case: a slipped request would credit stock
	// back in the same call.
	svc := newReturns(st, domain.ReturnPolicy{RequiresApproval: false, WindowDays: 7})

	tr := sell(t, st, ctx, "v1", 5, 1000) // stock 10 -> 5

	_, err := svc.Request(ctx, tr.ID, []services.ReturnItemInput{
		{VariantID: "v1", Quantity: 3},
		{VariantID: "v1", Quantity: 3},
	}, "defect", domain.PaymentCash)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation for duplicate lines, got %v", err)
	}
	if q := stockQty(t, st, "v1", "b1"); q != 5 {
		t.Fatalf("rejected request must not credit stock, got %d", q)
	}
	if n := len(st.Refunds()); n != 0 {
		t.Fatalf("rejected request must not refund, got %d", n)
	}
}

// A rejected return frees its quantities for a later request.
func TestReturns_RejectedDoesNotCount(t *testing.T) {
	st, ctx := fixture(t)
	svc := newReturns(st, reviewed)

	tr := sell(t, st, ctx, "v1", 5, 1000)

	ret, err := svc.Request(ctx, tr.ID, []services.ReturnItemInput{{VariantID: "v1", Quantity: 5}}, "defect", domain.PaymentCash)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Reject(ctx, ret.ID); err != nil {
		t.Fatal(err)
	}
	if q := stockQty(t, st, "v1", "b1"); q != 5 {
		t.Fatalf("reject must not restock, got %d", q)
	}

	if _, err := svc.Request(ctx, tr.ID, []services.ReturnItemInput{{VariantID: "v1", Quantity: 5}}, "defect", domain.PaymentCash); err != nil {
		t.Fatal(err)
	}
}

func TestReturns_AutoApprove(t *testing.T) {
	st, ctx := fixture(t)
	svc := newReturns(st, domain.ReturnPolicy{RequiresApproval: false, WindowDays: 7})

	tr := sell(t, st, ctx, "v1", 4, 1000)

	ret, err := svc.Request(ctx, tr.ID, []services.ReturnItemInput{{VariantID: "v1", Quantity: 2}}, "defect", domain.PaymentQRIS)
	if err != nil {
		t.Fatal(err)
	}
	if ret.Status != domain.StatusApproved || ret.DecidedAt == nil {
		t.Fatalf("want auto-approved, got %+v", ret)
	}
	if q := stockQty(t, st, "v1", "b1"); q != 8 {
		t.Fatalf("want stock=8, got %d", q)
	}
	refunds := st.Refunds()
	if len(refunds) != 1 || refunds[0].Amount != 2000 || refunds[0].Method != domain.PaymentQRIS {
		t.Fatalf("bad refunds: %+v", refunds)
	}
}

func TestReturns_WindowExpired(t *testing.T) {
	st, ctx := fixture(t)
	svc := newReturns(st, reviewed)

	// A transaction committed a month ago, well past the 7-day window.
	old := domain.Transaction{
		ID:            uuid.NewString(),
		TenantID:      "t1",
		BranchID:      "b1",
		Items:         []domain.TransactionItem{{VariantID: "v1", Quantity: 2, UnitPrice: 1000}},
		Total:         2000,
		PaymentMethod: domain.PaymentCash,
		PaymentAmount: 2000,
		Status:        domain.TxStatusCompleted,
		CashierID:     "u1",
		CreatedAt:     time.Now().UTC().AddDate(0, -1, 0),
	}
	if err := st.InTx(ctx, func(tx store.Tx) error {
		return tx.InsertTransaction(ctx, old)
	}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Request(ctx, old.ID, []services.ReturnItemInput{{VariantID: "v1", Quantity: 1}}, "late", domain.PaymentCash)
	if !errors.Is(err, domain.ErrDeadlineExceeded) {
		t.Fatalf("want ErrDeadlineExceeded, got %v", err)
	}
}

func TestReturns_VariantNotInTransaction(t *testing.T) {
	st, ctx := fixture(t)
	svc := newReturns(st, reviewed)

	tr := sell(t, st, ctx, "v1", 2, 1000)

	_, err := svc.Request(ctx, tr.ID, []services.ReturnItemInput{{VariantID: "v2", Quantity: 1}}, "wrong item", domain.PaymentCash)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestReturns_CancelledTransactionRefused(t *testing.T) {
	st, ctx := fixture(t)
	svc := newReturns(st, reviewed)

	tr := sell(t, st, ctx, "v1", 2, 1000)
	if _, err := newSales(st).Cancel(ctx, tr.ID); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Request(ctx, tr.ID, []services.ReturnItemInput{{VariantID: "v1", Quantity: 1}}, "late", domain.PaymentCash)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}
