package sqlstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store/sqlstore"
)

func open(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSeedIsIdempotent(t *testing.T) {
	s := open(t)
	if err := s.Seed(); err != nil {
		t.Fatal(err)
	}
	if err := s.Seed(); err != nil {
		t.Fatal(err)
	}

	var branches int
	if err := s.DB().Get(&branches, `SELECT COUNT(*) FROM branches`); err != nil {
		t.Fatal(err)
	}
	if branches != 2 {
		t.Fatalf("want 2 branches after double seed, got %d", branches)
	}

	u, err := s.GetUserByUsername(context.Background(), "kasir")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != domain.RoleCashier || u.TenantID != "tenant-demo" {
		t.Fatalf("bad seeded user: %+v", u)
	}
}

func TestAddStockQtyGuard(t *testing.T) {
	s := open(t)
	if err := s.Seed(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key := domain.StockKey{TenantID: "tenant-demo", VariantID: "var-kemeja-m", BranchID: "branch-pusat"}

	// Seeded at 12; a debit past that must fail inside the unit and leave
	// the row untouched.
	err := s.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.AddStockQty(ctx, key, -13)
		return err
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	row, err := s.GetStock(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if row.Quantity != 12 {
		t.Fatalf("want qty=12, got %d", row.Quantity)
	}

	// A positive delta on a missing row creates it.
	fresh := domain.StockKey{TenantID: "tenant-demo", VariantID: "var-kemeja-m", BranchID: "branch-cabang"}
	err = s.InTx(ctx, func(tx store.Tx) error {
		qty, err := tx.AddStockQty(ctx, fresh, 7)
		if err != nil {
			return err
		}
		if qty != 7 {
			t.Fatalf("want qty=7, got %d", qty)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	s := open(t)
	if err := s.Seed(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key := domain.StockKey{TenantID: "tenant-demo", VariantID: "var-kaos-m", BranchID: "branch-pusat"}

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.AddStockQty(ctx, key, -5); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	row, err := s.GetStock(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if row.Quantity != 40 {
		t.Fatalf("rolled-back debit must not stick, got %d", row.Quantity)
	}
}

func TestNotFoundMapping(t *testing.T) {
	s := open(t)
	ctx := context.Background()

	if _, err := s.GetVariant(ctx, "t1", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := s.GetTransaction(ctx, "t1", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByUsername(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
