package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/ledger"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store/sqlstore"
)

func memdb(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	s.DB().MustExec(`INSERT INTO branches(id,tenant_id,name) VALUES ('b1','t1','Main')`)
	s.DB().MustExec(`INSERT INTO variants(id,tenant_id,product,name,sku,price,active)
		VALUES ('v1','t1','Tee','Tee M','TEE-M',1000,1)`)
	return s
}

var key = domain.StockKey{TenantID: "t1", VariantID: "v1", BranchID: "b1"}

func credit(t *testing.T, s store.Store, l *ledger.Ledger, qty int) {
	t.Helper()
	err := s.InTx(context.Background(), func(tx store.Tx) error {
		_, err := l.Credit(context.Background(), tx, key, qty, "restock", "tester")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestLedger_CreditThenDebit(t *testing.T) {
	s := memdb(t)
	l := ledger.New(s)
	ctx := context.Background()

	credit(t, s, l, 10)

	var after int
	err := s.InTx(ctx, func(tx store.Tx) error {
		var err error
		after, err = l.Debit(ctx, tx, key, 4, "sale test", "tester")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if after != 6 {
		t.Fatalf("want qty=6, got %d", after)
	}

	st, err := l.Read(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if st.Quantity != 6 {
		t.Fatalf("want stored qty=6, got %d", st.Quantity)
	}
}

func TestLedger_DebitInsufficient(t *testing.T) {
	s := memdb(t)
	l := ledger.New(s)
	ctx := context.Background()

	credit(t, s, l, 2)

	err := s.InTx(ctx, func(tx store.Tx) error {
		_, err := l.Debit(ctx, tx, key, 5, "sale test", "tester")
		return err
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}

	st, err := l.Read(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if st.Quantity != 2 {
		t.Fatalf("failed debit must not change stock, got %d", st.Quantity)
	}
}

func TestLedger_RejectsNonPositiveQty(t *testing.T) {
	s := memdb(t)
	l := ledger.New(s)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx store.Tx) error {
		_, err := l.Debit(ctx, tx, key, 0, "noop", "tester")
		return err
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation for zero debit, got %v", err)
	}
	err = s.InTx(ctx, func(tx store.Tx) error {
		_, err := l.Adjust(ctx, tx, key, 0, "noop", "tester")
		return err
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation for zero adjust, got %v", err)
	}
}

func TestLedger_HistoryReplaysToQuantity(t *testing.T) {
	s := memdb(t)
	l := ledger.New(s)
	ctx := context.Background()

	deltas := []int{10, -3, 5, -1, -4}
	for _, d := range deltas {
		err := s.InTx(ctx, func(tx store.Tx) error {
			var err error
			if d > 0 {
				_, err = l.Credit(ctx, tx, key, d, "restock", "tester")
			} else {
				_, err = l.Debit(ctx, tx, key, -d, "sale test", "tester")
			}
			return err
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	hist, err := l.History(ctx, key, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != len(deltas) {
		t.Fatalf("want %d entries, got %d", len(deltas), len(hist))
	}
	sum := 0
	for _, a := range hist {
		sum += a.Delta
	}
	st, err := l.Read(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if sum != st.Quantity {
		t.Fatalf("replayed sum %d != stored quantity %d", sum, st.Quantity)
	}
}

// Twenty workers race to debit 3 from a stock of 30. Exactly ten can win;
// the rest must fail without driving the quantity negative.
func TestLedger_ConcurrentDebits(t *testing.T) {
	s := memdb(t)
	l := ledger.New(s)
	ctx := context.Background()

	credit(t, s, l, 30)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.InTx(ctx, func(tx store.Tx) error {
				_, err := l.Debit(ctx, tx, key, 3, "sale race", "tester")
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)

	won, lost := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, domain.ErrInsufficientStock):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 10 || lost != 10 {
		t.Fatalf("want 10 wins and 10 losses, got %d/%d", won, lost)
	}

	st, err := l.Read(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if st.Quantity != 0 {
		t.Fatalf("want qty=0 after race, got %d", st.Quantity)
	}
}
