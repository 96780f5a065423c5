package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
)

// sqlTx adapts one *sqlx.Tx to the store.Tx port. The queries are shared
// with the Store read path through the sqlx.ExtContext helpers below.
type sqlTx struct {
	q *sqlx.Tx
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf(format+": %w", append(args, domain.ErrNotFound)...)
	}
	return err
}

func (t *sqlTx) AddStockQty(ctx context.Context, key domain.StockKey, delta int) (int, error) {
	return addStockQty(ctx, t.q, key, delta)
}

func addStockQty(ctx context.Context, q sqlx.ExtContext, key domain.StockKey, delta int) (int, error) {
	now := time.Now().UTC()
	if delta >= 0 {
		// First credit for a key creates the row; it is never deleted after.
		_, err := q.ExecContext(ctx, `
			INSERT INTO stock(tenant_id, variant_id, branch_id, quantity, min_stock, updated_at)
			VALUES(?, ?, ?, ?, 0, ?)
			ON CONFLICT(tenant_id, variant_id, branch_id)
			DO UPDATE SET quantity = quantity + excluded.quantity, updated_at = excluded.updated_at
		`, key.TenantID, key.VariantID, key.BranchID, delta, now)
		if err != nil {
			return 0, err
		}
	} else {
		// Conditional update: the guard and the write are one statement, so a
		// concurrent debit can never see a stale baseline. A missing row
		// counts as zero on hand.
		res, err := q.ExecContext(ctx, `
			UPDATE stock SET quantity = quantity + ?, updated_at = ?
			WHERE tenant_id = ? AND variant_id = ? AND branch_id = ? AND quantity + ? >= 0
		`, delta, now, key.TenantID, key.VariantID, key.BranchID, delta)
		if err != nil {
			return 0, err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return 0, fmt.Errorf("stock %s@%s: %w", key.VariantID, key.BranchID, domain.ErrInsufficientStock)
		}
	}

	var qty int
	err := sqlx.GetContext(ctx, q, &qty, `
		SELECT quantity FROM stock
		WHERE tenant_id = ? AND variant_id = ? AND branch_id = ?
	`, key.TenantID, key.VariantID, key.BranchID)
	return qty, err
}

func (t *sqlTx) AppendAdjustment(ctx context.Context, adj domain.StockAdjustment) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO stock_adjustments(id, tenant_id, variant_id, branch_id, delta, reason, actor, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, adj.ID, adj.TenantID, adj.VariantID, adj.BranchID, adj.Delta, adj.Reason, adj.Actor, adj.CreatedAt)
	return err
}

func getStock(ctx context.Context, q sqlx.ExtContext, key domain.StockKey) (domain.Stock, error) {
	var s domain.Stock
	err := sqlx.GetContext(ctx, q, &s, `
		SELECT * FROM stock
		WHERE tenant_id = ? AND variant_id = ? AND branch_id = ?
	`, key.TenantID, key.VariantID, key.BranchID)
	if err != nil {
		return domain.Stock{}, notFound(err, "stock %s@%s", key.VariantID, key.BranchID)
	}
	return s, nil
}

func getVariant(ctx context.Context, q sqlx.ExtContext, tenantID, variantID string) (domain.Variant, error) {
	var v domain.Variant
	err := sqlx.GetContext(ctx, q, &v, `
		SELECT * FROM variants WHERE tenant_id = ? AND id = ?
	`, tenantID, variantID)
	if err != nil {
		return domain.Variant{}, notFound(err, "variant %s", variantID)
	}
	return v, nil
}

func getBranch(ctx context.Context, q sqlx.ExtContext, tenantID, branchID string) (domain.Branch, error) {
	var b domain.Branch
	err := sqlx.GetContext(ctx, q, &b, `
		SELECT * FROM branches WHERE tenant_id = ? AND id = ?
	`, tenantID, branchID)
	if err != nil {
		return domain.Branch{}, notFound(err, "branch %s", branchID)
	}
	return b, nil
}

func (t *sqlTx) GetVariant(ctx context.Context, tenantID, variantID string) (domain.Variant, error) {
	return getVariant(ctx, t.q, tenantID, variantID)
}

func (t *sqlTx) GetBranch(ctx context.Context, tenantID, branchID string) (domain.Branch, error) {
	return getBranch(ctx, t.q, tenantID, branchID)
}

func (t *sqlTx) InsertTransaction(ctx context.Context, tr domain.Transaction) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO transactions(id, tenant_id, branch_id, discount, tax, total,
			payment_method, payment_amount, split_payment_method, split_payment_amount,
			status, cashier_id, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tr.ID, tr.TenantID, tr.BranchID, tr.Discount, tr.Tax, tr.Total,
		tr.PaymentMethod, tr.PaymentAmount, tr.SplitPaymentMethod, tr.SplitPaymentAmount,
		tr.Status, tr.CashierID, tr.CreatedAt)
	if err != nil {
		return err
	}
	for _, it := range tr.Items {
		if _, err := t.q.ExecContext(ctx, `
			INSERT INTO transaction_items(transaction_id, variant_id, quantity, unit_price)
			VALUES(?, ?, ?, ?)
		`, tr.ID, it.VariantID, it.Quantity, it.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

func getTransaction(ctx context.Context, q sqlx.ExtContext, tenantID, id string) (domain.Transaction, error) {
	var tr domain.Transaction
	err := sqlx.GetContext(ctx, q, &tr, `
		SELECT * FROM transactions WHERE tenant_id = ? AND id = ?
	`, tenantID, id)
	if err != nil {
		return domain.Transaction{}, notFound(err, "transaction %s", id)
	}
	if err := sqlx.SelectContext(ctx, q, &tr.Items, `
		SELECT * FROM transaction_items WHERE transaction_id = ? ORDER BY variant_id
	`, id); err != nil {
		return domain.Transaction{}, err
	}
	return tr, nil
}

func (t *sqlTx) GetTransaction(ctx context.Context, tenantID, id string) (domain.Transaction, error) {
	return getTransaction(ctx, t.q, tenantID, id)
}

func (t *sqlTx) SetTransactionStatus(ctx context.Context, tenantID, id, status string) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE transactions SET status = ? WHERE tenant_id = ? AND id = ?
	`, status, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (t *sqlTx) InsertDiscrepancy(ctx context.Context, d domain.PriceDiscrepancy) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO price_discrepancies(id, tenant_id, transaction_id, variant_id, catalog_price, sold_price, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.TenantID, d.TransactionID, d.VariantID, d.CatalogPrice, d.SoldPrice, d.CreatedAt)
	return err
}

func (t *sqlTx) InsertTransfer(ctx context.Context, tr domain.StockTransfer) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO stock_transfers(id, tenant_id, variant_id, from_branch_id, to_branch_id,
			quantity, status, requested_by, created_at, decided_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tr.ID, tr.TenantID, tr.VariantID, tr.FromBranchID, tr.ToBranchID,
		tr.Quantity, tr.Status, tr.RequestedBy, tr.CreatedAt, tr.DecidedAt)
	return err
}

func getTransfer(ctx context.Context, q sqlx.ExtContext, tenantID, id string) (domain.StockTransfer, error) {
	var tr domain.StockTransfer
	err := sqlx.GetContext(ctx, q, &tr, `
		SELECT * FROM stock_transfers WHERE tenant_id = ? AND id = ?
	`, tenantID, id)
	if err != nil {
		return domain.StockTransfer{}, notFound(err, "transfer %s", id)
	}
	return tr, nil
}

func (t *sqlTx) GetTransfer(ctx context.Context, tenantID, id string) (domain.StockTransfer, error) {
	return getTransfer(ctx, t.q, tenantID, id)
}

func (t *sqlTx) SetTransferStatus(ctx context.Context, tenantID, id, status string) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE stock_transfers SET status = ?, decided_at = ? WHERE tenant_id = ? AND id = ?
	`, status, time.Now().UTC(), tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transfer %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (t *sqlTx) InsertReturn(ctx context.Context, r domain.Return) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO returns(id, tenant_id, transaction_id, reason, status, refund_method,
			requested_by, created_at, decided_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.TenantID, r.TransactionID, r.Reason, r.Status, r.RefundMethod,
		r.RequestedBy, r.CreatedAt, r.DecidedAt)
	if err != nil {
		return err
	}
	for _, it := range r.Items {
		if _, err := t.q.ExecContext(ctx, `
			INSERT INTO return_items(return_id, variant_id, quantity, unit_price)
			VALUES(?, ?, ?, ?)
		`, r.ID, it.VariantID, it.Quantity, it.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

func getReturn(ctx context.Context, q sqlx.ExtContext, tenantID, id string) (domain.Return, error) {
	var r domain.Return
	err := sqlx.GetContext(ctx, q, &r, `
		SELECT * FROM returns WHERE tenant_id = ? AND id = ?
	`, tenantID, id)
	if err != nil {
		return domain.Return{}, notFound(err, "return %s", id)
	}
	if err := sqlx.SelectContext(ctx, q, &r.Items, `
		SELECT * FROM return_items WHERE return_id = ? ORDER BY variant_id
	`, id); err != nil {
		return domain.Return{}, err
	}
	return r, nil
}

func (t *sqlTx) GetReturn(ctx context.Context, tenantID, id string) (domain.Return, error) {
	return getReturn(ctx, t.q, tenantID, id)
}

func (t *sqlTx) SetReturnStatus(ctx context.Context, tenantID, id, status string) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE returns SET status = ?, decided_at = ? WHERE tenant_id = ? AND id = ?
	`, status, time.Now().UTC(), tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("return %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (t *sqlTx) SumReturned(ctx context.Context, tenantID, transactionID, variantID string) (int, error) {
	var sum int
	err := sqlx.GetContext(ctx, t.q, &sum, `
		SELECT COALESCE(SUM(ri.quantity), 0)
		FROM return_items ri
		JOIN returns r ON r.id = ri.return_id
		WHERE r.tenant_id = ? AND r.transaction_id = ? AND ri.variant_id = ? AND r.status != ?
	`, tenantID, transactionID, variantID, domain.StatusRejected)
	return sum, err
}

func (t *sqlTx) InsertRefund(ctx context.Context, r domain.Refund) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO refunds(id, tenant_id, return_id, amount, method, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, r.ID, r.TenantID, r.ReturnID, r.Amount, r.Method, r.CreatedAt)
	return err
}
