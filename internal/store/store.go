// Package store defines the persistence ports the engine works against.
// Two implementations exist: sqlstore (sqlx + sqlite) and memstore (maps,
// used by dev mode and unit tests). Workflows receive a Store, never a
// database handle, so the whole engine tests without a real database.
package store

import (
	"context"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
)

// Store is the root port. Reads outside InTx are display reads and carry no
// consistency guarantees; every mutation goes through an InTx unit.
type Store interface {
	// InTx runs fn as one atomic unit. fn returning an error aborts the whole
	// unit: no partial application is ever observable. Mutations on the same
	// stock key serialize; disjoint keys proceed in parallel as far as the
	// backend allows.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	GetStock(ctx context.Context, key domain.StockKey) (domain.Stock, error)
	ListStock(ctx context.Context, tenantID, branchID string) ([]domain.Stock, error)
	ListAdjustments(ctx context.Context, key domain.StockKey, limit int) ([]domain.StockAdjustment, error)

	GetVariant(ctx context.Context, tenantID, variantID string) (domain.Variant, error)
	GetBranch(ctx context.Context, tenantID, branchID string) (domain.Branch, error)
	GetTransaction(ctx context.Context, tenantID, id string) (domain.Transaction, error)
	GetTransfer(ctx context.Context, tenantID, id string) (domain.StockTransfer, error)
	GetReturn(ctx context.Context, tenantID, id string) (domain.Return, error)

	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	Close() error
}

// Tx is the set of operations available inside one atomic unit.
type Tx interface {
	// AddStockQty applies delta to the stock row for key and returns the new
	// quantity. A negative delta that would drive the quantity below zero
	// fails with domain.ErrInsufficientStock and changes nothing. A positive
	// delta creates the row if the variant has never held stock at the branch.
	// The row is held exclusively until the unit commits or aborts.
	AddStockQty(ctx context.Context, key domain.StockKey, delta int) (int, error)

	// AppendAdjustment records one ledger entry. Every AddStockQty call is
	// paired with exactly one adjustment in the same unit.
	AppendAdjustment(ctx context.Context, adj domain.StockAdjustment) error

	GetVariant(ctx context.Context, tenantID, variantID string) (domain.Variant, error)
	GetBranch(ctx context.Context, tenantID, branchID string) (domain.Branch, error)

	InsertTransaction(ctx context.Context, t domain.Transaction) error
	GetTransaction(ctx context.Context, tenantID, id string) (domain.Transaction, error)
	SetTransactionStatus(ctx context.Context, tenantID, id, status string) error
	InsertDiscrepancy(ctx context.Context, d domain.PriceDiscrepancy) error

	InsertTransfer(ctx context.Context, t domain.StockTransfer) error
	GetTransfer(ctx context.Context, tenantID, id string) (domain.StockTransfer, error)
	SetTransferStatus(ctx context.Context, tenantID, id, status string) error

	InsertReturn(ctx context.Context, r domain.Return) error
	GetReturn(ctx context.Context, tenantID, id string) (domain.Return, error)
	SetReturnStatus(ctx context.Context, tenantID, id, status string) error

	// SumReturned is the per-variant quantity already consumed by all
	// non-rejected returns of one transaction.
	SumReturned(ctx context.Context, tenantID, transactionID, variantID string) (int, error)

	InsertRefund(ctx context.Context, r domain.Refund) error
}
