package domain

import "time"

// Statuses shared by transfers and returns. PENDING is the only
// non-terminal state; APPROVED and REJECTED accept no further transitions.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	TxStatusCompleted = "COMPLETED"
	TxStatusCancelled = "CANCELLED"
)

const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
)

const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentQRIS     = "QRIS"
	PaymentTransfer = "TRANSFER"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentQRIS, PaymentTransfer:
		return true
	}
	return false
}

// StockKey identifies one stock row: a variant held at a branch, scoped to a tenant.
type StockKey struct {
	TenantID  string
	VariantID string
	BranchID  string
}

// Stock is the current on-hand quantity for one (variant, branch) pair.
// Rows are created when a variant is first assigned stock at a branch and
// never deleted, only driven to zero.
type Stock struct {
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	VariantID string    `db:"variant_id" json:"variant_id"`
	BranchID  string    `db:"branch_id" json:"branch_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	MinStock  int       `db:"min_stock" json:"min_stock"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Low reports whether the quantity has fallen to or below the minimum.
func (s Stock) Low() bool { return s.Quantity <= s.MinStock }

// StockAdjustment is one append-only ledger entry. Initial quantity plus the
// sum of all deltas for a key always equals the current Stock.Quantity.
type StockAdjustment struct {
	ID        string    `db:"id" json:"id"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	VariantID string    `db:"variant_id" json:"variant_id"`
	BranchID  string    `db:"branch_id" json:"branch_id"`
	Delta     int       `db:"delta" json:"delta"`
	Reason    string    `db:"reason" json:"reason"`
	Actor     string    `db:"actor" json:"actor"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Transaction is a committed sale. Immutable once written, except for
// cancellation, which flips the status and never rewrites stock history.
type Transaction struct {
	ID                 string            `db:"id" json:"id"`
	TenantID           string            `db:"tenant_id" json:"tenant_id"`
	BranchID           string            `db:"branch_id" json:"branch_id"`
	Items              []TransactionItem `db:"-" json:"items"`
	Discount           float64           `db:"discount" json:"discount"`
	Tax                float64           `db:"tax" json:"tax"`
	Total              float64           `db:"total" json:"total"`
	PaymentMethod      string            `db:"payment_method" json:"payment_method"`
	PaymentAmount      float64           `db:"payment_amount" json:"payment_amount"`
	SplitPaymentMethod string            `db:"split_payment_method" json:"split_payment_method,omitempty"`
	SplitPaymentAmount float64           `db:"split_payment_amount" json:"split_payment_amount,omitempty"`
	Status             string            `db:"status" json:"status"`
	CashierID          string            `db:"cashier_id" json:"cashier_id"`
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
}

type TransactionItem struct {
	TransactionID string  `db:"transaction_id" json:"-"`
	VariantID     string  `db:"variant_id" json:"variant_id"`
	Quantity      int     `db:"quantity" json:"quantity"`
	UnitPrice     float64 `db:"unit_price" json:"unit_price"`
}

// PriceDiscrepancy records a mismatch between the catalog price and the price
// actually charged. Purely informational; it never blocks a sale.
type PriceDiscrepancy struct {
	ID            string    `db:"id" json:"id"`
	TenantID      string    `db:"tenant_id" json:"tenant_id"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	VariantID     string    `db:"variant_id" json:"variant_id"`
	CatalogPrice  float64   `db:"catalog_price" json:"catalog_price"`
	SoldPrice     float64   `db:"sold_price" json:"sold_price"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// StockTransfer moves quantity between two branches of the same tenant.
// Source stock is re-validated at approval time, not at request time.
type StockTransfer struct {
	ID           string     `db:"id" json:"id"`
	TenantID     string     `db:"tenant_id" json:"tenant_id"`
	VariantID    string     `db:"variant_id" json:"variant_id"`
	FromBranchID string     `db:"from_branch_id" json:"from_branch_id"`
	ToBranchID   string     `db:"to_branch_id" json:"to_branch_id"`
	Quantity     int        `db:"quantity" json:"quantity"`
	Status       string     `db:"status" json:"status"`
	RequestedBy  string     `db:"requested_by" json:"requested_by"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	DecidedAt    *time.Time `db:"decided_at" json:"decided_at,omitempty"`
}

// Return reverses part of a prior transaction. Across all non-rejected
// returns of one transaction, per-variant quantities never exceed what was sold.
type Return struct {
	ID            string       `db:"id" json:"id"`
	TenantID      string       `db:"tenant_id" json:"tenant_id"`
	TransactionID string       `db:"transaction_id" json:"transaction_id"`
	Items         []ReturnItem `db:"-" json:"items"`
	Reason        string       `db:"reason" json:"reason"`
	Status        string       `db:"status" json:"status"`
	RefundMethod  string       `db:"refund_method" json:"refund_method"`
	RequestedBy   string       `db:"requested_by" json:"requested_by"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	DecidedAt     *time.Time   `db:"decided_at" json:"decided_at,omitempty"`
}

type ReturnItem struct {
	ReturnID  string  `db:"return_id" json:"-"`
	VariantID string  `db:"variant_id" json:"variant_id"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
}

// Refund is written when a return is approved.
type Refund struct {
	ID        string    `db:"id" json:"id"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	ReturnID  string    `db:"return_id" json:"return_id"`
	Amount    float64   `db:"amount" json:"amount"`
	Method    string    `db:"method" json:"method"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Variant is the catalog's view of a sellable unit. The engine treats the
// catalog as a read-only collaborator: existence checks and the reference
// price for discrepancy detection.
type Variant struct {
	ID       string  `db:"id" json:"id"`
	TenantID string  `db:"tenant_id" json:"tenant_id"`
	Product  string  `db:"product" json:"product"`
	Name     string  `db:"name" json:"name"`
	SKU      string  `db:"sku" json:"sku"`
	Price    float64 `db:"price" json:"price"`
	Active   bool    `db:"active" json:"active"`
}

type Branch struct {
	ID       string `db:"id" json:"id"`
	TenantID string `db:"tenant_id" json:"tenant_id"`
	Name     string `db:"name" json:"name"`
}

// User is an identity-boundary record; the engine only reads it to issue tokens.
type User struct {
	ID           string `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
	TenantID     string `db:"tenant_id" json:"tenant_id"`
	BranchID     string `db:"branch_id" json:"branch_id"`
}

// Actor is the authenticated identity attached to every core operation.
// The engine trusts it as supplied by the identity boundary.
type Actor struct {
	ID       string
	Name     string
	Role     string
	TenantID string
	BranchID string
}

// ReturnPolicy is tenant policy supplied by the settings collaborator.
type ReturnPolicy struct {
	RequiresApproval bool
	WindowDays       int
}
