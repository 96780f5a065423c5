// Package sqlstore is the SQL implementation of the store ports, backed by
// the embedded sqlite driver. Every mutating unit is a real database
// transaction; the stock debit guard is a conditional UPDATE, so the
// no-negative invariant holds regardless of isolation level.
package sqlstore

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
)

type Store struct {
	db *sqlx.DB
}

// Open connects to the sqlite database at dsn (":memory:" for tests) and
// ensures the schema exists. SQLite allows a single writer; capping the pool
// at one connection makes concurrent units queue instead of failing BUSY.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// InTx runs fn inside one database transaction. fn errors roll the whole
// unit back; nothing fn did is observable afterwards.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&sqlTx{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetStock(ctx context.Context, key domain.StockKey) (domain.Stock, error) {
	return getStock(ctx, s.db, key)
}

func (s *Store) ListStock(ctx context.Context, tenantID, branchID string) ([]domain.Stock, error) {
	var rows []domain.Stock
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM stock
		WHERE tenant_id = ? AND branch_id = ?
		ORDER BY variant_id
	`, tenantID, branchID)
	return rows, err
}

func (s *Store) ListAdjustments(ctx context.Context, key domain.StockKey, limit int) ([]domain.StockAdjustment, error) {
	if limit < 1 {
		limit = 100
	}
	var rows []domain.StockAdjustment
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM stock_adjustments
		WHERE tenant_id = ? AND variant_id = ? AND branch_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, key.TenantID, key.VariantID, key.BranchID, limit)
	return rows, err
}

func (s *Store) GetVariant(ctx context.Context, tenantID, variantID string) (domain.Variant, error) {
	return getVariant(ctx, s.db, tenantID, variantID)
}

func (s *Store) GetBranch(ctx context.Context, tenantID, branchID string) (domain.Branch, error) {
	return getBranch(ctx, s.db, tenantID, branchID)
}

func (s *Store) GetTransaction(ctx context.Context, tenantID, id string) (domain.Transaction, error) {
	return getTransaction(ctx, s.db, tenantID, id)
}

func (s *Store) GetTransfer(ctx context.Context, tenantID, id string) (domain.StockTransfer, error) {
	return getTransfer(ctx, s.db, tenantID, id)
}

func (s *Store) GetReturn(ctx context.Context, tenantID, id string) (domain.Return, error) {
	return getReturn(ctx, s.db, tenantID, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE username = ?`, username)
	if err != nil {
		return domain.User{}, notFound(err, "user %s", username)
	}
	return u, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS branches(
  id        TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  name      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_branches_tenant ON branches(tenant_id);

CREATE TABLE IF NOT EXISTS variants(
  id        TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  product   TEXT NOT NULL,
  name      TEXT NOT NULL,
  sku       TEXT NOT NULL,
  price     NUMERIC NOT NULL CHECK (price >= 0),
  active    INTEGER NOT NULL DEFAULT 1
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_variants_sku ON variants(tenant_id, sku);

CREATE TABLE IF NOT EXISTS users(
  id            TEXT PRIMARY KEY,
  username      TEXT NOT NULL UNIQUE,
  name          TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role          TEXT NOT NULL CHECK (role IN ('ADMIN','MANAGER','CASHIER')),
  tenant_id     TEXT NOT NULL,
  branch_id     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stock(
  tenant_id  TEXT NOT NULL,
  variant_id TEXT NOT NULL REFERENCES variants(id),
  branch_id  TEXT NOT NULL REFERENCES branches(id),
  quantity   INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  min_stock  INTEGER NOT NULL DEFAULT 0 CHECK (min_stock >= 0),
  updated_at TIMESTAMP NOT NULL,
  PRIMARY KEY(tenant_id, variant_id, branch_id)
);

CREATE TABLE IF NOT EXISTS stock_adjustments(
  id         TEXT PRIMARY KEY,
  tenant_id  TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  branch_id  TEXT NOT NULL,
  delta      INTEGER NOT NULL,
  reason     TEXT NOT NULL,
  actor      TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_adjustments_key ON stock_adjustments(tenant_id, variant_id, branch_id);

CREATE TABLE IF NOT EXISTS transactions(
  id                   TEXT PRIMARY KEY,
  tenant_id            TEXT NOT NULL,
  branch_id            TEXT NOT NULL REFERENCES branches(id),
  discount             NUMERIC NOT NULL DEFAULT 0,
  tax                  NUMERIC NOT NULL DEFAULT 0,
  total                NUMERIC NOT NULL,
  payment_method       TEXT NOT NULL,
  payment_amount       NUMERIC NOT NULL,
  split_payment_method TEXT NOT NULL DEFAULT '',
  split_payment_amount NUMERIC NOT NULL DEFAULT 0,
  status               TEXT NOT NULL,
  cashier_id           TEXT NOT NULL,
  created_at           TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_branch ON transactions(tenant_id, branch_id, created_at);

CREATE TABLE IF NOT EXISTS transaction_items(
  transaction_id TEXT NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
  variant_id     TEXT NOT NULL,
  quantity       INTEGER NOT NULL CHECK (quantity > 0),
  unit_price     NUMERIC NOT NULL CHECK (unit_price >= 0),
  PRIMARY KEY(transaction_id, variant_id)
);

CREATE TABLE IF NOT EXISTS price_discrepancies(
  id             TEXT PRIMARY KEY,
  tenant_id      TEXT NOT NULL,
  transaction_id TEXT NOT NULL,
  variant_id     TEXT NOT NULL,
  catalog_price  NUMERIC NOT NULL,
  sold_price     NUMERIC NOT NULL,
  created_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS stock_transfers(
  id             TEXT PRIMARY KEY,
  tenant_id      TEXT NOT NULL,
  variant_id     TEXT NOT NULL,
  from_branch_id TEXT NOT NULL,
  to_branch_id   TEXT NOT NULL,
  quantity       INTEGER NOT NULL CHECK (quantity > 0),
  status         TEXT NOT NULL,
  requested_by   TEXT NOT NULL,
  created_at     TIMESTAMP NOT NULL,
  decided_at     TIMESTAMP
);

CREATE TABLE IF NOT EXISTS returns(
  id             TEXT PRIMARY KEY,
  tenant_id      TEXT NOT NULL,
  transaction_id TEXT NOT NULL REFERENCES transactions(id),
  reason         TEXT NOT NULL,
  status         TEXT NOT NULL,
  refund_method  TEXT NOT NULL,
  requested_by   TEXT NOT NULL,
  created_at     TIMESTAMP NOT NULL,
  decided_at     TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_returns_transaction ON returns(tenant_id, transaction_id);

CREATE TABLE IF NOT EXISTS return_items(
  return_id  TEXT NOT NULL REFERENCES returns(id) ON DELETE CASCADE,
  variant_id TEXT NOT NULL,
  quantity   INTEGER NOT NULL CHECK (quantity > 0),
  unit_price NUMERIC NOT NULL,
  PRIMARY KEY(return_id, variant_id)
);

CREATE TABLE IF NOT EXISTS refunds(
  id         TEXT PRIMARY KEY,
  tenant_id  TEXT NOT NULL,
  return_id  TEXT NOT NULL REFERENCES returns(id),
  amount     NUMERIC NOT NULL,
  method     TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}
