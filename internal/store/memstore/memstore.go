// Package memstore is the in-memory implementation of the store ports. It
// backs dev mode when no DB_DSN is configured and lets unit tests exercise
// whole workflows without a database. One mutex serializes units; a
// state snapshot at unit start gives all-or-nothing semantics.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
)

type state struct {
	branches      map[string]domain.Branch
	variants      map[string]domain.Variant
	users         map[string]domain.User
	stock         map[domain.StockKey]domain.Stock
	adjustments   []domain.StockAdjustment
	transactions  map[string]domain.Transaction
	discrepancies []domain.PriceDiscrepancy
	transfers     map[string]domain.StockTransfer
	returns       map[string]domain.Return
	refunds       map[string]domain.Refund
}

func newState() state {
	return state{
		branches:     map[string]domain.Branch{},
		variants:     map[string]domain.Variant{},
		users:        map[string]domain.User{},
		stock:        map[domain.StockKey]domain.Stock{},
		transactions: map[string]domain.Transaction{},
		transfers:    map[string]domain.StockTransfer{},
		returns:      map[string]domain.Return{},
		refunds:      map[string]domain.Refund{},
	}
}

// clone copies the maps; values are structs written back whole, and the
// slices are append-only, so shallow copies are enough for rollback.
func (st state) clone() state {
	c := state{
		branches:      make(map[string]domain.Branch, len(st.branches)),
		variants:      make(map[string]domain.Variant, len(st.variants)),
		users:         make(map[string]domain.User, len(st.users)),
		stock:         make(map[domain.StockKey]domain.Stock, len(st.stock)),
		adjustments:   st.adjustments[:len(st.adjustments):len(st.adjustments)],
		transactions:  make(map[string]domain.Transaction, len(st.transactions)),
		discrepancies: st.discrepancies[:len(st.discrepancies):len(st.discrepancies)],
		transfers:     make(map[string]domain.StockTransfer, len(st.transfers)),
		returns:       make(map[string]domain.Return, len(st.returns)),
		refunds:       make(map[string]domain.Refund, len(st.refunds)),
	}
	for k, v := range st.branches {
		c.branches[k] = v
	}
	for k, v := range st.variants {
		c.variants[k] = v
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.stock {
		c.stock[k] = v
	}
	for k, v := range st.transactions {
		c.transactions[k] = v
	}
	for k, v := range st.transfers {
		c.transfers[k] = v
	}
	for k, v := range st.returns {
		c.returns[k] = v
	}
	for k, v := range st.refunds {
		c.refunds[k] = v
	}
	return c
}

type Store struct {
	mu sync.RWMutex
	st state
}

func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) Close() error { return nil }

// InTx serializes all units behind one lock. On error the pre-unit snapshot
// is restored, so a failed unit leaves no trace.
func (s *Store) InTx(_ context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.st.clone()
	if err := fn(&memTx{s: s}); err != nil {
		s.st = snap
		return err
	}
	return nil
}

// Fixture helpers used by dev seeding and tests.

func (s *Store) PutBranch(b domain.Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.branches[b.ID] = b
}

func (s *Store) PutVariant(v domain.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.variants[v.ID] = v
}

func (s *Store) PutUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.Username] = u
}

func (s *Store) PutStock(st domain.Stock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.stock[domain.StockKey{TenantID: st.TenantID, VariantID: st.VariantID, BranchID: st.BranchID}] = st
}

func (s *Store) GetStock(_ context.Context, key domain.StockKey) (domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.st.stock[key]
	if !ok {
		return domain.Stock{}, fmt.Errorf("stock %s@%s: %w", key.VariantID, key.BranchID, domain.ErrNotFound)
	}
	return st, nil
}

func (s *Store) ListStock(_ context.Context, tenantID, branchID string) ([]domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Stock
	for _, st := range s.st.stock {
		if st.TenantID == tenantID && st.BranchID == branchID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Store) ListAdjustments(_ context.Context, key domain.StockKey, limit int) ([]domain.StockAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit < 1 {
		limit = 100
	}
	var out []domain.StockAdjustment
	for i := len(s.st.adjustments) - 1; i >= 0 && len(out) < limit; i-- {
		a := s.st.adjustments[i]
		if a.TenantID == key.TenantID && a.VariantID == key.VariantID && a.BranchID == key.BranchID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) GetVariant(_ context.Context, tenantID, variantID string) (domain.Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getVariant(tenantID, variantID)
}

func (s *Store) GetBranch(_ context.Context, tenantID, branchID string) (domain.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getBranch(tenantID, branchID)
}

func (s *Store) GetTransaction(_ context.Context, tenantID, id string) (domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getTransaction(tenantID, id)
}

func (s *Store) GetTransfer(_ context.Context, tenantID, id string) (domain.StockTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getTransfer(tenantID, id)
}

func (s *Store) GetReturn(_ context.Context, tenantID, id string) (domain.Return, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getReturn(tenantID, id)
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.st.users[username]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
	}
	return u, nil
}

func (st *state) getVariant(tenantID, variantID string) (domain.Variant, error) {
	v, ok := st.variants[variantID]
	if !ok || v.TenantID != tenantID {
		return domain.Variant{}, fmt.Errorf("variant %s: %w", variantID, domain.ErrNotFound)
	}
	return v, nil
}

func (st *state) getBranch(tenantID, branchID string) (domain.Branch, error) {
	b, ok := st.branches[branchID]
	if !ok || b.TenantID != tenantID {
		return domain.Branch{}, fmt.Errorf("branch %s: %w", branchID, domain.ErrNotFound)
	}
	return b, nil
}

func (st *state) getTransaction(tenantID, id string) (domain.Transaction, error) {
	t, ok := st.transactions[id]
	if !ok || t.TenantID != tenantID {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

func (st *state) getTransfer(tenantID, id string) (domain.StockTransfer, error) {
	t, ok := st.transfers[id]
	if !ok || t.TenantID != tenantID {
		return domain.StockTransfer{}, fmt.Errorf("transfer %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

func (st *state) getReturn(tenantID, id string) (domain.Return, error) {
	r, ok := st.returns[id]
	if !ok || r.TenantID != tenantID {
		return domain.Return{}, fmt.Errorf("return %s: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

// memTx runs with the store lock held by InTx.
type memTx struct {
	s *Store
}

func (t *memTx) AddStockQty(_ context.Context, key domain.StockKey, delta int) (int, error) {
	st := &t.s.st
	row, ok := st.stock[key]
	if !ok {
		if delta < 0 {
			return 0, fmt.Errorf("stock %s@%s: %w", key.VariantID, key.BranchID, domain.ErrInsufficientStock)
		}
		row = domain.Stock{TenantID: key.TenantID, VariantID: key.VariantID, BranchID: key.BranchID}
	}
	if row.Quantity+delta < 0 {
		return 0, fmt.Errorf("stock %s@%s: %w", key.VariantID, key.BranchID, domain.ErrInsufficientStock)
	}
	row.Quantity += delta
	row.UpdatedAt = time.Now().UTC()
	st.stock[key] = row
	return row.Quantity, nil
}

func (t *memTx) AppendAdjustment(_ context.Context, adj domain.StockAdjustment) error {
	t.s.st.adjustments = append(t.s.st.adjustments, adj)
	return nil
}

func (t *memTx) GetVariant(_ context.Context, tenantID, variantID string) (domain.Variant, error) {
	return t.s.st.getVariant(tenantID, variantID)
}

func (t *memTx) GetBranch(_ context.Context, tenantID, branchID string) (domain.Branch, error) {
	return t.s.st.getBranch(tenantID, branchID)
}

func (t *memTx) InsertTransaction(_ context.Context, tr domain.Transaction) error {
	t.s.st.transactions[tr.ID] = tr
	return nil
}

func (t *memTx) GetTransaction(_ context.Context, tenantID, id string) (domain.Transaction, error) {
	return t.s.st.getTransaction(tenantID, id)
}

func (t *memTx) SetTransactionStatus(_ context.Context, tenantID, id, status string) error {
	tr, err := t.s.st.getTransaction(tenantID, id)
	if err != nil {
		return err
	}
	tr.Status = status
	t.s.st.transactions[id] = tr
	return nil
}

func (t *memTx) InsertDiscrepancy(_ context.Context, d domain.PriceDiscrepancy) error {
	t.s.st.discrepancies = append(t.s.st.discrepancies, d)
	return nil
}

// Discrepancies returns all recorded price discrepancies; test helper.
func (s *Store) Discrepancies() []domain.PriceDiscrepancy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.PriceDiscrepancy(nil), s.st.discrepancies...)
}

func (t *memTx) InsertTransfer(_ context.Context, tr domain.StockTransfer) error {
	t.s.st.transfers[tr.ID] = tr
	return nil
}

func (t *memTx) GetTransfer(_ context.Context, tenantID, id string) (domain.StockTransfer, error) {
	return t.s.st.getTransfer(tenantID, id)
}

func (t *memTx) SetTransferStatus(_ context.Context, tenantID, id, status string) error {
	tr, err := t.s.st.getTransfer(tenantID, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	tr.Status = status
	tr.DecidedAt = &now
	t.s.st.transfers[id] = tr
	return nil
}

func (t *memTx) InsertReturn(_ context.Context, r domain.Return) error {
	t.s.st.returns[r.ID] = r
	return nil
}

func (t *memTx) GetReturn(_ context.Context, tenantID, id string) (domain.Return, error) {
	return t.s.st.getReturn(tenantID, id)
}

func (t *memTx) SetReturnStatus(_ context.Context, tenantID, id, status string) error {
	r, err := t.s.st.getReturn(tenantID, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	r.Status = status
	r.DecidedAt = &now
	t.s.st.returns[id] = r
	return nil
}

func (t *memTx) SumReturned(_ context.Context, tenantID, transactionID, variantID string) (int, error) {
	sum := 0
	for _, r := range t.s.st.returns {
		if r.TenantID != tenantID || r.TransactionID != transactionID || r.Status == domain.StatusRejected {
			continue
		}
		for _, it := range r.Items {
			if it.VariantID == variantID {
				sum += it.Quantity
			}
		}
	}
	return sum, nil
}

func (t *memTx) InsertRefund(_ context.Context, r domain.Refund) error {
	t.s.st.refunds[r.ID] = r
	return nil
}

// Refunds returns all refund rows; test helper.
func (s *Store) Refunds() []domain.Refund {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Refund, 0, len(s.st.refunds))
	for _, r := range s.st.refunds {
		out = append(out, r)
	}
	return out
}
