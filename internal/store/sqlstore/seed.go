package sqlstore

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Seed inserts demo tenant data if the database is empty. Idempotent; safe
// to call on every start. Test databases skip this and insert their own rows.
func (s *Store) Seed() error {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM branches`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo tenant/branches/variants/stock/users")

	tx := s.db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO branches(id, tenant_id, name) VALUES
	  ('branch-pusat',  'tenant-demo', 'Toko Pusat'),
	  ('branch-cabang', 'tenant-demo', 'Cabang Selatan')`)

	tx.MustExec(`INSERT INTO variants(id, tenant_id, product, name, sku, price, active) VALUES
	  ('var-kaos-m',   'tenant-demo', 'Kaos Polos',  'M / Hitam',  'KP-M-BLK',  55000, 1),
	  ('var-kaos-l',   'tenant-demo', 'Kaos Polos',  'L / Hitam',  'KP-L-BLK',  55000, 1),
	  ('var-kemeja-m', 'tenant-demo', 'Kemeja Flanel', 'M / Merah', 'KF-M-RED', 129000, 1)`)

	now := time.Now().UTC()
	stockSeed := []struct {
		variant, branch string
		qty, min        int
	}{
		{"var-kaos-m", "branch-pusat", 40, 5},
		{"var-kaos-l", "branch-pusat", 25, 5},
		{"var-kemeja-m", "branch-pusat", 12, 2},
		{"var-kaos-m", "branch-cabang", 10, 5},
	}
	for _, r := range stockSeed {
		tx.MustExec(`INSERT INTO stock(tenant_id, variant_id, branch_id, quantity, min_stock, updated_at)
			VALUES('tenant-demo', ?, ?, ?, ?, ?)`, r.variant, r.branch, r.qty, r.min, now)
	}

	users := []struct {
		id, username, name, role, branch, password string
	}{
		{"u-admin", "admin", "Admin", "ADMIN", "branch-pusat", "Passw0rd!"},
		{"u-kasir", "kasir", "Kasir Satu", "CASHIER", "branch-pusat", "Passw0rd!"},
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		tx.MustExec(`INSERT INTO users(id, username, name, password_hash, role, tenant_id, branch_id)
			VALUES(?, ?, ?, ?, ?, 'tenant-demo', ?)`, u.id, u.username, u.name, string(hash), u.role, u.branch)
	}

	return tx.Commit()
}
