package memstore

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
)

// NewSeeded builds a store preloaded with the demo tenant, for running
// without a database. Same data set as the sqlstore seed.
func NewSeeded() *Store {
	s := New()
	log.Println("[memstore] seeding demo tenant (no DB_DSN configured)")

	s.PutBranch(domain.Branch{ID: "branch-pusat", TenantID: "tenant-demo", Name: "Toko Pusat"})
	s.PutBranch(domain.Branch{ID: "branch-cabang", TenantID: "tenant-demo", Name: "Cabang Selatan"})

	s.PutVariant(domain.Variant{ID: "var-kaos-m", TenantID: "tenant-demo", Product: "Kaos Polos", Name: "M / Hitam", SKU: "KP-M-BLK", Price: 55000, Active: true})
	s.PutVariant(domain.Variant{ID: "var-kaos-l", TenantID: "tenant-demo", Product: "Kaos Polos", Name: "L / Hitam", SKU: "KP-L-BLK", Price: 55000, Active: true})
	s.PutVariant(domain.Variant{ID: "var-kemeja-m", TenantID: "tenant-demo", Product: "Kemeja Flanel", Name: "M / Merah", SKU: "KF-M-RED", Price: 129000, Active: true})

	now := time.Now().UTC()
	s.PutStock(domain.Stock{TenantID: "tenant-demo", VariantID: "var-kaos-m", BranchID: "branch-pusat", Quantity: 40, MinStock: 5, UpdatedAt: now})
	s.PutStock(domain.Stock{TenantID: "tenant-demo", VariantID: "var-kaos-l", BranchID: "branch-pusat", Quantity: 25, MinStock: 5, UpdatedAt: now})
	s.PutStock(domain.Stock{TenantID: "tenant-demo", VariantID: "var-kemeja-m", BranchID: "branch-pusat", Quantity: 12, MinStock: 2, UpdatedAt: now})
	s.PutStock(domain.Stock{TenantID: "tenant-demo", VariantID: "var-kaos-m", BranchID: "branch-cabang", Quantity: 10, MinStock: 5, UpdatedAt: now})

	for _, u := range []struct {
		id, username, name, role, branch string
	}{
		{"u-admin", "admin", "Admin", "ADMIN", "branch-pusat"},
		{"u-kasir", "kasir", "Kasir Satu", "CASHIER", "branch-pusat"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memstore] hashing seed password: %v", err)
		}
		s.PutUser(domain.User{
			ID: u.id, Username: u.username, Name: u.name,
			PasswordHash: string(hash), Role: u.role,
			TenantID: "tenant-demo", BranchID: u.branch,
		})
	}
	return s
}
