package services_test

import (
	"testing"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/services"
)

func TestDetectPriceDiscrepancy(t *testing.T) {
	cases := []struct {
		name    string
		catalog float64
		sold    float64
		want    bool
	}{
		{"equal", 1000, 1000, false},
		{"undercharge", 1000, 900, true},
		{"overcharge", 1000, 1100, true},
		{"free sale", 1000, 0, true},
		{"both zero", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, got := services.DetectPriceDiscrepancy(tc.catalog, tc.sold)
			if got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
			if got && (d.CatalogPrice != tc.catalog || d.SoldPrice != tc.sold) {
				t.Fatalf("bad record: %+v", d)
			}
		})
	}
}
