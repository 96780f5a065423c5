package services

import "github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"

// DetectPriceDiscrepancy compares the catalog price against the price
// actually charged. It reports a record to persist when they differ and
// never errors: discrepancies are an audit signal, not a validation gate.
// The caller fills in tenant, transaction and variant ids.
func DetectPriceDiscrepancy(catalogPrice, soldPrice float64) (domain.PriceDiscrepancy, bool) {
	if catalogPrice == soldPrice {
		return domain.PriceDiscrepancy{}, false
	}
	return domain.PriceDiscrepancy{
		CatalogPrice: catalogPrice,
		SoldPrice:    soldPrice,
	}, true
}
