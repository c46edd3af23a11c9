package services

import (
	"sort"
	"strings"

	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
)

var packages = map[string]entities.SparkPackage{
	"starter": {PackageID: "starter", Sparks: 100, PriceCents: 499, Currency: "USD"},
	"popular": {PackageID: "popular", Sparks: 500, BonusSparks: 50, PriceCents: 1999, Currency: "USD"},
	"pro":     {PackageID: "pro", Sparks: 1000, BonusSparks: 150, PriceCents: 3799, Currency: "USD"},
	"mega":    {PackageID: "mega", Sparks: 2500, BonusSparks: 500, PriceCents: 8999, Currency: "USD"},
}

func LookupPackage(packageID string) (entities.SparkPackage, bool) {
	pkg, ok := packages[strings.TrimSpace(packageID)]
	return pkg, ok
}

// ListPackages returns the storefront catalog, cheapest first.
func ListPackages() []entities.SparkPackage {
	out := make([]entities.SparkPackage, 0, len(packages))
	for _, pkg := range packages {
		out = append(out, pkg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceCents < out[j].PriceCents })
	return out
}
