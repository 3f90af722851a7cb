// Package interpretation turns called variants into per-gene diplotypes and
// metabolizer phenotypes. All functions here are pure and deterministic;
// rule tables are read-only after process startup and safe to share across
// concurrent requests.
package interpretation

import "github.com/pharmaguard-server/internal/domain"

// FilterActionable keeps only heterozygous or homozygous-alternate records
// with a non-empty gene annotation. Reference-homozygous (0/0) and
// uninformative genotypes carry no diplotype information and are dropped.
func FilterActionable(variants []domain.VariantRecord) []domain.VariantRecord {
	var actionable []domain.VariantRecord
	for _, v := range variants {
		if v.IsActionable() {
			actionable = append(actionable, v)
		}
	}
	return actionable
}

// GroupByGene buckets records by gene symbol, preserving first-seen order
// within each group.
func GroupByGene(variants []domain.VariantRecord) map[string][]domain.VariantRecord {
	groups := make(map[string][]domain.VariantRecord)
	for _, v := range variants {
		groups[v.Gene] = append(groups[v.Gene], v)
	}
	return groups
}
