package interpretation

import (
	"strings"

	"github.com/pharmaguard-server/internal/domain"
)

// Resolve reduces the pre-grouped variants of a single gene to exactly two
// named alleles under diploid biology constraints. It returns nil when the
// group holds no informative record after defensive filtering.
//
// Priority order, enforced strictly:
//
//  1. Homozygous alternate (1/1): both chromosome slots are the same allele.
//     Heterozygous entries for the gene are discarded as biologically
//     irrelevant, since both slots are already determined. First match in
//     input order wins.
//  2. Exactly one distinct heterozygous allele: the other chromosome is
//     assumed wild-type, giving *1/allele.
//  3. Two distinct heterozygous alleles (compound heterozygous): each
//     chromosome carries a different defective copy, in encounter order.
//  4. More than two distinct heterozygous alleles is impossible in a diploid
//     genome. Take the first two and set HardLimitExceeded; the caller must
//     surface the diagnostic but must not fail the pipeline.
func Resolve(variants []domain.VariantRecord) *domain.Resolution {
	if len(variants) == 0 {
		return nil
	}

	for _, v := range variants {
		if v.IsHomozygousAlt() {
			star := normalizeAllele(v.StarAllele)
			return &domain.Resolution{Allele1: star, Allele2: star}
		}
	}

	// Distinct het alleles, deduplicated in first-seen order.
	var alleles []string
	seen := make(map[string]bool)
	for _, v := range variants {
		if !v.IsHeterozygous() {
			continue
		}
		star := normalizeAllele(v.StarAllele)
		if !seen[star] {
			seen[star] = true
			alleles = append(alleles, star)
		}
	}

	switch len(alleles) {
	case 0:
		return nil
	case 1:
		return &domain.Resolution{Allele1: domain.ReferenceAllele, Allele2: alleles[0]}
	case 2:
		return &domain.Resolution{Allele1: alleles[0], Allele2: alleles[1]}
	default:
		return &domain.Resolution{
			Allele1:           alleles[0],
			Allele2:           alleles[1],
			HardLimitExceeded: true,
		}
	}
}

// normalizeAllele guarantees the '*' prefix, tolerating bare names like "2"
// or "3A". A blank name normalizes to the reference allele.
func normalizeAllele(allele string) string {
	allele = strings.TrimSpace(allele)
	if allele == "" {
		return domain.ReferenceAllele
	}
	if !strings.HasPrefix(allele, "*") {
		return "*" + allele
	}
	return allele
}
