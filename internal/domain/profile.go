package domain

// GeneProfile is the interpretation result for a single pharmacogene.
//
// Humans are diploid: every autosomal gene has exactly two copies, one per
// parent. The two star alleles together form the diplotype, and their
// combined enzyme activity determines the metabolizer phenotype.
type GeneProfile struct {
	Gene      string `json:"gene"`
	Allele1   string `json:"allele1"`
	Allele2   string `json:"allele2"`
	Diplotype string `json:"diplotype"` // allele1/allele2 in resolved order
	Phenotype string `json:"phenotype"` // e.g. "IM – Intermediate Metabolizer"
}

// NewGeneProfile builds a profile with the canonical diplotype string.
// The alleles keep their resolved order; they are not re-sorted.
func NewGeneProfile(gene, allele1, allele2, phenotype string) GeneProfile {
	return GeneProfile{
		Gene:      gene,
		Allele1:   allele1,
		Allele2:   allele2,
		Diplotype: allele1 + "/" + allele2,
		Phenotype: phenotype,
	}
}

// Resolution is the diplotype resolver's output for one gene: exactly two
// allele slots plus a flag marking that more than two distinct heterozygous
// alleles were seen, which is impossible in a diploid genome and signals an
// upstream annotation defect.
type Resolution struct {
	Allele1           string
	Allele2           string
	HardLimitExceeded bool
}
