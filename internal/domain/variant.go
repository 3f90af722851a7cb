package domain

// Zygosity classifies the genotype call of a variant record.
type Zygosity int

const (
	// ZygosityUninformative covers absent, malformed or multi-allelic
	// genotype strings. Such records carry no diplotype information.
	ZygosityUninformative Zygosity = iota
	// ZygosityReferenceHom is 0/0: both chromosome copies match the
	// reference. No variant present.
	ZygosityReferenceHom
	// ZygosityHeterozygous is exactly one alternate copy (0/1, 1/0, 0|1, 1|0).
	ZygosityHeterozygous
	// ZygosityHomozygousAlt is 1/1 or 1|1: both copies carry the alternate.
	ZygosityHomozygousAlt
)

// VariantRecord is one called genomic position from a VCF data line.
// Immutable once parsed.
type VariantRecord struct {
	Chrom      string            `json:"chrom"`
	Position   int               `json:"position"` // 1-based
	RSID       string            `json:"rsid"`
	Ref        string            `json:"ref"`
	Alt        string            `json:"alt"`
	Filter     string            `json:"filter"`
	Gene       string            `json:"gene"`        // INFO GENE=, may be empty
	StarAllele string            `json:"star_allele"` // INFO STAR=, may be empty
	Genotype   string            `json:"genotype"`    // e.g. "0/1", empty when absent
	Info       map[string]string `json:"info"`
}

// Zygosity classifies the record's genotype string.
func (v VariantRecord) Zygosity() Zygosity {
	switch v.Genotype {
	case "0/0":
		return ZygosityReferenceHom
	case "0/1", "1/0", "0|1", "1|0":
		return ZygosityHeterozygous
	case "1/1", "1|1":
		return ZygosityHomozygousAlt
	default:
		return ZygosityUninformative
	}
}

// IsHeterozygous reports whether exactly one chromosome copy carries the
// alternate allele.
func (v VariantRecord) IsHeterozygous() bool {
	return v.Zygosity() == ZygosityHeterozygous
}

// IsHomozygousAlt reports whether both chromosome copies carry the alternate
// allele.
func (v VariantRecord) IsHomozygousAlt() bool {
	return v.Zygosity() == ZygosityHomozygousAlt
}

// IsActionable reports whether the record contributes to diplotype
// resolution: a het or hom-alt call with a known gene annotation.
// Reference-homozygous and uninformative calls are silently dropped.
func (v VariantRecord) IsActionable() bool {
	return (v.IsHeterozygous() || v.IsHomozygousAlt()) && v.Gene != ""
}
