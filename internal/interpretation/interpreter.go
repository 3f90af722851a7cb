package interpretation

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/pharmaguard-server/internal/domain"
)

// Interpreter runs the full per-gene interpretation pipeline:
//
//	filter actionable -> group by gene -> resolve diplotype -> phenotype lookup
//
// and backfills every required-panel gene that produced no profile, so
// callers always observe exactly one profile per panel gene.
type Interpreter struct {
	log *logrus.Logger
}

// NewInterpreter creates an Interpreter. The logger receives hard-limit
// diagnostics from diplotype resolution.
func NewInterpreter(log *logrus.Logger) *Interpreter {
	return &Interpreter{log: log}
}

// Interpret accepts the full raw variant list for one request, possibly
// including uninformative records, and returns one GeneProfile per required
// panel gene, sorted alphabetically by gene symbol.
//
// A gene with no actionable variants is assumed fully wild-type (*1/*1) and
// its phenotype is produced through the same rule-table lookup as every
// other gene, so edits to the table propagate to the default.
func (i *Interpreter) Interpret(variants []domain.VariantRecord) []domain.GeneProfile {
	groups := GroupByGene(FilterActionable(variants))

	// Visit groups in sorted gene order so diagnostics and results are
	// deterministic regardless of map iteration.
	genes := make([]string, 0, len(groups))
	for gene := range groups {
		genes = append(genes, gene)
	}
	sort.Strings(genes)

	resolved := make(map[string]domain.GeneProfile, len(domain.PanelGenes))
	for _, gene := range genes {
		// Defensive: callers may pass variants that were never
		// panel-filtered. Only panel genes are reported.
		if !domain.IsPanelGene(gene) {
			continue
		}
		resolution := Resolve(groups[gene])
		if resolution == nil {
			continue
		}
		if resolution.HardLimitExceeded {
			i.log.WithFields(logrus.Fields{
				"gene":    gene,
				"allele1": resolution.Allele1,
				"allele2": resolution.Allele2,
			}).Warn("More than two heterozygous alleles for gene; only first two used, check VCF annotation quality")
		}
		phenotype := LookupPhenotype(gene, resolution.Allele1, resolution.Allele2)
		resolved[gene] = domain.NewGeneProfile(gene, resolution.Allele1, resolution.Allele2, phenotype)
	}

	for _, gene := range domain.PanelGenes {
		if _, ok := resolved[gene]; !ok {
			phenotype := LookupPhenotype(gene, domain.ReferenceAllele, domain.ReferenceAllele)
			resolved[gene] = domain.NewGeneProfile(gene,
				domain.ReferenceAllele, domain.ReferenceAllele, phenotype)
		}
	}

	profiles := make([]domain.GeneProfile, 0, len(resolved))
	for _, profile := range resolved {
		profiles = append(profiles, profile)
	}
	sort.Slice(profiles, func(a, b int) bool {
		return profiles[a].Gene < profiles[b].Gene
	})
	return profiles
}
