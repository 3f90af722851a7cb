// Package risk evaluates per-drug clinical risk from interpreted gene
// profiles. Every table here is read-only after startup; evaluation is pure
// and deterministic.
package risk

import (
	"strings"

	"github.com/pharmaguard-server/internal/domain"
)

// FallbackPhenotype annotates results for supported drugs whose governing
// gene produced no profile: the patient is assumed wild-type, which is an
// assumption, not a VCF call, and scores a distinct confidence tier.
const FallbackPhenotype = "*1/*1 assumed"

// supportedDrugs is the set of drug names the evaluator covers.
var supportedDrugs = map[string]bool{
	"CODEINE":      true,
	"WARFARIN":     true,
	"CLOPIDOGREL":  true,
	"SIMVASTATIN":  true,
	"AZATHIOPRINE": true,
	"FLUOROURACIL": true,
}

// drugGene wires each drug to its governing gene: the single gene whose
// product principally determines the drug's metabolism or transport.
var drugGene = map[string]string{
	"CODEINE":      "CYP2D6",
	"WARFARIN":     "CYP2C9",
	"CLOPIDOGREL":  "CYP2C19",
	"SIMVASTATIN":  "SLCO1B1",
	"AZATHIOPRINE": "TPMT",
	"FLUOROURACIL": "DPYD",
}

// phenotypeRule maps a phenotype-label prefix to a risk label. Matching is
// by prefix so "PM – Poor Metabolizer" matches the "PM" rule without
// brittle full-string comparison. Rules are ordered; the first matching
// prefix wins, and prefixes within one drug's table must stay
// prefix-disjoint (no prefix may be a prefix of another).
type phenotypeRule struct {
	prefix string
	label  domain.RiskLabel
}

var drugRules = map[string][]phenotypeRule{
	// CYP2D6 converts codeine to morphine: no conversion means no
	// analgesia, ultrarapid conversion means toxic morphine accumulation.
	"CODEINE": {
		{"PM", domain.RiskIneffective},
		{"IM", domain.RiskAdjustDosage},
		{"NM", domain.RiskSafe},
		{"RM", domain.RiskToxic},
		{"UM", domain.RiskToxic},
	},
	// CYP2C9 clears S-warfarin; reduced function elevates INR.
	"WARFARIN": {
		{"PM", domain.RiskToxic},
		{"IM", domain.RiskAdjustDosage},
		{"NM", domain.RiskSafe},
	},
	// CYP2C19 activates the clopidogrel prodrug.
	"CLOPIDOGREL": {
		{"PM", domain.RiskIneffective},
		{"IM", domain.RiskAdjustDosage},
		{"NM", domain.RiskSafe},
		{"RM", domain.RiskSafe},
	},
	// SLCO1B1 transports simvastatin into hepatocytes; reduced function
	// raises plasma exposure and myopathy risk.
	"SIMVASTATIN": {
		{"Poor Function", domain.RiskToxic},
		{"Decreased Function", domain.RiskAdjustDosage},
		{"Normal Function", domain.RiskSafe},
	},
	// TPMT inactivates thiopurines; deficiency causes myelosuppression.
	"AZATHIOPRINE": {
		{"PM", domain.RiskToxic},
		{"IM", domain.RiskAdjustDosage},
		{"NM", domain.RiskSafe},
	},
	// DPYD catabolises 5-FU; deficiency causes life-threatening toxicity.
	"FLUOROURACIL": {
		{"PM", domain.RiskToxic},
		{"IM", domain.RiskAdjustDosage},
		{"NM", domain.RiskSafe},
	},
}

// SupportedDrugs returns the supported drug names in no particular order.
func SupportedDrugs() []string {
	drugs := make([]string, 0, len(supportedDrugs))
	for drug := range supportedDrugs {
		drugs = append(drugs, drug)
	}
	return drugs
}

// GoverningGene returns the gene governing the drug, or "" when the drug is
// unsupported.
func GoverningGene(drug string) string {
	return drugGene[drug]
}

// ParseDrugList splits a raw comma-separated drug parameter into uppercase
// trimmed tokens, dropping empties. A blank input yields nil.
func ParseDrugList(drugsParam string) []string {
	if strings.TrimSpace(drugsParam) == "" {
		return nil
	}
	var drugs []string
	for _, token := range strings.Split(drugsParam, ",") {
		token = strings.ToUpper(strings.TrimSpace(token))
		if token != "" {
			drugs = append(drugs, token)
		}
	}
	return drugs
}

// Evaluate produces one DrugRiskResult per requested drug, in request
// order. A blank drug parameter yields an empty result list, not an error:
// a clinical system must never silently drop a requested evaluation, but it
// also must not invent unrequested ones.
func Evaluate(profiles []domain.GeneProfile, drugsParam string) []domain.DrugRiskResult {
	drugs := ParseDrugList(drugsParam)
	if len(drugs) == 0 {
		return []domain.DrugRiskResult{}
	}

	results := make([]domain.DrugRiskResult, 0, len(drugs))
	for _, drug := range drugs {
		results = append(results, evaluateDrug(drug, profiles))
	}
	return results
}

func evaluateDrug(drug string, profiles []domain.GeneProfile) domain.DrugRiskResult {
	if !supportedDrugs[drug] {
		return domain.DrugRiskResult{
			Drug:       drug,
			Assessment: Score(drug, "", domain.RiskUnknown, "", false, true),
		}
	}

	gene := drugGene[drug]
	profile, found := findProfile(profiles, gene)

	if !found {
		// Governing gene absent from input: assume wild-type.
		return domain.DrugRiskResult{
			Drug:        drug,
			BasedOnGene: gene,
			Phenotype:   FallbackPhenotype,
			Assessment:  Score(drug, gene, domain.RiskSafe, FallbackPhenotype, true, false),
		}
	}

	phenotype := profile.Phenotype
	if phenotype == "" || strings.HasPrefix(phenotype, domain.PhenotypeUnknown) {
		return domain.DrugRiskResult{
			Drug:        drug,
			BasedOnGene: gene,
			Phenotype:   phenotype,
			Assessment:  Score(drug, gene, domain.RiskUnknown, phenotype, false, false),
		}
	}

	label := resolveRisk(drug, phenotype)
	return domain.DrugRiskResult{
		Drug:        drug,
		BasedOnGene: gene,
		Phenotype:   phenotype,
		Assessment:  Score(drug, gene, label, phenotype, false, false),
	}
}

func findProfile(profiles []domain.GeneProfile, gene string) (domain.GeneProfile, bool) {
	for _, p := range profiles {
		if p.Gene == gene {
			return p, true
		}
	}
	return domain.GeneProfile{}, false
}

// resolveRisk matches the phenotype's prefix against the drug's rule table.
// No match among defined prefixes yields Unknown.
func resolveRisk(drug, phenotype string) domain.RiskLabel {
	for _, rule := range drugRules[drug] {
		if strings.HasPrefix(phenotype, rule.prefix) {
			return rule.label
		}
	}
	return domain.RiskUnknown
}
