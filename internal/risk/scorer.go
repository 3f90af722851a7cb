package risk

import (
	"strings"

	"github.com/pharmaguard-server/internal/domain"
)

// Confidence tiers, highest to lowest. Named so the intent is
// self-documenting; these exact constants are part of the API contract.
const (
	ConfidenceExplicitRule = 0.95 // explicit phenotype-rule match
	ConfidenceFallbackSafe = 0.85 // gene absent, *1/*1 assumed
	ConfidenceUnknownPheno = 0.50 // diplotype not in rule table
	ConfidenceUnsupported  = 0.40 // drug not in supported set
)

// criticalOverrides lists the drug:gene pairs whose Toxic + PM combination
// is life-threatening per CPIC and always forces critical severity.
var criticalOverrides = map[string]bool{
	"FLUOROURACIL:DPYD": true,
	"AZATHIOPRINE:TPMT": true,
}

// Score derives severity and confidence for one evaluated drug. Pure
// function of its inputs: no randomness, no ML, fully explainable.
//
// Tier priority: unsupported drug beats unresolved phenotype, which beats
// the fallback flag; only an explicit rule match reaches 0.95.
func Score(drug, gene string, label domain.RiskLabel, phenotype string, isFallback, isUnsupported bool) domain.RiskAssessment {
	return domain.RiskAssessment{
		RiskLabel:       label,
		ConfidenceScore: resolveConfidence(phenotype, isFallback, isUnsupported),
		Severity:        resolveSeverity(drug, gene, label, phenotype),
	}
}

func resolveConfidence(phenotype string, isFallback, isUnsupported bool) float64 {
	switch {
	case isUnsupported:
		return ConfidenceUnsupported
	case phenotype == "" || strings.HasPrefix(phenotype, domain.PhenotypeUnknown):
		return ConfidenceUnknownPheno
	case isFallback:
		return ConfidenceFallbackSafe
	default:
		return ConfidenceExplicitRule
	}
}

func resolveSeverity(drug, gene string, label domain.RiskLabel, phenotype string) domain.Severity {
	// Critical override: checked before the generic mapping so it always
	// wins for the named drug+gene PM toxicity scenarios.
	if label == domain.RiskToxic &&
		gene != "" &&
		strings.HasPrefix(phenotype, "PM") &&
		criticalOverrides[drug+":"+gene] {
		return domain.SeverityCritical
	}

	switch label {
	case domain.RiskSafe:
		return domain.SeverityNone
	case domain.RiskAdjustDosage, domain.RiskIneffective:
		return domain.SeverityModerate
	case domain.RiskToxic:
		return domain.SeverityHigh
	default:
		// Covers Unknown and shields against any future label.
		return domain.SeverityLow
	}
}
