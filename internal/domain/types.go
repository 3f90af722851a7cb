// Package domain contains the core business entities for deterministic
// pharmacogenomic drug-risk interpretation.
//
// The pipeline follows CPIC (Clinical Pharmacogenomics Implementation
// Consortium) genotype-to-phenotype conventions: star-allele diplotypes are
// resolved from called variants, mapped to metabolizer phenotypes, and the
// phenotype of each drug's governing gene determines its risk label.
//
// Reference: cpicpgx.org
package domain

import "errors"

// RiskLabel is the closed per-drug risk vocabulary. No other value may ever
// be produced by the pipeline.
type RiskLabel string

const (
	RiskSafe         RiskLabel = "Safe"
	RiskAdjustDosage RiskLabel = "Adjust Dosage"
	RiskToxic        RiskLabel = "Toxic"
	RiskIneffective  RiskLabel = "Ineffective"
	RiskUnknown      RiskLabel = "Unknown"
)

// IsValid reports whether the label belongs to the closed vocabulary.
// Critical for medical software: only valid labels may reach clinical output.
func (r RiskLabel) IsValid() bool {
	switch r {
	case RiskSafe, RiskAdjustDosage, RiskToxic, RiskIneffective, RiskUnknown:
		return true
	default:
		return false
	}
}

// Severity grades the clinical impact of a risk label.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsValid reports whether the severity belongs to the closed vocabulary.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityNone, SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// PhenotypeUnknown is the sentinel returned for any gene or diplotype the
// rule table does not cover. Downstream checks match it by prefix, never by
// full-string equality.
const PhenotypeUnknown = "UNKNOWN"

// ReferenceAllele is the wild-type star allele assumed for any chromosome
// copy without a called variant.
const ReferenceAllele = "*1"

// PanelGenes is the required pharmacogene panel, in alphabetical order.
// Every analysis reports on exactly these six genes: a missing gene would be
// clinically ambiguous (indistinguishable from "not tested").
var PanelGenes = []string{"CYP2C19", "CYP2C9", "CYP2D6", "DPYD", "SLCO1B1", "TPMT"}

var panelGeneSet = func() map[string]bool {
	set := make(map[string]bool, len(PanelGenes))
	for _, g := range PanelGenes {
		set[g] = true
	}
	return set
}()

// IsPanelGene reports whether the gene symbol is part of the required panel.
func IsPanelGene(gene string) bool {
	return panelGeneSet[gene]
}

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidRisk     = errors.New("invalid risk label")
	ErrInvalidSeverity = errors.New("invalid severity")
)
