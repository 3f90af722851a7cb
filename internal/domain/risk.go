package domain

// RiskAssessment is the derived risk of one drug for one patient.
// Never mutated after construction.
type RiskAssessment struct {
	RiskLabel       RiskLabel `json:"risk_label"`
	ConfidenceScore float64   `json:"confidence_score"` // [0,1]
	Severity        Severity  `json:"severity"`
}

// DrugRiskResult is one per-drug evaluation outcome. BasedOnGene and
// Phenotype are empty when the drug is unsupported.
type DrugRiskResult struct {
	Drug        string         `json:"drug"`
	BasedOnGene string         `json:"based_on_gene,omitempty"`
	Phenotype   string         `json:"phenotype,omitempty"`
	Assessment  RiskAssessment `json:"risk_assessment"`
}
