package domain

// Response envelope assembled for each requested drug. Field names mirror
// the public API contract, so tags are snake_case throughout.

// ClinicalRecommendation is the externally-looked-up guidance for one
// drug + risk-label combination.
type ClinicalRecommendation struct {
	Action         string `json:"action"`
	Recommendation string `json:"recommendation"`
	Monitoring     string `json:"monitoring"`
}

// DetectedVariant is one actionable variant reported back to the caller.
type DetectedVariant struct {
	RSID       string `json:"rsid"`
	StarAllele string `json:"star_allele"`
	Genotype   string `json:"genotype"`
}

// PharmacogenomicProfile summarizes the governing gene's interpretation for
// one drug result.
type PharmacogenomicProfile struct {
	PrimaryGene      string            `json:"primary_gene,omitempty"`
	Diplotype        string            `json:"diplotype,omitempty"`
	Phenotype        string            `json:"phenotype"` // CPIC short code
	DetectedVariants []DetectedVariant `json:"detected_variants"`
}

// NarrativeExplanation carries the generated plain-language summary.
// The narrator consumes already-computed facts and can never change them.
type NarrativeExplanation struct {
	Summary string `json:"summary"`
}

// QualityMetrics reports input-quality facts alongside the result.
type QualityMetrics struct {
	VCFParsingSuccess bool `json:"vcf_parsing_success"`
}

// AnalysisResponse is the full per-drug response envelope.
type AnalysisResponse struct {
	PatientID              string                 `json:"patient_id"`
	Drug                   string                 `json:"drug"`
	Timestamp              string                 `json:"timestamp"` // RFC3339 UTC
	RiskAssessment         RiskAssessment         `json:"risk_assessment"`
	PharmacogenomicProfile PharmacogenomicProfile `json:"pharmacogenomic_profile"`
	ClinicalRecommendation ClinicalRecommendation `json:"clinical_recommendation"`
	Explanation            NarrativeExplanation   `json:"llm_generated_explanation"`
	QualityMetrics         QualityMetrics         `json:"quality_metrics"`
}
