package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pharmaguard-server/internal/domain"
	"github.com/pharmaguard-server/internal/narrative"
	"github.com/pharmaguard-server/internal/risk"
)

// ResponseMapper assembles one AnalysisResponse per drug risk result. Pure
// transformation aside from the narrator call, which consumes the computed
// facts and can only add prose.
type ResponseMapper struct {
	narrator *narrative.Generator
}

// NewResponseMapper creates a mapper that obtains summaries from narrator.
func NewResponseMapper(narrator *narrative.Generator) *ResponseMapper {
	return &ResponseMapper{narrator: narrator}
}

// shortCode maps a verbose phenotype label prefix to its CPIC short code.
// Ordered: more specific prefixes must come before any they overlap with.
type shortCode struct {
	prefix string
	code   string
}

var phenotypeShortCodes = []shortCode{
	{"NM", "NM"},
	{"IM", "IM"},
	{"PM", "PM"},
	{"RM", "RM"},
	{"UM", "UM"},
	{"Normal Function", "NM"},    // SLCO1B1 normal
	{"Decreased Function", "IM"}, // SLCO1B1 decreased
	{"Poor Function", "PM"},      // SLCO1B1 poor
}

// Map builds the per-drug response envelopes in drugRisks order. PatientID
// and timestamp are shared across all drugs of one request.
func (m *ResponseMapper) Map(ctx context.Context, drugRisks []domain.DrugRiskResult, profiles []domain.GeneProfile, allVariants []domain.VariantRecord, parseSuccess bool) []domain.AnalysisResponse {
	profileByGene := make(map[string]domain.GeneProfile, len(profiles))
	for _, p := range profiles {
		profileByGene[p.Gene] = p
	}

	patientID := uuid.New().String()
	timestamp := time.Now().UTC().Format(time.RFC3339)
	quality := domain.QualityMetrics{VCFParsingSuccess: parseSuccess}

	responses := make([]domain.AnalysisResponse, 0, len(drugRisks))
	for _, dr := range drugRisks {
		responses = append(responses,
			m.buildResponse(ctx, dr, profileByGene, allVariants, patientID, timestamp, quality))
	}
	return responses
}

func (m *ResponseMapper) buildResponse(ctx context.Context, dr domain.DrugRiskResult, profileByGene map[string]domain.GeneProfile, allVariants []domain.VariantRecord, patientID, timestamp string, quality domain.QualityMetrics) domain.AnalysisResponse {
	var profile domain.GeneProfile
	if dr.BasedOnGene != "" {
		profile = profileByGene[dr.BasedOnGene]
	}

	pgxProfile := buildPgxProfile(dr.BasedOnGene, profile, allVariants)
	recommendation := risk.Recommend(dr.Drug, dr.Assessment.RiskLabel)

	explanation := m.narrator.Summarize(ctx, narrative.Facts{
		Drug:      dr.Drug,
		Gene:      dr.BasedOnGene,
		Diplotype: pgxProfile.Diplotype,
		Phenotype: pgxProfile.Phenotype,
		RiskLabel: string(dr.Assessment.RiskLabel),
		Severity:  string(dr.Assessment.Severity),
		Action:    recommendation.Action,
	})

	return domain.AnalysisResponse{
		PatientID:              patientID,
		Drug:                   dr.Drug,
		Timestamp:              timestamp,
		RiskAssessment:         dr.Assessment,
		PharmacogenomicProfile: pgxProfile,
		ClinicalRecommendation: recommendation,
		Explanation:            explanation,
		QualityMetrics:         quality,
	}
}

// buildPgxProfile extracts the actionable detected variants for the
// governing gene. An unsupported drug has no gene and an Unknown profile.
func buildPgxProfile(gene string, profile domain.GeneProfile, allVariants []domain.VariantRecord) domain.PharmacogenomicProfile {
	if gene == "" {
		return domain.PharmacogenomicProfile{
			Phenotype:        "Unknown",
			DetectedVariants: []domain.DetectedVariant{},
		}
	}

	detected := make([]domain.DetectedVariant, 0)
	for _, v := range allVariants {
		if v.Gene == gene && (v.IsHeterozygous() || v.IsHomozygousAlt()) {
			detected = append(detected, domain.DetectedVariant{
				RSID:       v.RSID,
				StarAllele: v.StarAllele,
				Genotype:   v.Genotype,
			})
		}
	}

	return domain.PharmacogenomicProfile{
		PrimaryGene:      gene,
		Diplotype:        profile.Diplotype,
		Phenotype:        toShortPhenotype(profile.Phenotype),
		DetectedVariants: detected,
	}
}

// toShortPhenotype converts a verbose phenotype label to its CPIC short
// code by prefix: "IM – Intermediate Metabolizer" becomes "IM", SLCO1B1
// function labels map to the analogous metabolizer codes, anything
// unresolved becomes "Unknown".
func toShortPhenotype(verbose string) string {
	if verbose == "" || strings.HasPrefix(verbose, domain.PhenotypeUnknown) {
		return "Unknown"
	}
	for _, sc := range phenotypeShortCodes {
		if strings.HasPrefix(verbose, sc.prefix) {
			return sc.code
		}
	}
	return "Unknown"
}
