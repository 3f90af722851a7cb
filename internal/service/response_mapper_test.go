package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard-server/internal/domain"
	"github.com/pharmaguard-server/internal/narrative"
)

func newTestMapper(t *testing.T) *ResponseMapper {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	narrator, err := narrative.NewGenerator(context.Background(),
		domain.NarratorConfig{Enabled: false}, nil, logger)
	require.NoError(t, err)

	return NewResponseMapper(narrator)
}

func TestToShortPhenotype(t *testing.T) {
	tests := []struct {
		verbose string
		want    string
	}{
		{"NM – Normal Metabolizer", "NM"},
		{"IM – Intermediate Metabolizer", "IM"},
		{"PM – Poor Metabolizer", "PM"},
		{"RM – Rapid Metabolizer", "RM"},
		{"UM – Ultrarapid Metabolizer", "UM"},
		{"Normal Function", "NM"},
		{"Decreased Function – Increased Statin Myopathy Risk", "IM"},
		{"Poor Function – High Statin Myopathy Risk", "PM"},
		{domain.PhenotypeUnknown, "Unknown"},
		{"", "Unknown"},
		{"Something else entirely", "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toShortPhenotype(tt.verbose), "input %q", tt.verbose)
	}
}

func TestMap_SharedIdentityAcrossDrugs(t *testing.T) {
	m := newTestMapper(t)

	drugRisks := []domain.DrugRiskResult{
		{Drug: "CODEINE", BasedOnGene: "CYP2D6",
			Assessment: domain.RiskAssessment{RiskLabel: domain.RiskSafe}},
		{Drug: "WARFARIN", BasedOnGene: "CYP2C9",
			Assessment: domain.RiskAssessment{RiskLabel: domain.RiskSafe}},
	}

	responses := m.Map(context.Background(), drugRisks, nil, nil, true)
	require.Len(t, responses, 2)

	assert.Equal(t, responses[0].PatientID, responses[1].PatientID)
	assert.Equal(t, responses[0].Timestamp, responses[1].Timestamp)

	ts, err := time.Parse(time.RFC3339, responses[0].Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestMap_DetectedVariantsFilteredToGoverningGene(t *testing.T) {
	m := newTestMapper(t)

	variants := []domain.VariantRecord{
		{Gene: "CYP2D6", RSID: "rs3892097", StarAllele: "*4", Genotype: "0/1"},
		{Gene: "CYP2D6", RSID: "rs5030655", StarAllele: "*6", Genotype: "0/0"}, // not actionable
		{Gene: "TPMT", RSID: "rs1800462", StarAllele: "*2", Genotype: "0/1"},   // other gene
	}
	profiles := []domain.GeneProfile{
		{Gene: "CYP2D6", Diplotype: "*1/*4", Phenotype: "IM – Intermediate Metabolizer"},
	}
	drugRisks := []domain.DrugRiskResult{
		{Drug: "CODEINE", BasedOnGene: "CYP2D6", Phenotype: "IM – Intermediate Metabolizer",
			Assessment: domain.RiskAssessment{RiskLabel: domain.RiskAdjustDosage}},
	}

	responses := m.Map(context.Background(), drugRisks, profiles, variants, true)
	require.Len(t, responses, 1)

	profile := responses[0].PharmacogenomicProfile
	assert.Equal(t, "CYP2D6", profile.PrimaryGene)
	assert.Equal(t, "*1/*4", profile.Diplotype)
	assert.Equal(t, "IM", profile.Phenotype)
	require.Len(t, profile.DetectedVariants, 1)
	assert.Equal(t, "rs3892097", profile.DetectedVariants[0].RSID)
	assert.Equal(t, "*4", profile.DetectedVariants[0].StarAllele)
	assert.Equal(t, "0/1", profile.DetectedVariants[0].Genotype)
}

func TestMap_UnsupportedDrugGetsEmptyProfile(t *testing.T) {
	m := newTestMapper(t)

	drugRisks := []domain.DrugRiskResult{
		{Drug: "ASPIRIN",
			Assessment: domain.RiskAssessment{RiskLabel: domain.RiskUnknown}},
	}

	responses := m.Map(context.Background(), drugRisks, nil, nil, true)
	require.Len(t, responses, 1)

	profile := responses[0].PharmacogenomicProfile
	assert.Empty(t, profile.PrimaryGene)
	assert.Empty(t, profile.Diplotype)
	assert.Equal(t, "Unknown", profile.Phenotype)
	assert.NotNil(t, profile.DetectedVariants)
	assert.Empty(t, profile.DetectedVariants)
}

func TestMap_RecommendationAndExplanationAttached(t *testing.T) {
	m := newTestMapper(t)

	drugRisks := []domain.DrugRiskResult{
		{Drug: "CODEINE", BasedOnGene: "CYP2D6", Phenotype: "PM – Poor Metabolizer",
			Assessment: domain.RiskAssessment{RiskLabel: domain.RiskIneffective}},
	}

	responses := m.Map(context.Background(), drugRisks, nil, nil, true)
	require.Len(t, responses, 1)

	assert.Contains(t, responses[0].ClinicalRecommendation.Action, "Avoid codeine")
	// Disabled narrator always yields the static fallback
	assert.Equal(t, narrative.FallbackSummary, responses[0].Explanation.Summary)
}

func TestMap_EmptyDrugListYieldsEmptySlice(t *testing.T) {
	m := newTestMapper(t)

	responses := m.Map(context.Background(), []domain.DrugRiskResult{}, nil, nil, true)
	assert.NotNil(t, responses)
	assert.Empty(t, responses)
}
