package interpretation

import (
	"sort"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard-server/internal/domain"
)

func newTestInterpreter() *Interpreter {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewInterpreter(logger)
}

func TestInterpret_NoVariantsBackfillsWholePanel(t *testing.T) {
	i := newTestInterpreter()

	profiles := i.Interpret(nil)
	require.Len(t, profiles, len(domain.PanelGenes))

	for _, p := range profiles {
		assert.Equal(t, "*1/*1", p.Diplotype)
		assert.NotEqual(t, domain.PhenotypeUnknown, p.Phenotype)
	}
}

func TestInterpret_AlwaysExactlyOneProfilePerPanelGene(t *testing.T) {
	i := newTestInterpreter()

	variants := []domain.VariantRecord{
		het("CYP2C19", "*2"),
		homAlt("TPMT", "*3A"),
		het("CYP3A4", "*22"), // off-panel, must not appear
	}

	profiles := i.Interpret(variants)
	require.Len(t, profiles, len(domain.PanelGenes))

	genes := make([]string, 0, len(profiles))
	for _, p := range profiles {
		genes = append(genes, p.Gene)
	}
	assert.True(t, sort.StringsAreSorted(genes))
	assert.ElementsMatch(t, domain.PanelGenes, genes)
}

func TestInterpret_ResolvedAndBackfilledProfiles(t *testing.T) {
	i := newTestInterpreter()

	variants := []domain.VariantRecord{
		het("CYP2C19", "*2"),
		homAlt("TPMT", "*3A"),
	}

	profiles := i.Interpret(variants)
	byGene := make(map[string]domain.GeneProfile)
	for _, p := range profiles {
		byGene[p.Gene] = p
	}

	assert.Equal(t, "*1/*2", byGene["CYP2C19"].Diplotype)
	assert.Equal(t, "IM – Intermediate Metabolizer", byGene["CYP2C19"].Phenotype)

	assert.Equal(t, "*3A/*3A", byGene["TPMT"].Diplotype)
	assert.Equal(t, "PM – Poor Metabolizer", byGene["TPMT"].Phenotype)

	// Untouched genes default to wild-type via the same lookup path
	assert.Equal(t, "*1/*1", byGene["CYP2D6"].Diplotype)
	assert.Equal(t, "NM – Normal Metabolizer", byGene["CYP2D6"].Phenotype)
	assert.Equal(t, "Normal Function", byGene["SLCO1B1"].Phenotype)
}

func TestInterpret_UninformativeGenotypesIgnored(t *testing.T) {
	i := newTestInterpreter()

	variants := []domain.VariantRecord{
		{Gene: "CYP2C9", StarAllele: "*3", Genotype: "0/0"},
		{Gene: "CYP2C9", StarAllele: "*2", Genotype: "./."},
	}

	profiles := i.Interpret(variants)
	byGene := make(map[string]domain.GeneProfile)
	for _, p := range profiles {
		byGene[p.Gene] = p
	}
	assert.Equal(t, "*1/*1", byGene["CYP2C9"].Diplotype)
}

func TestInterpret_HardLimitStillProducesProfile(t *testing.T) {
	i := newTestInterpreter()

	variants := []domain.VariantRecord{
		het("CYP2D6", "*3"),
		het("CYP2D6", "*4"),
		het("CYP2D6", "*5"),
	}

	profiles := i.Interpret(variants)
	byGene := make(map[string]domain.GeneProfile)
	for _, p := range profiles {
		byGene[p.Gene] = p
	}

	assert.Equal(t, "*3/*4", byGene["CYP2D6"].Diplotype)
	assert.Equal(t, "PM – Poor Metabolizer", byGene["CYP2D6"].Phenotype)
}

func TestInterpret_UnknownDiplotypeGetsSentinel(t *testing.T) {
	i := newTestInterpreter()

	variants := []domain.VariantRecord{
		het("CYP2C19", "*2"),
		het("CYP2C19", "*99"),
	}

	profiles := i.Interpret(variants)
	byGene := make(map[string]domain.GeneProfile)
	for _, p := range profiles {
		byGene[p.Gene] = p
	}

	assert.Equal(t, "*2/*99", byGene["CYP2C19"].Diplotype)
	assert.Equal(t, domain.PhenotypeUnknown, byGene["CYP2C19"].Phenotype)
}

func TestFilterActionable(t *testing.T) {
	variants := []domain.VariantRecord{
		het("CYP2C19", "*2"),
		{Gene: "CYP2C19", StarAllele: "*3", Genotype: "0/0"},
		{Gene: "", StarAllele: "*4", Genotype: "0/1"},
		homAlt("TPMT", "*3A"),
	}

	actionable := FilterActionable(variants)
	require.Len(t, actionable, 2)
	assert.Equal(t, "CYP2C19", actionable[0].Gene)
	assert.Equal(t, "TPMT", actionable[1].Gene)
}

func TestGroupByGene_PreservesOrderWithinGroup(t *testing.T) {
	variants := []domain.VariantRecord{
		het("CYP2D6", "*4"),
		het("TPMT", "*2"),
		het("CYP2D6", "*5"),
	}

	groups := GroupByGene(variants)
	require.Len(t, groups, 2)
	require.Len(t, groups["CYP2D6"], 2)
	assert.Equal(t, "*4", groups["CYP2D6"][0].StarAllele)
	assert.Equal(t, "*5", groups["CYP2D6"][1].StarAllele)
}
