package narrative

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard-server/internal/domain"
)

func TestNewGenerator_DisabledRunsInFallbackMode(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	cache, err := NewLRUCache(8)
	require.NoError(t, err)

	g, err := NewGenerator(context.Background(), domain.NarratorConfig{Enabled: false}, cache, logger)
	require.NoError(t, err)

	explanation := g.Summarize(context.Background(), Facts{
		Drug:      "CODEINE",
		Gene:      "CYP2D6",
		RiskLabel: "Safe",
	})
	assert.Equal(t, FallbackSummary, explanation.Summary)
}

func TestNewGenerator_EnabledWithoutKeyStaysDisabled(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	g, err := NewGenerator(context.Background(), domain.NarratorConfig{Enabled: true}, nil, logger)
	require.NoError(t, err)

	explanation := g.Summarize(context.Background(), Facts{Drug: "WARFARIN"})
	assert.Equal(t, FallbackSummary, explanation.Summary)
}

func TestFactBlock_BlankValuesRenderAsUnknown(t *testing.T) {
	block := Facts{Drug: "CODEINE"}.factBlock()

	assert.Contains(t, block, "Drug: CODEINE")
	assert.Contains(t, block, "Governing gene: Unknown")
	assert.Contains(t, block, "Phenotype: Unknown")
}

func TestFactBlock_DeterministicForEqualFacts(t *testing.T) {
	facts := Facts{
		Drug:      "FLUOROURACIL",
		Gene:      "DPYD",
		Diplotype: "*2A/*2A",
		Phenotype: "PM – Poor Metabolizer",
		RiskLabel: "Toxic",
		Severity:  "critical",
		Action:    "Do not administer",
	}

	assert.Equal(t, facts.factBlock(), facts.factBlock())
	assert.Equal(t, CacheKey(facts.factBlock()), CacheKey(facts.factBlock()))
}
