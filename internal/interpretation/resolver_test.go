package interpretation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard-server/internal/domain"
)

func het(gene, star string) domain.VariantRecord {
	return domain.VariantRecord{Gene: gene, StarAllele: star, Genotype: "0/1"}
}

func homAlt(gene, star string) domain.VariantRecord {
	return domain.VariantRecord{Gene: gene, StarAllele: star, Genotype: "1/1"}
}

func TestResolve_EmptyGroup(t *testing.T) {
	assert.Nil(t, Resolve(nil))
	assert.Nil(t, Resolve([]domain.VariantRecord{}))
}

func TestResolve_HomozygousAltShortCircuits(t *testing.T) {
	variants := []domain.VariantRecord{
		het("CYP2C19", "*17"),
		homAlt("CYP2C19", "*2"),
		het("CYP2C19", "*3"),
	}

	r := Resolve(variants)
	require.NotNil(t, r)
	assert.Equal(t, "*2", r.Allele1)
	assert.Equal(t, "*2", r.Allele2)
	assert.False(t, r.HardLimitExceeded)
}

func TestResolve_FirstHomozygousAltWins(t *testing.T) {
	variants := []domain.VariantRecord{
		homAlt("TPMT", "*3A"),
		homAlt("TPMT", "*2"),
	}

	r := Resolve(variants)
	require.NotNil(t, r)
	assert.Equal(t, "*3A", r.Allele1)
	assert.Equal(t, "*3A", r.Allele2)
}

func TestResolve_SingleHetAssumesWildType(t *testing.T) {
	r := Resolve([]domain.VariantRecord{het("CYP2C9", "*3")})
	require.NotNil(t, r)
	assert.Equal(t, "*1", r.Allele1)
	assert.Equal(t, "*3", r.Allele2)
}

func TestResolve_DuplicateHetAllelesCollapse(t *testing.T) {
	// Two calls for the same star allele still mean one distinct allele
	variants := []domain.VariantRecord{
		het("DPYD", "*2A"),
		het("DPYD", "*2A"),
	}

	r := Resolve(variants)
	require.NotNil(t, r)
	assert.Equal(t, "*1", r.Allele1)
	assert.Equal(t, "*2A", r.Allele2)
}

func TestResolve_CompoundHeterozygous(t *testing.T) {
	variants := []domain.VariantRecord{
		het("CYP2C19", "*2"),
		het("CYP2C19", "*3"),
	}

	r := Resolve(variants)
	require.NotNil(t, r)
	assert.Equal(t, "*2", r.Allele1)
	assert.Equal(t, "*3", r.Allele2)
	assert.False(t, r.HardLimitExceeded)
}

func TestResolve_HardLimitTruncation(t *testing.T) {
	variants := []domain.VariantRecord{
		het("CYP2D6", "*3"),
		het("CYP2D6", "*4"),
		het("CYP2D6", "*5"),
	}

	r := Resolve(variants)
	require.NotNil(t, r)
	assert.Equal(t, "*3", r.Allele1)
	assert.Equal(t, "*4", r.Allele2)
	assert.True(t, r.HardLimitExceeded)
}

func TestResolve_OnlyUninformativeGenotypes(t *testing.T) {
	variants := []domain.VariantRecord{
		{Gene: "CYP2C19", StarAllele: "*2", Genotype: "0/0"},
		{Gene: "CYP2C19", StarAllele: "*3", Genotype: "./."},
	}
	assert.Nil(t, Resolve(variants))
}

func TestNormalizeAllele(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"*2", "*2"},
		{"2", "*2"},
		{"3A", "*3A"},
		{" *4 ", "*4"},
		{"", "*1"},
		{"  ", "*1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeAllele(tt.in), "input %q", tt.in)
	}
}
