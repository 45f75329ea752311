package oaipmh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSetString(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Texte imprimé", "texte_imprime", true},
		{"Photographie", "photographie", true},
		{"Still Image", "still_image", true},
		{"Œuvre d'art", "", false},
		{"Carte postale", "carte_postale", true},
		{"télédétection", "teledetection", true},
		{"Événement", "evenement", true},
		{"ISO 8601", "iso_8601", true},
		{"a.b-c_d", "a.b-c_d", true},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := CleanSetString(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestCleanSetString_Idempotent(t *testing.T) {
	first, ok := CleanSetString("Texte imprimé")
	assert.True(t, ok)
	second, ok := CleanSetString(first)
	assert.True(t, ok)
	assert.Equal(t, first, second)
}

func TestQualifySetSpec(t *testing.T) {
	assert.Equal(t, "photographie", QualifySetSpec(true, CategoryType, "photographie"))
	assert.Equal(t, "type:photographie", QualifySetSpec(false, CategoryType, "photographie"))
	assert.Equal(t, "itemset:12", QualifySetSpec(false, CategoryItemSet, "12"))
}

func TestSplitSetSpec(t *testing.T) {
	t.Run("flat has no category", func(t *testing.T) {
		category, rest := SplitSetSpec(true, "itemset_12")
		assert.Equal(t, "", category)
		assert.Equal(t, "itemset_12", rest)
	})

	t.Run("hierarchical", func(t *testing.T) {
		category, rest := SplitSetSpec(false, "type:photographie")
		assert.Equal(t, "type", category)
		assert.Equal(t, "photographie", rest)
	})
}

func TestUnspaceSetValue(t *testing.T) {
	assert.Equal(t, "texte imprime", UnspaceSetValue("texte_imprime"))
}
