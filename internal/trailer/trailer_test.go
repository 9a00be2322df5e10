package trailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupByTitle(t *testing.T) {
	table := Table{"Heat": "ref-heat"}

	ref, ok := table.Lookup("Heat", "")
	assert.True(t, ok)
	assert.Equal(t, "ref-heat", ref)
}

func TestLookupFallsBackToOriginalTitle(t *testing.T) {
	table := Table{"Léon": "ref-leon"}

	ref, ok := table.Lookup("The Professional", "Léon")
	assert.True(t, ok)
	assert.Equal(t, "ref-leon", ref)
}

func TestLookupUsesFallbackEntry(t *testing.T) {
	table := Table{Fallback: "ref-default"}

	ref, ok := table.Lookup("Unknown Movie", "")
	assert.True(t, ok)
	assert.Equal(t, "ref-default", ref)
}

func TestLookupMissWithoutFallback(t *testing.T) {
	table := Table{"Heat": "ref-heat"}

	_, ok := table.Lookup("Unknown Movie", "Also Unknown")
	assert.False(t, ok)
}

func TestEmptyTitlesDoNotMatchFallbackKey(t *testing.T) {
	table := Table{Fallback: "ref-default", "Heat": "ref-heat"}

	ref, ok := table.Lookup("", "")
	assert.True(t, ok)
	assert.Equal(t, "ref-default", ref, "blank titles resolve straight to the fallback")
}

func TestDefaultTableHasFallback(t *testing.T) {
	_, ok := DefaultTable().Lookup("definitely not a movie", "")
	assert.True(t, ok)
}
