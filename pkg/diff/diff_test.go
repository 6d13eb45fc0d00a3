package diff

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdentical(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("hello world", "hello world"))
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestSimilarityDisjoint(t *testing.T) {
	s := Similarity("aaaa", "bbbb")
	assert.Equal(t, 0.0, s)
}

func TestOriginalityScoreVerbatimCopy(t *testing.T) {
	content := "# Heading\n\nSome note content."
	assert.Equal(t, 0.0, OriginalityScore(content, content))
}

func TestOriginalityScoreGrowsWithEdits(t *testing.T) {
	source := "The quick brown fox jumps over the lazy dog."
	lightEdit := "The quick brown fox leaps over the lazy dog."
	heavyEdit := "A completely different sentence about notebooks."

	light := OriginalityScore(source, lightEdit)
	heavy := OriginalityScore(source, heavyEdit)

	assert.Greater(t, light, 0.0)
	assert.Greater(t, heavy, light)
}

func TestPropertyScoreBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("originality score stays in [0,1]", prop.ForAll(
		func(a, b string) bool {
			s := OriginalityScore(a, b)
			return s >= 0 && s <= 1
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("identical texts score zero", prop.ForAll(
		func(a string) bool {
			return OriginalityScore(a, a) == 0
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestMergeTextsNonConflicting(t *testing.T) {
	base := "Line1\nLine2\nLine3"
	a := "Line1 extended\nLine2\nLine3"
	b := "Line1\nLine2\nLine3 extended"

	merged, ok := MergeTexts(base, a, b, true)

	assert.True(t, ok)
	assert.True(t, strings.Contains(merged, "Line1 extended"))
	assert.True(t, strings.Contains(merged, "Line3 extended"))
}

func TestMergeTextsKeepsBothInsertions(t *testing.T) {
	base := "shared"
	a := "prefix shared"
	b := "shared suffix"

	merged, ok := MergeTexts(base, a, b, false)

	assert.True(t, ok)
	assert.True(t, strings.Contains(merged, "prefix"))
	assert.True(t, strings.Contains(merged, "suffix"))
}
