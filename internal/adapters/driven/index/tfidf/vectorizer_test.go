package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vista/internal/core/domain"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"provide", "feedback", "within", "48", "hours"},
		tokenize("Provide feedback within 48 hours."))
	assert.Equal(t, []string{"don", "café"}, tokenize("Don't a CAFÉ"))
	assert.Empty(t, tokenize("a b c !"))
}

func TestTerms(t *testing.T) {
	assert.Equal(t,
		[]string{"feedback", "timing", "policy", "feedback timing", "timing policy"},
		terms("Feedback timing, policy"))
	assert.Equal(t, []string{"solo"}, terms("solo"))
	assert.Nil(t, terms("  "))
}

func TestFit_IDFAndNormalisation(t *testing.T) {
	v, matrix := fit([]string{"alpha beta", "alpha gamma"})

	require.Len(t, matrix, 2)

	// alpha appears in both documents: ln(3/3)+1 = 1
	assert.InDelta(t, 1.0, v.idf[v.vocabulary["alpha"]], 1e-12)
	// beta appears in one: ln(3/2)+1
	assert.InDelta(t, math.Log(1.5)+1, v.idf[v.vocabulary["beta"]], 1e-12)
	assert.Contains(t, v.vocabulary, "alpha beta")

	for _, row := range matrix {
		assert.InDelta(t, 1.0, row.norm(), 1e-12)
	}
	assert.Equal(t, 5, v.size())
}

func TestTransform(t *testing.T) {
	v, matrix := fit([]string{"feedback timing", "vendor list"})

	q, err := v.transform("feedback timing")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, q.dot(matrix[0]), 1e-12)
	assert.InDelta(t, 0.0, q.dot(matrix[1]), 1e-12)

	unknown, err := v.transform("nothing matches here")
	require.NoError(t, err)
	assert.Empty(t, unknown.indices)
	assert.Equal(t, 0.0, unknown.dot(matrix[0]))
}

func TestTransform_Unfitted(t *testing.T) {
	var v *vectorizer

	_, err := v.transform("query")
	assert.ErrorIs(t, err, domain.ErrIndexNotReady)

	_, err = (&vectorizer{}).transform("query")
	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestSparseVector_Dot(t *testing.T) {
	a := sparseVector{indices: []int{0, 2, 5}, values: []float64{1, 2, 3}}
	b := sparseVector{indices: []int{2, 3, 5}, values: []float64{4, 5, 6}}

	assert.Equal(t, 2*4+3*6.0, a.dot(b))
	assert.Equal(t, a.dot(b), b.dot(a))
	assert.Equal(t, 0.0, a.dot(sparseVector{}))
}
