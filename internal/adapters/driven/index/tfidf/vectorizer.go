package tfidf

import (
	"math"
	"sort"

	"github.com/custodia-labs/vista/internal/core/domain"
)

// sparseVector is a sorted list of (term index, value) pairs.
type sparseVector struct {
	indices []int
	values  []float64
}

// dot returns the inner product of two sparse vectors.
func (a sparseVector) dot(b sparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.indices) && j < len(b.indices) {
		switch {
		case a.indices[i] == b.indices[j]:
			sum += a.values[i] * b.values[j]
			i++
			j++
		case a.indices[i] < b.indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// norm returns the Euclidean length of the vector.
func (a sparseVector) norm() float64 {
	var sum float64
	for _, v := range a.values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// vectorizer maps text into a fitted TF-IDF space.
type vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// fit learns the vocabulary and smoothed inverse document frequencies
// of texts and returns the normalised TF-IDF row of each text.
func fit(texts []string) (*vectorizer, []sparseVector) {
	vocabulary := make(map[string]int)
	counts := make([]map[int]int, len(texts))
	var df []int

	for row, text := range texts {
		tf := make(map[int]int)
		for _, term := range terms(text) {
			idx, ok := vocabulary[term]
			if !ok {
				idx = len(vocabulary)
				vocabulary[term] = idx
				df = append(df, 0)
			}
			if tf[idx] == 0 {
				df[idx]++
			}
			tf[idx]++
		}
		counts[row] = tf
	}

	n := float64(len(texts))
	idf := make([]float64, len(df))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	v := &vectorizer{vocabulary: vocabulary, idf: idf}

	matrix := make([]sparseVector, len(texts))
	for row, tf := range counts {
		matrix[row] = v.weigh(tf)
	}
	return v, matrix
}

// transform projects text into the fitted space. Terms outside the
// vocabulary are ignored. It fails with ErrIndexNotReady when unfitted.
func (v *vectorizer) transform(text string) (sparseVector, error) {
	if v == nil || v.vocabulary == nil {
		return sparseVector{}, domain.ErrIndexNotReady
	}

	tf := make(map[int]int)
	for _, term := range terms(text) {
		if idx, ok := v.vocabulary[term]; ok {
			tf[idx]++
		}
	}
	return v.weigh(tf), nil
}

// weigh turns raw term counts into an L2-normalised TF-IDF vector.
func (v *vectorizer) weigh(tf map[int]int) sparseVector {
	vec := sparseVector{
		indices: make([]int, 0, len(tf)),
		values:  make([]float64, 0, len(tf)),
	}
	for idx := range tf {
		vec.indices = append(vec.indices, idx)
	}
	sort.Ints(vec.indices)
	for _, idx := range vec.indices {
		vec.values = append(vec.values, float64(tf[idx])*v.idf[idx])
	}

	if norm := vec.norm(); norm > 0 {
		for i := range vec.values {
			vec.values[i] /= norm
		}
	}
	return vec
}

// size returns the vocabulary size.
func (v *vectorizer) size() int {
	if v == nil {
		return 0
	}
	return len(v.vocabulary)
}
