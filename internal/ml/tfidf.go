// Package ml implements the TF-IDF text embedding used by the recommendation
// pipeline: a fit/transform vectorizer over word n-grams, producing sparse
// L2-normalized row vectors.
package ml

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]{2,}`)

// Vector is a sparse row in vocabulary space. Indices are strictly
// increasing and parallel to Values.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot computes the inner product of two sparse vectors. Rows produced by the
// vectorizer are L2-normalized, so the dot product equals cosine similarity.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean norm of the vector.
func (v Vector) Norm() float64 {
	return floats.Norm(v.Values, 2)
}

// NNZ returns the number of stored entries.
func (v Vector) NNZ() int { return len(v.Indices) }

func (v *Vector) normalize() {
	n := v.Norm()
	if n > 0 {
		floats.Scale(1/n, v.Values)
	}
}

// Vectorizer maps text to TF-IDF vectors over a fixed vocabulary of word
// n-grams. Fields are exported for gob round-tripping of artifact bundles.
type Vectorizer struct {
	Vocabulary map[string]int
	IDF        []float64
	NgramMin   int
	NgramMax   int
	MinDF      int
}

// Dims returns the vocabulary size.
func (v *Vectorizer) Dims() int { return len(v.IDF) }

// FitTFIDF builds a vectorizer over the corpus using word n-grams in
// [ngramMin, ngramMax], discarding terms occurring in fewer than minDF
// documents, and returns the row-aligned document matrix. Fitting an empty
// corpus, or a corpus whose vocabulary entirely fails the minDF threshold,
// is an error rather than a zero-dimension matrix.
func FitTFIDF(corpus []string, ngramMin, ngramMax, minDF int) (*Vectorizer, []Vector, error) {
	if len(corpus) == 0 {
		return nil, nil, errors.New("tfidf: empty corpus")
	}
	if ngramMin < 1 || ngramMax < ngramMin {
		return nil, nil, fmt.Errorf("tfidf: invalid ngram range (%d,%d)", ngramMin, ngramMax)
	}
	if minDF < 1 {
		minDF = 1
	}

	df := make(map[string]int)
	docTerms := make([][]string, len(corpus))
	for d, doc := range corpus {
		terms := ngrams(tokenize(doc), ngramMin, ngramMax)
		docTerms[d] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	vocabTerms := make([]string, 0, len(df))
	for t, n := range df {
		if n >= minDF {
			vocabTerms = append(vocabTerms, t)
		}
	}
	if len(vocabTerms) == 0 {
		return nil, nil, fmt.Errorf("tfidf: no terms survive min_df=%d over %d documents", minDF, len(corpus))
	}
	sort.Strings(vocabTerms)

	vec := &Vectorizer{
		Vocabulary: make(map[string]int, len(vocabTerms)),
		IDF:        make([]float64, len(vocabTerms)),
		NgramMin:   ngramMin,
		NgramMax:   ngramMax,
		MinDF:      minDF,
	}
	n := float64(len(corpus))
	for i, t := range vocabTerms {
		vec.Vocabulary[t] = i
		// Smoothed IDF, as if one extra document contained every term.
		vec.IDF[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	matrix := make([]Vector, len(corpus))
	for d, terms := range docTerms {
		matrix[d] = vec.vectorize(terms)
	}
	return vec, matrix, nil
}

// Transform projects texts into the fitted vocabulary space. It is a pure
// projection: terms outside the vocabulary are ignored and the vectorizer is
// never modified.
func (v *Vectorizer) Transform(texts []string) []Vector {
	out := make([]Vector, len(texts))
	for i, t := range texts {
		out[i] = v.vectorize(ngrams(tokenize(t), v.NgramMin, v.NgramMax))
	}
	return out
}

// TransformOne is Transform for a single text.
func (v *Vectorizer) TransformOne(text string) Vector {
	return v.Transform([]string{text})[0]
}

func (v *Vectorizer) vectorize(terms []string) Vector {
	counts := make(map[int]float64)
	for _, t := range terms {
		if idx, ok := v.Vocabulary[t]; ok {
			counts[idx]++
		}
	}
	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	for _, idx := range vec.Indices {
		vec.Values = append(vec.Values, counts[idx]*v.IDF[idx])
	}
	vec.normalize()
	return vec
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func ngrams(tokens []string, min, max int) []string {
	if max <= 1 {
		return tokens
	}
	var out []string
	for n := min; n <= max; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
