package semantic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits",
			text: "Contract SIGNED between Parties",
			want: []string{"contract", "signed", "between", "parties"},
		},
		{
			name: "drops stopwords and short tokens",
			text: "the cat is on a mat by me",
			want: []string{"cat", "mat"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "punctuation ignored",
			text: "payment, delayed; penalty!",
			want: []string{"payment", "delayed", "penalty"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestTermFrequency(t *testing.T) {
	tf := TermFrequency([]string{"alpha", "beta", "alpha", "gamma"})
	assert.InDelta(t, 0.5, tf["alpha"], 1e-9)
	assert.InDelta(t, 0.25, tf["beta"], 1e-9)
	assert.InDelta(t, 0.25, tf["gamma"], 1e-9)

	assert.Empty(t, TermFrequency(nil))
}

func TestIDF(t *testing.T) {
	s := NewSimilarity()

	t.Run("empty corpus scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.IDF("anything"))
	})

	s.AddDocument("payment schedule payment terms")
	s.AddDocument("delivery schedule")
	s.AddDocument("penalty clause")

	t.Run("rarer terms weigh more", func(t *testing.T) {
		assert.Greater(t, s.IDF("penalty"), s.IDF("schedule"))
	})

	t.Run("repetition within a document counts once", func(t *testing.T) {
		// "payment" appears twice in one document: df stays 1.
		assert.InDelta(t, math.Log(3.0/1.0), s.IDF("payment"), 1e-9)
		assert.InDelta(t, math.Log(3.0/2.0), s.IDF("schedule"), 1e-9)
	})

	t.Run("unseen term scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.IDF("arbitration"))
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := map[string]float64{"x": 0.5, "y": 0.3}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		a := map[string]float64{"x": 1}
		b := map[string]float64{"y": 1}
		assert.Equal(t, 0.0, CosineSimilarity(a, b))
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(nil, map[string]float64{"x": 1}))
	})

	t.Run("zero magnitude", func(t *testing.T) {
		a := map[string]float64{"x": 0}
		b := map[string]float64{"x": 1}
		assert.Equal(t, 0.0, CosineSimilarity(a, b))
	})
}

func TestScore(t *testing.T) {
	s := NewSimilarity()
	s.AddDocument("contract payment delayed penalty")
	s.AddDocument("delivery completed warehouse")
	s.AddDocument("payment received confirmation")

	t.Run("related texts beat unrelated texts", func(t *testing.T) {
		related := s.Score("payment delayed", "payment penalty")
		unrelated := s.Score("payment delayed", "delivery warehouse")
		assert.Greater(t, related, unrelated)
	})

	t.Run("identical texts score one", func(t *testing.T) {
		assert.InDelta(t, 1.0, s.Score("payment penalty", "payment penalty"), 1e-9)
	})

	t.Run("scoring does not mutate the corpus", func(t *testing.T) {
		docs, terms := s.DocumentCount(), s.UniqueTerms()
		first := s.Score("payment delayed", "payment penalty")
		second := s.Score("payment delayed", "payment penalty")
		assert.Equal(t, first, second)
		assert.Equal(t, docs, s.DocumentCount())
		assert.Equal(t, terms, s.UniqueTerms())
	})

	t.Run("adding documents shifts existing scores", func(t *testing.T) {
		before := s.Score("payment delayed", "payment penalty")
		s.AddDocument("unrelated topic entirely different vocabulary")
		after := s.Score("payment delayed", "payment penalty")
		assert.NotEqual(t, before, after)
	})
}

func TestStats(t *testing.T) {
	s := NewSimilarity()
	assert.Equal(t, 0, s.DocumentCount())
	assert.Equal(t, 0, s.UniqueTerms())

	s.AddDocument("alpha beta gamma")
	s.AddDocument("alpha delta")
	assert.Equal(t, 2, s.DocumentCount())
	assert.Equal(t, 4, s.UniqueTerms())
}
