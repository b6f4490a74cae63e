// Package semantic provides lightweight TF-IDF text similarity over a
// growing corpus. It deliberately avoids embedding models so similarity
// stays deterministic, dependency-free, and cheap enough to run inline
// inside attention scoring.
package semantic

import (
	"math"
	"regexp"
	"strings"
	"sync"
)

var tokenPattern = regexp.MustCompile(`\w+`)

// stopwords filtered out before term statistics are taken.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "was": {},
	"are": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "should": {}, "could": {}, "may": {},
	"might": {}, "can": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "i": {}, "you": {}, "he": {}, "she": {}, "it": {},
	"we": {}, "they": {},
}

// Similarity scores text pairs using TF-IDF weighted cosine similarity.
// The model is stateful: AddDocument grows the document-frequency table,
// so scores for the same pair drift as the corpus grows. Scoring itself
// never mutates the model.
type Similarity struct {
	mu            sync.RWMutex
	documentCount int
	termDocFreq   map[string]int
}

// NewSimilarity creates an empty similarity model.
func NewSimilarity() *Similarity {
	return &Similarity{termDocFreq: make(map[string]int)}
}

// Tokenize lowercases text, splits it into word tokens, and drops
// stopwords and tokens of fewer than three characters.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) <= 2 {
			continue
		}
		if _, stop := stopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// AddDocument registers a document with the corpus. Each distinct term
// increments its document frequency once regardless of repetition.
func (s *Similarity) AddDocument(text string) {
	tokens := Tokenize(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.documentCount++
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		s.termDocFreq[token]++
	}
}

// TermFrequency returns each token's share of the token list.
func TermFrequency(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return map[string]float64{}
	}
	tf := make(map[string]float64)
	total := float64(len(tokens))
	for _, token := range tokens {
		tf[token] += 1.0 / total
	}
	return tf
}

// IDF returns ln(corpus size / document frequency) for a term, or 0 when
// the corpus is empty or the term was never seen.
func (s *Similarity) IDF(term string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idfLocked(term)
}

func (s *Similarity) idfLocked(term string) float64 {
	if s.documentCount == 0 {
		return 0
	}
	df := s.termDocFreq[term]
	if df == 0 {
		return 0
	}
	return math.Log(float64(s.documentCount) / float64(df))
}

// Vector computes the sparse TF-IDF vector for a text against the
// current corpus.
func (s *Similarity) Vector(text string) map[string]float64 {
	tf := TermFrequency(Tokenize(text))

	s.mu.RLock()
	defer s.mu.RUnlock()

	vec := make(map[string]float64, len(tf))
	for term, weight := range tf {
		vec[term] = weight * s.idfLocked(term)
	}
	return vec
}

// CosineSimilarity computes the cosine of the angle between two sparse
// vectors. Empty or zero-magnitude vectors score 0.
func CosineSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller map for the dot product.
	if len(b) < len(a) {
		a, b = b, a
	}
	dot := 0.0
	for term, av := range a {
		if bv, ok := b[term]; ok {
			dot += av * bv
		}
	}

	magA, magB := 0.0, 0.0
	for _, v := range a {
		magA += v * v
	}
	for _, v := range b {
		magB += v * v
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Score computes the similarity of two texts in [0, 1]. It reads the
// corpus statistics but never updates them.
func (s *Similarity) Score(text1, text2 string) float64 {
	return CosineSimilarity(s.Vector(text1), s.Vector(text2))
}

// DocumentCount returns the number of documents added to the corpus.
func (s *Similarity) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documentCount
}

// UniqueTerms returns the number of distinct terms seen across the corpus.
func (s *Similarity) UniqueTerms() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.termDocFreq)
}
