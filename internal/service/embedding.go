package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions matches the vector column width on the notes table.
const EmbeddingDimensions = 64

// GenerateEmbedding returns a deterministic embedding for the given text.
// Each lowercased word is hashed into one of EmbeddingDimensions buckets and
// the counts are L2 normalized, so texts sharing vocabulary land close
// together.
func GenerateEmbedding(text string) pgvector.Vector {
	vec := make([]float32, EmbeddingDimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%EmbeddingDimensions]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return pgvector.NewVector(vec)
}

// embeddingDistance is the Euclidean distance, matching pgvector's <->.
// Mismatched or empty vectors sort last.
func embeddingDistance(a, b pgvector.Vector) float64 {
	x, y := a.Slice(), b.Slice()
	if len(x) == 0 || len(x) != len(y) {
		return math.Inf(1)
	}
	var sum float64
	for i := range x {
		d := float64(x[i] - y[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
