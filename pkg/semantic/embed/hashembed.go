// Package embed provides a deterministic, dependency-free stand-in text
// embedder used by tests and offline evaluation of the semantic lane, where
// a real embedding model is out of scope for the core.
package embed

import (
	"hash/fnv"
	"math"

	"frankenterm-core/pkg/lexical"
)

// HashEmbed produces a fixed-dimension vector from token hashes: each token
// of text contributes +1 to the dimension its FNV-1a hash maps into, and the
// result is L2-normalized. Two texts with overlapping vocabulary get
// non-zero cosine similarity without needing a trained model; it is a
// stand-in, not a quality embedder.
func HashEmbed(text string, dimension int) []float32 {
	if dimension <= 0 {
		return nil
	}
	vec := make([]float32, dimension)
	for _, tok := range lexical.TokenizeText(text) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		idx := int(h.Sum32()) % dimension
		if idx < 0 {
			idx += dimension
		}
		vec[idx]++
	}
	normalize(vec)
	return vec
}

func normalize(vec []float32) {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSq))
	for i := range vec {
		vec[i] /= norm
	}
}
