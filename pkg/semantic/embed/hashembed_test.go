package embed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashEmbedIsDeterministic(t *testing.T) {
	a := HashEmbed("connection refused", 32)
	b := HashEmbed("connection refused", 32)
	require.Equal(t, a, b)
}

func TestHashEmbedIsNormalized(t *testing.T) {
	vec := HashEmbed("some terminal output here", 16)
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	require.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-6)
}

func TestHashEmbedOverlapProducesSimilarity(t *testing.T) {
	a := HashEmbed("error connection refused", 64)
	b := HashEmbed("error connection timeout", 64)
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	require.Greater(t, dot, 0.0)
}
