package similarity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosine_IdenticalVectors(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.01}
	require.Equal(t, 1.0, Cosine(v, v))
}

func TestCosine_Symmetry(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-2, 0.5, 7}
	require.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosine_Bounded(t *testing.T) {
	pairs := [][2][]float32{
		{{1, 0}, {0, 1}},
		{{1, 1}, {-1, -1}},
		{{3, 4}, {4, 3}},
		{{0.001, 0.002}, {1000, -2000}},
	}
	for _, p := range pairs {
		score := Cosine(p[0], p[1])
		require.GreaterOrEqual(t, score, -1.0)
		require.LessOrEqual(t, score, 1.0)
	}
}

func TestCosine_OppositeVectors(t *testing.T) {
	require.Equal(t, -1.0, Cosine([]float32{1, 2}, []float32{-1, -2}))
}

func TestCosine_OrthogonalVectors(t *testing.T) {
	require.Equal(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}))
}

func TestCosine_ZeroNorm(t *testing.T) {
	require.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 2}))
	require.Equal(t, 0.0, Cosine([]float32{1, 2}, []float32{0, 0}))
}

func TestCosine_DimensionMismatch(t *testing.T) {
	require.Equal(t, 0.0, Cosine([]float32{1, 2, 3}, []float32{1, 2}))
	require.Equal(t, 0.0, Cosine(nil, nil))
}

func TestCosine_RoundsToTwoDecimals(t *testing.T) {
	// cos(angle) = 0.497..., rounds up across the 0.5 threshold.
	a := []float32{1, 0}
	b := []float32{0.497, 0.8677}
	require.Equal(t, 0.5, Cosine(a, b))

	b = []float32{0.494, 0.8695}
	require.Equal(t, 0.49, Cosine(a, b))
}
