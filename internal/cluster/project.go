package cluster

import (
	"math"

	"github.com/danaugrs/go-tsne/tsne"
	"gonum.org/v1/gonum/mat"
)

const (
	tsneLearningRate = 300
	tsneMaxIter      = 300

	// t-SNE requires perplexity strictly below the sample count; small
	// partitions get a clamped value and partitions below this size skip
	// the projection entirely.
	tsneMinSamples = 4
)

// perplexityFor clamps perplexity for a partition of n samples: at most
// half the sample count, at most 30, never below 2.
func perplexityFor(n int) float64 {
	p := math.Min(30, float64(n)/2)
	if p < 2 {
		p = 2
	}
	return p
}

// projectTSNE reduces the embedding vectors to 2-D coordinates for visual
// exploration. Partitions too small for a valid perplexity come back at the
// origin instead of failing. Coordinates are statistically, not bit-exactly,
// reproducible across runs; cluster assignment does not depend on them.
func projectTSNE(vecs [][]float64) [][2]float64 {
	n := len(vecs)
	coords := make([][2]float64, n)
	if n < tsneMinSamples {
		return coords
	}

	dim := len(vecs[0])
	flat := make([]float64, 0, n*dim)
	for _, v := range vecs {
		flat = append(flat, v...)
	}
	x := mat.NewDense(n, dim, flat)

	t := tsne.NewTSNE(2, perplexityFor(n), tsneLearningRate, tsneMaxIter, false)
	y := t.EmbedData(x, nil)

	for i := 0; i < n; i++ {
		coords[i] = [2]float64{y.At(i, 0), y.At(i, 1)}
	}
	return coords
}
