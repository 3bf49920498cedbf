package cluster

import (
	"math"
	"math/rand"
)

const kmeansMaxIter = 100

// kMeans assigns each vector to one of k clusters with Lloyd's algorithm.
// All randomness comes from the seeded source and ties break on the lowest
// index, so the same input and seed always yield the same assignment.
func kMeans(vecs [][]float64, k int, seed int64) []int {
	n := len(vecs)
	if n == 0 {
		return nil
	}
	if k > n {
		k = n
	}

	rng := rand.New(rand.NewSource(seed))
	dim := len(vecs[0])

	// Initial centroids: k distinct rows chosen by the seeded source.
	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		centroids[i] = append([]float64(nil), vecs[idx]...)
	}

	assign := make([]int, n)
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, v := range vecs {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := sqDist(v, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dim)
		}
		for i, v := range vecs {
			c := assign[i]
			counts[c]++
			for j, x := range v {
				next[c][j] += x
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// Re-seed an empty cluster with the point farthest from
				// its current centroid.
				far, farDist := 0, -1.0
				for i, v := range vecs {
					if d := sqDist(v, centroids[assign[i]]); d > farDist {
						far, farDist = i, d
					}
				}
				copy(next[c], vecs[far])
				assign[far] = c
				continue
			}
			for j := range next[c] {
				next[c][j] /= float64(counts[c])
			}
		}
		centroids = next
	}
	return assign
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
