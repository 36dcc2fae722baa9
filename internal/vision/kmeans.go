package vision

import (
	"errors"
	"math"
	"math/rand"
)

const kmeansMaxIterations = 100

// kmeans partitions points into k clusters with Lloyd's algorithm and
// returns a cluster label per point. The seed fixes centroid initialization
// so the same board always clusters the same way.
func kmeans(points [][]float32, k int, seed int64) ([]int, error) {
	if k <= 0 {
		return nil, errors.New("cluster count must be positive")
	}
	if len(points) < k {
		return nil, errors.New("fewer points than clusters")
	}
	dim := len(points[0])
	for _, p := range points {
		if len(p) != dim {
			return nil, errors.New("points have mixed dimensions")
		}
	}

	rng := rand.New(rand.NewSource(seed))

	// Initialize centroids from k distinct points.
	perm := rng.Perm(len(points))
	centroids := make([][]float32, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float32(nil), points[perm[i]]...)
	}

	labels := make([]int, len(points))
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; an emptied cluster keeps its previous
		// position.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += float64(v)
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dim; d++ {
				centroids[c][d] = float32(sums[c][d] / float64(counts[c]))
			}
		}
	}

	return labels, nil
}

func nearestCentroid(p []float32, centroids [][]float32) int {
	best := 0
	bestDist := math.MaxFloat64
	for c, centroid := range centroids {
		var dist float64
		for d, v := range p {
			diff := float64(v) - float64(centroid[d])
			dist += diff * diff
		}
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}
