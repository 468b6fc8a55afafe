package ecostats

import (
	"golang.org/x/sync/errgroup"
)

// DistanceMatrix is a symmetric pairwise dissimilarity matrix over
// samples. Values are in [0, 1] and the diagonal is exactly zero.
type DistanceMatrix struct {
	// Samples holds sample identifiers in row/column order.
	Samples []string
	// Index maps sample ID -> row/column index in Data.
	Index map[string]int
	// Data[i][j] is the dissimilarity between samples i and j.
	Data [][]float64
}

// NewDistanceMatrix allocates a zero matrix over the given samples.
func NewDistanceMatrix(samples []string) *DistanceMatrix {
	n := len(samples)
	idx := make(map[string]int, n)
	for i, s := range samples {
		idx[s] = i
	}
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, n)
	}
	return &DistanceMatrix{Samples: samples, Index: idx, Data: data}
}

// BrayCurtis computes the Bray-Curtis dissimilarity matrix of tbl:
//
//	D(i,j) = sum_k |x_ik - x_jk| / sum_k (x_ik + x_jk)
//
// The matrix is symmetric by construction, with an exact zero
// diagonal. Rows are computed concurrently with up to jobs workers
// (jobs <= 1 keeps it sequential); the result does not depend on
// scheduling.
func BrayCurtis(tbl *AbundanceTable, jobs int) *DistanceMatrix {
	dm := NewDistanceMatrix(tbl.Samples)
	n := len(tbl.Samples)
	if jobs < 1 {
		jobs = 1
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			for j := i + 1; j < n; j++ {
				d := brayCurtisPair(tbl.Counts[i], tbl.Counts[j])
				// Distinct cells per goroutine: row i writes only
				// [i][j] and its mirror [j][i] with j > i.
				dm.Data[i][j] = d
				dm.Data[j][i] = d
			}
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()
	return dm
}

func brayCurtisPair(a, b []int) float64 {
	var num, den int
	for k := range a {
		d := a[k] - b[k]
		if d < 0 {
			d = -d
		}
		num += d
		den += a[k] + b[k]
	}
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
