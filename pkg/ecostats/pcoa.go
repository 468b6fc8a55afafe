package ecostats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

var errEigenFailed = errors.New(
	"symmetric eigendecomposition did not converge")

// PCoAResult holds a principal coordinates ordination of a distance
// matrix.
type PCoAResult struct {
	// Samples holds sample identifiers in row order.
	Samples []string
	// Coordinates is a len(Samples) x Axes matrix of ordination
	// coordinates, axes ordered by decreasing eigenvalue.
	Coordinates [][]float64
	// Eigenvalues holds all eigenvalues in decreasing order, negative
	// ones included. Only positive eigenvalues produce axes.
	Eigenvalues []float64
	// Proportion[k] is the fraction of the positive-eigenvalue sum
	// explained by axis k.
	Proportion []float64
	// Axes is the number of retained (positive-eigenvalue) axes.
	Axes int
}

// eigTol treats near-zero eigenvalues, positive or negative, as zero.
const eigTol = 1e-9

// PCoA performs classical principal coordinates analysis (metric
// multidimensional scaling) of dm: Gower double-centering of the
// squared distances followed by an eigendecomposition. Negative
// eigenvalues, a normal artifact of semimetric distances like
// Bray-Curtis, are reported but produce no axes.
func PCoA(dm *DistanceMatrix) (*PCoAResult, error) {
	n := len(dm.Samples)
	b := mat.NewSymDense(n, nil)

	// B = -1/2 * J * D^2 * J with J = I - 11'/n, computed directly from
	// the row/column/grand means of the squared distances.
	sq := make([][]float64, n)
	rowMean := make([]float64, n)
	var grand float64
	for i := 0; i < n; i++ {
		sq[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			v := dm.Data[i][j] * dm.Data[i][j]
			sq[i][j] = v
			rowMean[i] += v
			grand += v
		}
		rowMean[i] /= float64(n)
	}
	grand /= float64(n * n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := -0.5 * (sq[i][j] - rowMean[i] - rowMean[j] + grand)
			b.SetSym(i, j, v)
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(b, true); !ok {
		return nil, OrdinationError(errEigenFailed)
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// gonum returns eigenvalues in ascending order; ordination axes go
	// by decreasing eigenvalue.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return vals[order[a]] > vals[order[b]]
	})

	res := &PCoAResult{
		Samples:     dm.Samples,
		Eigenvalues: make([]float64, n),
	}
	var posSum float64
	for k, idx := range order {
		res.Eigenvalues[k] = vals[idx]
		if vals[idx] > eigTol {
			res.Axes++
			posSum += vals[idx]
		}
	}

	res.Coordinates = make([][]float64, n)
	for i := range res.Coordinates {
		res.Coordinates[i] = make([]float64, res.Axes)
	}
	res.Proportion = make([]float64, res.Axes)
	for k := 0; k < res.Axes; k++ {
		idx := order[k]
		scale := math.Sqrt(vals[idx])
		for i := 0; i < n; i++ {
			res.Coordinates[i][k] = vecs.At(i, idx) * scale
		}
		res.Proportion[k] = vals[idx] / posSum
	}
	return res, nil
}
