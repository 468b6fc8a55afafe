package stattest

import (
	"math/rand"

	"github.com/gnames/gndiv/pkg/ecostats"
	"golang.org/x/sync/errgroup"
)

// PermanovaParams controls the permutation test.
type PermanovaParams struct {
	// Permutations is the number of label permutations (999 is the
	// conventional default).
	Permutations int
	// Seed makes the permutation schedule deterministic. Permutation i
	// derives its generator from Seed and i, so results are identical
	// regardless of worker scheduling.
	Seed int64
	// Jobs bounds the number of concurrent permutation workers.
	// Values below one mean sequential execution.
	Jobs int
	// Progress, when set, is called once per finished permutation with
	// the permutation index. Calls may arrive out of order.
	Progress func(i int)
}

// PermanovaResult holds a one-factor PERMANOVA decomposition
// (Anderson 2001) of a distance matrix.
type PermanovaResult struct {
	// Factor is the tested factor name.
	Factor string
	// DFAmong and DFWithin are the among-group and within-group degrees
	// of freedom.
	DFAmong, DFWithin int
	// SSAmong, SSWithin and SSTotal partition the squared distances.
	SSAmong, SSWithin, SSTotal float64
	// F is the observed pseudo-F statistic.
	F float64
	// R2 is SSAmong / SSTotal, the fraction of variation explained.
	R2 float64
	// P is the permutation p-value, (#(F* >= F) + 1) / (perms + 1).
	// Never exactly zero.
	P float64
	// Permutations is the number of permutations actually run.
	Permutations int
}

// Permanova tests whether the groups differ in their position in the
// space implied by dm. groups holds one level per sample, parallel to
// dm.Samples.
//
// The pseudo-F statistic is computed directly from the distance
// matrix; its null distribution comes from recomputing it under random
// permutations of the group labels.
func Permanova(
	dm *ecostats.DistanceMatrix,
	factor string,
	groups []string,
	params PermanovaParams,
) (*PermanovaResult, error) {
	n := len(dm.Samples)
	if len(groups) != n {
		return nil, lengthMismatchError(n, len(groups))
	}

	sizes := make(map[string]int)
	for _, g := range groups {
		sizes[g]++
	}
	k := len(sizes)
	if k < 2 {
		return nil, SingleGroupError(k)
	}
	for _, g := range sortedKeys(sizes) {
		if sizes[g] < 2 {
			return nil, DegenerateGroupError(g, sizes[g])
		}
	}

	// Group membership as indices so permutations only shuffle an int
	// slice.
	groupIDs := make(map[string]int, k)
	for i, g := range sortedKeys(sizes) {
		groupIDs[g] = i
	}
	membership := make([]int, n)
	for i, g := range groups {
		membership[i] = groupIDs[g]
	}
	groupSizes := make([]float64, k)
	for _, id := range membership {
		groupSizes[id]++
	}

	ssTotal := totalSS(dm, n)
	ssWithin := withinSS(dm, membership, groupSizes)
	ssAmong := ssTotal - ssWithin
	dfAmong := k - 1
	dfWithin := n - k
	fObs := pseudoF(ssAmong, ssWithin, dfAmong, dfWithin)

	perms := params.Permutations
	if perms < 1 {
		perms = 999
	}
	jobs := params.Jobs
	if jobs < 1 {
		jobs = 1
	}

	fPerm := make([]float64, perms)
	var g errgroup.Group
	g.SetLimit(jobs)
	for p := 0; p < perms; p++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(params.Seed + int64(p) + 1))
			perm := make([]int, n)
			copy(perm, membership)
			rng.Shuffle(n, func(i, j int) {
				perm[i], perm[j] = perm[j], perm[i]
			})
			ssW := withinSS(dm, perm, groupSizes)
			fPerm[p] = pseudoF(ssTotal-ssW, ssW, dfAmong, dfWithin)
			if params.Progress != nil {
				params.Progress(p)
			}
			return nil
		})
	}
	_ = g.Wait()

	exceed := 0
	for _, f := range fPerm {
		if f >= fObs {
			exceed++
		}
	}

	return &PermanovaResult{
		Factor:       factor,
		DFAmong:      dfAmong,
		DFWithin:     dfWithin,
		SSAmong:      ssAmong,
		SSWithin:     ssWithin,
		SSTotal:      ssTotal,
		F:            fObs,
		R2:           ssAmong / ssTotal,
		P:            float64(exceed+1) / float64(perms+1),
		Permutations: perms,
	}, nil
}

// totalSS is the sum of squared distances over all pairs divided by n.
func totalSS(dm *ecostats.DistanceMatrix, n int) float64 {
	var ss float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := dm.Data[i][j]
			ss += d * d
		}
	}
	return ss / float64(n)
}

// withinSS sums, per group, the squared within-group distances divided
// by the group size.
func withinSS(
	dm *ecostats.DistanceMatrix,
	membership []int,
	groupSizes []float64,
) float64 {
	perGroup := make([]float64, len(groupSizes))
	n := len(membership)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if membership[i] == membership[j] {
				d := dm.Data[i][j]
				perGroup[membership[i]] += d * d
			}
		}
	}
	var ss float64
	for g, v := range perGroup {
		ss += v / groupSizes[g]
	}
	return ss
}

func pseudoF(ssAmong, ssWithin float64, dfAmong, dfWithin int) float64 {
	if ssWithin == 0 {
		// Identical samples within every group; any among-group
		// variation is then infinitely strong evidence.
		if ssAmong > 0 {
			return 1e308
		}
		return 0
	}
	return (ssAmong / float64(dfAmong)) / (ssWithin / float64(dfWithin))
}
