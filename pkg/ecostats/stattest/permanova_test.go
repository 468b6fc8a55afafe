package stattest_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/pkg/ecostats"
	"github.com/gnames/gndiv/pkg/ecostats/stattest"
	"github.com/gnames/gndiv/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clusteredMatrix builds a distance matrix with two well separated
// groups of four samples each: short distances inside a group, long
// ones across.
func clusteredMatrix() (*ecostats.DistanceMatrix, []string) {
	samples := []string{"a1", "a2", "a3", "a4", "b1", "b2", "b3", "b4"}
	groups := []string{"A", "A", "A", "A", "B", "B", "B", "B"}
	dm := ecostats.NewDistanceMatrix(samples)
	for i := range samples {
		for j := i + 1; j < len(samples); j++ {
			d := 0.1
			if groups[i] != groups[j] {
				d = 0.9
			}
			dm.Data[i][j] = d
			dm.Data[j][i] = d
		}
	}
	return dm, groups
}

func TestPermanova(t *testing.T) {
	dm, groups := clusteredMatrix()
	params := stattest.PermanovaParams{
		Permutations: 999,
		Seed:         1,
		Jobs:         4,
	}

	res, err := stattest.Permanova(dm, "group", groups, params)
	require.NoError(t, err)

	t.Run("degrees of freedom", func(t *testing.T) {
		assert.Equal(t, 1, res.DFAmong)
		assert.Equal(t, 6, res.DFWithin)
		assert.Equal(t, 999, res.Permutations)
	})

	t.Run("sums of squares partition", func(t *testing.T) {
		assert.InDelta(t, res.SSTotal, res.SSAmong+res.SSWithin, 1e-9)
		assert.Greater(t, res.R2, 0.9)
	})

	t.Run("separated groups give a small p-value", func(t *testing.T) {
		assert.Greater(t, res.F, 1.0)
		assert.Less(t, res.P, 0.05)
	})

	t.Run("p-value is never zero", func(t *testing.T) {
		assert.Greater(t, res.P, 0.0)
		assert.LessOrEqual(t, res.P, 1.0)
	})
}

func TestPermanovaNoStructure(t *testing.T) {
	// All pairwise distances equal: every relabeling yields the same
	// pseudo-F, so no permutation can beat the observed one.
	samples := []string{"s1", "s2", "s3", "s4", "s5", "s6"}
	groups := []string{"A", "A", "A", "B", "B", "B"}
	dm := ecostats.NewDistanceMatrix(samples)
	for i := range samples {
		for j := i + 1; j < len(samples); j++ {
			dm.Data[i][j] = 0.5
			dm.Data[j][i] = 0.5
		}
	}

	res, err := stattest.Permanova(dm, "group", groups,
		stattest.PermanovaParams{Permutations: 99, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.P)
}

func TestPermanovaDeterminism(t *testing.T) {
	dm, groups := clusteredMatrix()

	run := func(jobs int) *stattest.PermanovaResult {
		res, err := stattest.Permanova(dm, "group", groups,
			stattest.PermanovaParams{
				Permutations: 199,
				Seed:         42,
				Jobs:         jobs,
			})
		require.NoError(t, err)
		return res
	}

	res1 := run(1)
	res2 := run(8)
	assert.Equal(t, res1.F, res2.F)
	assert.Equal(t, res1.P, res2.P)
}

func TestPermanovaProgress(t *testing.T) {
	dm, groups := clusteredMatrix()
	var calls atomic.Int64

	_, err := stattest.Permanova(dm, "group", groups,
		stattest.PermanovaParams{
			Permutations: 99,
			Seed:         1,
			Jobs:         4,
			Progress:     func(int) { calls.Add(1) },
		})
	require.NoError(t, err)
	assert.Equal(t, int64(99), calls.Load())
}

func TestPermanovaErrors(t *testing.T) {
	dm, _ := clusteredMatrix()

	t.Run("single level", func(t *testing.T) {
		groups := []string{"A", "A", "A", "A", "A", "A", "A", "A"}
		_, err := stattest.Permanova(dm, "group", groups,
			stattest.PermanovaParams{Permutations: 9, Seed: 1})
		require.Error(t, err)
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr))
		assert.Equal(t, errcode.SingleGroupError, gnErr.Code)
	})

	t.Run("singleton level", func(t *testing.T) {
		groups := []string{"A", "A", "A", "A", "A", "A", "A", "B"}
		_, err := stattest.Permanova(dm, "group", groups,
			stattest.PermanovaParams{Permutations: 9, Seed: 1})
		require.Error(t, err)
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr))
		assert.Equal(t, errcode.DegenerateGroupError, gnErr.Code)
	})

	t.Run("label length mismatch", func(t *testing.T) {
		_, err := stattest.Permanova(dm, "group", []string{"A", "B"},
			stattest.PermanovaParams{Permutations: 9, Seed: 1})
		assert.Error(t, err)
	})
}
