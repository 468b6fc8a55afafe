package ecostats_test

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/pkg/ecostats"
	"github.com/gnames/gndiv/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rarefyTable(t *testing.T) *ecostats.AbundanceTable {
	t.Helper()
	tbl, err := ecostats.NewAbundanceTable(
		[]string{"deep", "mid", "shallow"},
		[]string{"t1", "t2", "t3"},
		[][]int{
			{50, 30, 20},
			{10, 5, 5},
			{3, 1, 0},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestRarefy(t *testing.T) {
	tbl := rarefyTable(t)

	t.Run("every kept sample sums to the depth", func(t *testing.T) {
		res, dropped, err := ecostats.Rarefy(tbl, 10, 42)
		require.NoError(t, err)
		assert.Equal(t, []string{"shallow"}, dropped)
		require.Equal(t, []string{"deep", "mid"}, res.Samples)
		for _, row := range res.Counts {
			var total int
			for _, v := range row {
				total += v
			}
			assert.Equal(t, 10, total)
		}
	})

	t.Run("sample at exact depth is unchanged", func(t *testing.T) {
		res, _, err := ecostats.Rarefy(tbl, 20, 42)
		require.NoError(t, err)
		row, ok := res.SampleRow("mid")
		require.True(t, ok)
		assert.Equal(t, []int{10, 5, 5}, row)
	})

	t.Run("zero depth means the smallest total", func(t *testing.T) {
		res, dropped, err := ecostats.Rarefy(tbl, 0, 42)
		require.NoError(t, err)
		assert.Empty(t, dropped)
		for _, row := range res.Counts {
			var total int
			for _, v := range row {
				total += v
			}
			assert.Equal(t, 4, total)
		}
	})

	t.Run("same seed reproduces the same table", func(t *testing.T) {
		res1, _, err := ecostats.Rarefy(tbl, 10, 42)
		require.NoError(t, err)
		res2, _, err := ecostats.Rarefy(tbl, 10, 42)
		require.NoError(t, err)
		assert.Equal(t, res1.Counts, res2.Counts)
	})

	t.Run("subsampling never exceeds original counts", func(t *testing.T) {
		res, _, err := ecostats.Rarefy(tbl, 10, 7)
		require.NoError(t, err)
		for i, sample := range res.Samples {
			orig, ok := tbl.SampleRow(sample)
			require.True(t, ok)
			for j, v := range res.Counts[i] {
				assert.LessOrEqual(t, v, orig[j])
				assert.GreaterOrEqual(t, v, 0)
			}
		}
	})

	t.Run("depth above every total names the shallowest sample", func(t *testing.T) {
		_, _, err := ecostats.Rarefy(tbl, 1000, 42)
		require.Error(t, err)
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr))
		assert.Equal(t, errcode.RarefactionDepthError, gnErr.Code)
		require.Len(t, gnErr.Vars, 3)
		assert.Equal(t, "shallow", gnErr.Vars[1])
		assert.Equal(t, 4, gnErr.Vars[2])
	})
}

func TestRarefyRowOrderIndependence(t *testing.T) {
	tbl := rarefyTable(t)
	reordered, err := ecostats.NewAbundanceTable(
		[]string{"mid", "shallow", "deep"},
		[]string{"t1", "t2", "t3"},
		[][]int{
			{10, 5, 5},
			{3, 1, 0},
			{50, 30, 20},
		},
	)
	require.NoError(t, err)

	res1, _, err := ecostats.Rarefy(tbl, 10, 42)
	require.NoError(t, err)
	res2, _, err := ecostats.Rarefy(reordered, 10, 42)
	require.NoError(t, err)

	row1, ok := res1.SampleRow("deep")
	require.True(t, ok)
	row2, ok := res2.SampleRow("deep")
	require.True(t, ok)
	assert.Equal(t, row1, row2)
}
