package ecostats_test

import (
	"testing"

	"github.com/gnames/gndiv/pkg/ecostats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	// 4 samples; with min_count 2 and min_prevalence 0.5 a taxon needs
	// counts above 2 in more than 2 samples to survive.
	tbl, err := ecostats.NewAbundanceTable(
		[]string{"s1", "s2", "s3", "s4"},
		[]string{"common", "edge", "rare"},
		[][]int{
			{5, 3, 1},
			{4, 3, 0},
			{3, 0, 2},
			{9, 1, 0},
		},
	)
	require.NoError(t, err)

	res := ecostats.Filter(tbl, 2, 0.5)

	t.Run("keeps prevalent taxa only", func(t *testing.T) {
		assert.Equal(t, []string{"common"}, res.Taxa)
	})

	t.Run("threshold is strict", func(t *testing.T) {
		// "edge" passes min_count in exactly 2 of 4 samples, which does
		// not exceed 0.5 * 4.
		assert.NotContains(t, res.Taxa, "edge")
	})

	t.Run("samples and their counts survive", func(t *testing.T) {
		assert.Equal(t, tbl.Samples, res.Samples)
		row, ok := res.SampleRow("s4")
		require.True(t, ok)
		assert.Equal(t, []int{9}, row)
	})

	t.Run("input table is not modified", func(t *testing.T) {
		assert.Len(t, tbl.Taxa, 3)
		assert.Equal(t, []int{5, 3, 1}, tbl.Counts[0])
	})
}
