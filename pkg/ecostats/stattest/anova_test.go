package stattest_test

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/pkg/ecostats/stattest"
	"github.com/gnames/gndiv/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneWay(t *testing.T) {
	values := []float64{1, 2, 3, 2, 3, 4}
	groups := []string{"g1", "g1", "g1", "g2", "g2", "g2"}

	table, err := stattest.OneWay(values, groups)
	require.NoError(t, err)
	require.Len(t, table.Effects, 2)

	effect, resid := table.Effects[0], table.Effects[1]

	t.Run("decomposition", func(t *testing.T) {
		assert.Equal(t, "group", effect.Name)
		assert.Equal(t, 1, effect.DF)
		assert.InDelta(t, 1.5, effect.SumSq, 1e-12)
		assert.Equal(t, 4, resid.DF)
		assert.InDelta(t, 4.0, resid.SumSq, 1e-12)
	})

	t.Run("f statistic and p-value", func(t *testing.T) {
		require.True(t, effect.Tested)
		assert.InDelta(t, 1.5, effect.F, 1e-12)
		// F(1,4) upper tail at 1.5, cf. t(4) two-sided at sqrt(1.5)
		assert.InDelta(t, 0.2879, effect.P, 1e-3)
	})

	t.Run("residual row is not tested", func(t *testing.T) {
		assert.Equal(t, "Residuals", resid.Name)
		assert.False(t, resid.Tested)
	})
}

func TestOneWayErrors(t *testing.T) {
	t.Run("single level", func(t *testing.T) {
		_, err := stattest.OneWay(
			[]float64{1, 2, 3}, []string{"g", "g", "g"})
		require.Error(t, err)
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr))
		assert.Equal(t, errcode.SingleGroupError, gnErr.Code)
	})

	t.Run("singleton level", func(t *testing.T) {
		_, err := stattest.OneWay(
			[]float64{1, 2, 3}, []string{"g1", "g1", "g2"})
		require.Error(t, err)
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr))
		assert.Equal(t, errcode.DegenerateGroupError, gnErr.Code)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := stattest.OneWay([]float64{1, 2}, []string{"g1"})
		assert.Error(t, err)
	})
}

func TestTwoWay(t *testing.T) {
	// Balanced 2x2 design, three replicates per cell. The site effect
	// is ten units, the month effect one unit, no interaction.
	var values []float64
	var site, month []string
	cell := func(s, m string, base float64) {
		for _, d := range []float64{-1, 0, 1} {
			values = append(values, base+d)
			site = append(site, s)
			month = append(month, m)
		}
	}
	cell("N", "Jan", 2)
	cell("N", "Feb", 3)
	cell("S", "Jan", 12)
	cell("S", "Feb", 13)

	table, err := stattest.TwoWay(values, site, month, "site", "month")
	require.NoError(t, err)
	require.Len(t, table.Effects, 4)

	bySite := table.Effects[0]
	byMonth := table.Effects[1]
	interaction := table.Effects[2]
	resid := table.Effects[3]

	t.Run("effect rows are labeled", func(t *testing.T) {
		assert.Equal(t, "site", bySite.Name)
		assert.Equal(t, "month", byMonth.Name)
		assert.Equal(t, "site:month", interaction.Name)
		assert.Equal(t, "Residuals", resid.Name)
	})

	t.Run("sums of squares", func(t *testing.T) {
		assert.InDelta(t, 300.0, bySite.SumSq, 1e-9)
		assert.InDelta(t, 3.0, byMonth.SumSq, 1e-9)
		assert.InDelta(t, 0.0, interaction.SumSq, 1e-9)
		assert.InDelta(t, 8.0, resid.SumSq, 1e-9)
		assert.Equal(t, 8, resid.DF)
	})

	t.Run("strong effect is detected", func(t *testing.T) {
		assert.InDelta(t, 300.0, bySite.F, 1e-9)
		assert.Less(t, bySite.P, 0.001)
	})

	t.Run("weak effect is not", func(t *testing.T) {
		assert.InDelta(t, 3.0, byMonth.F, 1e-9)
		assert.Greater(t, byMonth.P, 0.05)
	})
}

func TestTwoWayErrors(t *testing.T) {
	t.Run("missing cell", func(t *testing.T) {
		// No (S, Feb) observations.
		values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
		site := []string{"N", "N", "N", "N", "S", "S", "S", "S"}
		month := []string{"Jan", "Jan", "Feb", "Feb",
			"Jan", "Jan", "Jan", "Jan"}
		_, err := stattest.TwoWay(values, site, month, "site", "month")
		assert.Error(t, err)
	})

	t.Run("no residual degrees of freedom", func(t *testing.T) {
		// One observation per cell.
		values := []float64{1, 2, 3, 4}
		site := []string{"N", "N", "S", "S"}
		month := []string{"Jan", "Feb", "Jan", "Feb"}
		_, err := stattest.TwoWay(values, site, month, "site", "month")
		assert.Error(t, err)
	})
}
