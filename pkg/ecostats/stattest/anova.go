package stattest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Effect is one row of an ANOVA table.
type Effect struct {
	// Name is the effect label: a factor name, "factorA:factorB" for an
	// interaction, or "Residuals".
	Name string
	// DF is the degrees of freedom.
	DF int
	// SumSq is the sum of squared deviations attributed to the effect.
	SumSq float64
	// MeanSq is SumSq / DF.
	MeanSq float64
	// F is the F statistic (effect mean square over residual mean
	// square). Meaningless for the residual row - see Tested.
	F float64
	// P is the upper-tail probability of F under the null hypothesis.
	P float64
	// Tested is false for the residual row, whose F and P carry no
	// information.
	Tested bool
}

// Table is a complete ANOVA decomposition: the tested effects followed
// by the residual row.
type Table struct {
	Effects []Effect
}

// OneWay performs a one-way analysis of variance of values across the
// levels of groups. values and groups are parallel slices.
//
// It fails when fewer than two distinct levels are present or when any
// level has fewer than two samples (within-group variance undefined).
func OneWay(values []float64, groups []string) (*Table, error) {
	if len(values) != len(groups) {
		return nil, lengthMismatchError(len(values), len(groups))
	}
	n := len(values)

	sizes := make(map[string]int)
	sums := make(map[string]float64)
	for i, g := range groups {
		sizes[g]++
		sums[g] += values[i]
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

	var grand float64
	for _, v := range values {
		grand += v
	}
	grand /= float64(n)

	means := make(map[string]float64, k)
	var ssBetween float64
	for g, sum := range sums {
		m := sum / float64(sizes[g])
		means[g] = m
		ssBetween += float64(sizes[g]) * (m - grand) * (m - grand)
	}
	var ssWithin float64
	for i, g := range groups {
		d := values[i] - means[g]
		ssWithin += d * d
	}

	dfB := k - 1
	dfW := n - k
	msB := ssBetween / float64(dfB)
	msW := ssWithin / float64(dfW)

	f, p := fTest(msB, msW, dfB, dfW)
	return &Table{Effects: []Effect{
		{
			Name:   "group",
			DF:     dfB,
			SumSq:  ssBetween,
			MeanSq: msB,
			F:      f,
			P:      p,
			Tested: true,
		},
		residualRow(dfW, ssWithin, msW),
	}}, nil
}

// TwoWay performs a two-way analysis of variance with interaction:
// main effects for factors named nameA and nameB (levels in a and b,
// parallel to values), an a:b interaction, all tested against the
// residual mean square. Sums of squares come from marginal and cell
// means, which is exact for balanced designs - the intended use.
//
// Every combination of levels must be observed, every level of each
// factor needs at least two samples, and at least one residual degree
// of freedom must remain.
func TwoWay(
	values []float64,
	a, b []string,
	nameA, nameB string,
) (*Table, error) {
	if len(values) != len(a) || len(values) != len(b) {
		return nil, lengthMismatchError(len(values), len(a))
	}
	n := len(values)

	type cellKey struct{ a, b string }
	sizesA := make(map[string]int)
	sizesB := make(map[string]int)
	sumsA := make(map[string]float64)
	sumsB := make(map[string]float64)
	sizesCell := make(map[cellKey]int)
	sumsCell := make(map[cellKey]float64)
	for i := range values {
		sizesA[a[i]]++
		sumsA[a[i]] += values[i]
		sizesB[b[i]]++
		sumsB[b[i]] += values[i]
		key := cellKey{a[i], b[i]}
		sizesCell[key]++
		sumsCell[key] += values[i]
	}
	ka, kb := len(sizesA), len(sizesB)
	if ka < 2 {
		return nil, SingleGroupError(ka)
	}
	if kb < 2 {
		return nil, SingleGroupError(kb)
	}
	for _, g := range sortedKeys(sizesA) {
		if sizesA[g] < 2 {
			return nil, DegenerateGroupError(g, sizesA[g])
		}
	}
	for _, g := range sortedKeys(sizesB) {
		if sizesB[g] < 2 {
			return nil, DegenerateGroupError(g, sizesB[g])
		}
	}
	if len(sizesCell) != ka*kb {
		return nil, MissingCellError(ka*kb - len(sizesCell))
	}
	dfE := n - ka*kb
	if dfE < 1 {
		return nil, NoResidualError(n, ka*kb)
	}

	var grand float64
	for _, v := range values {
		grand += v
	}
	grand /= float64(n)

	var ssA float64
	for g, sum := range sumsA {
		m := sum / float64(sizesA[g])
		ssA += float64(sizesA[g]) * (m - grand) * (m - grand)
	}
	var ssB float64
	for g, sum := range sumsB {
		m := sum / float64(sizesB[g])
		ssB += float64(sizesB[g]) * (m - grand) * (m - grand)
	}
	meansCell := make(map[cellKey]float64, len(sumsCell))
	var ssCells float64
	for key, sum := range sumsCell {
		m := sum / float64(sizesCell[key])
		meansCell[key] = m
		ssCells += float64(sizesCell[key]) * (m - grand) * (m - grand)
	}
	ssAB := ssCells - ssA - ssB
	if ssAB < 0 {
		// Float cancellation on balanced designs; a genuinely negative
		// interaction SS cannot occur there.
		ssAB = 0
	}
	var ssE float64
	for i := range values {
		d := values[i] - meansCell[cellKey{a[i], b[i]}]
		ssE += d * d
	}

	dfA := ka - 1
	dfB := kb - 1
	dfAB := dfA * dfB
	msE := ssE / float64(dfE)

	mk := func(name string, df int, ss float64) Effect {
		ms := ss / float64(df)
		f, p := fTest(ms, msE, df, dfE)
		return Effect{
			Name: name, DF: df, SumSq: ss, MeanSq: ms,
			F: f, P: p, Tested: true,
		}
	}
	return &Table{Effects: []Effect{
		mk(nameA, dfA, ssA),
		mk(nameB, dfB, ssB),
		mk(nameA+":"+nameB, dfAB, ssAB),
		residualRow(dfE, ssE, msE),
	}}, nil
}

func residualRow(df int, ss, ms float64) Effect {
	return Effect{Name: "Residuals", DF: df, SumSq: ss, MeanSq: ms}
}

// fTest returns the F statistic and its upper-tail p-value from the
// F(d1, d2) distribution. A zero denominator (all groups internally
// constant) yields F = +Inf and p = 0.
func fTest(msNum, msDen float64, d1, d2 int) (float64, float64) {
	if msDen == 0 {
		return math.Inf(1), 0
	}
	f := msNum / msDen
	dist := distuv.F{D1: float64(d1), D2: float64(d2)}
	return f, dist.Survival(f)
}

func sortedKeys[V any](m map[string]V) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
