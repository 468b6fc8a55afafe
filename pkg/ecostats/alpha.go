package ecostats

import (
	"math"
)

// DiversityResult holds the alpha-diversity indices of one sample.
// It is computed once per table snapshot and never modified afterward.
type DiversityResult struct {
	// Sample is the sample identifier.
	Sample string

	// Richness is the number of taxa with positive abundance (S.obs).
	Richness int

	// Chao1 is the Chao1 richness estimate. Always >= Richness.
	Chao1 float64

	// Chao1SE is the standard error of the Chao1 estimate.
	Chao1SE float64

	// Shannon is the Shannon index, -sum(p*ln(p)) over positive taxa.
	Shannon float64

	// Evenness is Pielou's evenness, Shannon / ln(Richness).
	// Undefined (EvennessOK false) when Richness <= 1; the value is then
	// zero and must not be interpreted.
	Evenness float64

	// EvennessOK reports whether Evenness is defined.
	EvennessOK bool
}

// AlphaDiversity computes one DiversityResult per sample of the raw
// abundance table. The table is not mutated.
//
// It fails when any count is negative or any sample total is zero; both
// conditions indicate a broken upstream table rather than a legitimate
// community, and every index would be undefined for such a sample.
func AlphaDiversity(tbl *AbundanceTable) ([]DiversityResult, error) {
	res := make([]DiversityResult, 0, len(tbl.Samples))
	for i, sample := range tbl.Samples {
		row := tbl.Counts[i]
		for j, v := range row {
			if v < 0 {
				return nil, NegativeAbundanceError(sample, tbl.Taxa[j], v)
			}
		}
		total := rowTotal(row)
		if total == 0 {
			return nil, EmptySampleError(sample)
		}
		res = append(res, sampleDiversity(sample, row, total))
	}
	return res, nil
}

func sampleDiversity(sample string, row []int, total int) DiversityResult {
	var sObs, f1, f2 int
	var shannon float64
	for _, v := range row {
		switch {
		case v == 0:
			continue
		case v == 1:
			f1++
		case v == 2:
			f2++
		}
		sObs++
		p := float64(v) / float64(total)
		shannon -= p * math.Log(p)
	}
	// A single-taxon sample has p=1 and ln(1)=0, but guard against the
	// tiny negative the float accumulation can leave behind.
	if shannon < 0 {
		shannon = 0
	}

	chao1, chao1SE := chao1Estimate(sObs, f1, f2)

	res := DiversityResult{
		Sample:   sample,
		Richness: sObs,
		Chao1:    chao1,
		Chao1SE:  chao1SE,
		Shannon:  shannon,
	}
	if sObs > 1 {
		res.Evenness = shannon / math.Log(float64(sObs))
		res.EvennessOK = true
	}
	return res
}

// chao1Estimate returns the Chao1 richness estimate and its standard
// error. With doubletons present it uses the classic form
//
//	S.obs + f1*(f1-1) / (2*(f2+1))
//
// and the classic variance. With f2 == 0 it switches to the
// bias-corrected form S.obs + f1*(f1-1)/2 and the matching
// bias-corrected variance, keeping the estimate finite.
func chao1Estimate(sObs, f1, f2 int) (float64, float64) {
	fs := float64(sObs)
	ff1 := float64(f1)
	ff2 := float64(f2)

	if f2 > 0 {
		est := fs + ff1*(ff1-1)/(2*(ff2+1))
		r := ff1 / ff2
		variance := ff2 * (r*r/2 + r*r*r + r*r*r*r/4)
		return est, math.Sqrt(variance)
	}

	est := fs + ff1*(ff1-1)/2
	if f1 == 0 {
		// No singletons either: the estimate collapses to S.obs with
		// zero variance.
		return est, 0
	}
	variance := ff1*(ff1-1)/2 +
		ff1*(2*ff1-1)*(2*ff1-1)/4 -
		ff1*ff1*ff1*ff1/(4*est)
	if variance < 0 {
		variance = 0
	}
	return est, math.Sqrt(variance)
}
