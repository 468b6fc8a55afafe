package ecostats

// Filter returns a new table keeping only taxa whose prevalence passes
// the threshold: taxon k survives when the number of samples with
// count > minCount exceeds minPrevalence * nSamples. The input table
// is not modified.
//
// The default constants (minCount 2, minPrevalence 0.11) reproduce the
// filter of the original analysis; they carry no recorded biological
// justification and are therefore configuration, not policy.
func Filter(tbl *AbundanceTable, minCount int, minPrevalence float64) *AbundanceTable {
	n := len(tbl.Samples)
	threshold := minPrevalence * float64(n)

	var keep []int
	for j := range tbl.Taxa {
		var prevalence int
		for i := range tbl.Samples {
			if tbl.Counts[i][j] > minCount {
				prevalence++
			}
		}
		if float64(prevalence) > threshold {
			keep = append(keep, j)
		}
	}

	taxa := make([]string, len(keep))
	for k, j := range keep {
		taxa[k] = tbl.Taxa[j]
	}
	counts := make([][]int, n)
	for i := range counts {
		row := make([]int, len(keep))
		for k, j := range keep {
			row[k] = tbl.Counts[i][j]
		}
		counts[i] = row
	}

	samples := make([]string, n)
	copy(samples, tbl.Samples)

	// Inputs were already validated; reconstruction cannot fail.
	res, _ := NewAbundanceTable(samples, taxa, counts)
	return res
}
