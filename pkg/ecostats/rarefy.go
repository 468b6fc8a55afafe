package ecostats

import (
	"hash/fnv"
	"math/rand"
)

// Rarefy subsamples every sample of tbl without replacement down to
// depth counts. A depth of zero means "the smallest sample total in
// tbl". Samples whose total is below the requested depth are dropped
// and returned in the second value so the caller can warn about them.
//
// The seed makes the subsampling deterministic. Each sample derives
// its own generator from the seed and the sample identifier, so the
// result is independent of row order and of which other samples are
// present. The input table is not modified.
func Rarefy(
	tbl *AbundanceTable,
	depth int,
	seed int64,
) (*AbundanceTable, []string, error) {
	totals := make([]int, len(tbl.Samples))
	minTotal := -1
	var minSample string
	for i, row := range tbl.Counts {
		totals[i] = rowTotal(row)
		if minTotal < 0 || totals[i] < minTotal {
			minTotal = totals[i]
			minSample = tbl.Samples[i]
		}
	}
	if depth == 0 {
		depth = minTotal
	}
	if depth <= 0 {
		return nil, nil, RarefactionDepthError(depth, minTotal, minSample)
	}

	var samples []string
	var counts [][]int
	var dropped []string
	for i, sample := range tbl.Samples {
		if totals[i] < depth {
			dropped = append(dropped, sample)
			continue
		}
		samples = append(samples, sample)
		if totals[i] == depth {
			row := make([]int, len(tbl.Taxa))
			copy(row, tbl.Counts[i])
			counts = append(counts, row)
			continue
		}
		rng := rand.New(rand.NewSource(sampleSeed(seed, sample)))
		counts = append(counts, subsample(tbl.Counts[i], totals[i], depth, rng))
	}
	if len(samples) == 0 {
		return nil, dropped, RarefactionDepthError(depth, minTotal, minSample)
	}

	taxa := make([]string, len(tbl.Taxa))
	copy(taxa, tbl.Taxa)
	res, err := NewAbundanceTable(samples, taxa, counts)
	if err != nil {
		return nil, nil, err
	}
	return res, dropped, nil
}

// subsample draws depth individuals without replacement from a row
// with the given total. Each draw picks a uniform position in the
// remaining multiset and maps it to a taxon through cumulative counts.
func subsample(row []int, total, depth int, rng *rand.Rand) []int {
	remaining := make([]int, len(row))
	copy(remaining, row)
	res := make([]int, len(row))
	for n := 0; n < depth; n++ {
		r := rng.Intn(total)
		for k, v := range remaining {
			if r < v {
				remaining[k]--
				res[k]++
				break
			}
			r -= v
		}
		total--
	}
	return res
}

func sampleSeed(seed int64, sample string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(sample))
	return seed ^ int64(h.Sum64())
}
