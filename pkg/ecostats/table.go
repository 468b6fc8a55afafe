package ecostats

import (
	"strings"
)

// AbundanceTable is a non-negative integer matrix of taxon counts.
// Rows are samples, columns are taxa. Counts[i][j] is the abundance of
// taxon Taxa[j] in sample Samples[i].
type AbundanceTable struct {
	// Samples holds sample identifiers in row order.
	Samples []string
	// Taxa holds taxon identifiers in column order.
	Taxa []string
	// Counts is a len(Samples) x len(Taxa) matrix.
	Counts [][]int

	sampleIdx map[string]int
	taxonIdx  map[string]int
}

// NewAbundanceTable builds a table from row-ordered counts.
// It rejects duplicated sample or taxon identifiers, shape mismatches
// and negative counts.
func NewAbundanceTable(
	samples, taxa []string,
	counts [][]int,
) (*AbundanceTable, error) {
	if len(counts) != len(samples) {
		return nil, ShapeError(len(samples), len(counts))
	}
	t := &AbundanceTable{
		Samples:   samples,
		Taxa:      taxa,
		Counts:    counts,
		sampleIdx: make(map[string]int, len(samples)),
		taxonIdx:  make(map[string]int, len(taxa)),
	}
	for i, s := range samples {
		if _, ok := t.sampleIdx[s]; ok {
			return nil, DuplicateSampleError(s)
		}
		t.sampleIdx[s] = i
	}
	for j, tx := range taxa {
		if _, ok := t.taxonIdx[tx]; ok {
			return nil, DuplicateTaxonError(tx)
		}
		t.taxonIdx[tx] = j
	}
	for i, row := range counts {
		if len(row) != len(taxa) {
			return nil, RowShapeError(samples[i], len(taxa), len(row))
		}
		for j, v := range row {
			if v < 0 {
				return nil, NegativeAbundanceError(samples[i], taxa[j], v)
			}
		}
	}
	return t, nil
}

// SampleRow returns the counts row for a sample and whether the sample
// exists.
func (t *AbundanceTable) SampleRow(sample string) ([]int, bool) {
	i, ok := t.sampleIdx[sample]
	if !ok {
		return nil, false
	}
	return t.Counts[i], true
}

func rowTotal(row []int) int {
	var res int
	for _, v := range row {
		res += v
	}
	return res
}

// SampleMetadata maps samples to categorical grouping factors.
type SampleMetadata struct {
	// Samples holds sample identifiers in file order.
	Samples []string
	// Factors holds factor names in column order.
	Factors []string
	// Values maps sample -> factor -> level.
	Values map[string]map[string]string
}

// Levels returns the level of each given sample for the given factor,
// in input order. Composite factors are expressed as
// "factorA:factorB" and their levels are the joined per-factor levels.
func (m *SampleMetadata) Levels(
	samples []string,
	factor string,
) ([]string, error) {
	parts := strings.Split(factor, ":")
	for _, p := range parts {
		if !m.hasFactor(p) {
			return nil, UnknownFactorError(p, m.Factors)
		}
	}
	res := make([]string, len(samples))
	for i, s := range samples {
		vals, ok := m.Values[s]
		if !ok {
			return nil, SampleMismatchError([]string{s}, nil)
		}
		levels := make([]string, len(parts))
		for k, p := range parts {
			levels[k] = vals[p]
		}
		res[i] = strings.Join(levels, ":")
	}
	return res, nil
}

func (m *SampleMetadata) hasFactor(name string) bool {
	for _, f := range m.Factors {
		if f == name {
			return true
		}
	}
	return false
}

// ValidateSampleSets checks set equality between the table samples and
// the metadata samples. Order is irrelevant; any asymmetric difference
// fails with the offending identifiers.
func ValidateSampleSets(tbl *AbundanceTable, meta *SampleMetadata) error {
	inMeta := make(map[string]bool, len(meta.Samples))
	for _, s := range meta.Samples {
		inMeta[s] = true
	}
	var missing []string
	for _, s := range tbl.Samples {
		if !inMeta[s] {
			missing = append(missing, s)
		}
	}
	var extra []string
	for _, s := range meta.Samples {
		if _, ok := tbl.sampleIdx[s]; !ok {
			extra = append(extra, s)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		return SampleMismatchError(missing, extra)
	}
	return nil
}

// TaxonomyTable maps taxon identifiers to ranked taxonomic labels.
// It is used for report annotation only; diversity computation never
// consults it.
type TaxonomyTable struct {
	// Ranks holds rank names in column order, e.g. phylum...genus.
	Ranks []string
	// Labels maps taxon -> labels parallel to Ranks.
	Labels map[string][]string
}

// Lowest returns the most specific non-empty label of a taxon, or the
// taxon identifier itself when the taxon is absent from the table.
func (t *TaxonomyTable) Lowest(taxon string) string {
	labels, ok := t.Labels[taxon]
	if !ok {
		return taxon
	}
	for i := len(labels) - 1; i >= 0; i-- {
		if labels[i] != "" {
			return labels[i]
		}
	}
	return taxon
}
