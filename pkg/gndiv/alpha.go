package gndiv

import (
	"context"
)

// AlphaAnalyzer defines the alpha-diversity pipeline: load the raw
// abundance and metadata tables of a dataset, compute per-sample
// diversity indices, test them across grouping factors and write the
// report files.
//
// The raw table is used as-is: no filtering, no normalization, no
// rarefaction. Richness estimators need the singleton and doubleton
// structure of the original counts.
type AlphaAnalyzer interface {
	// Analyze runs the full pipeline for the dataset selected in the
	// configuration. It aborts on invalid input (negative counts, empty
	// samples, sample-set mismatch) and on degenerate grouping; an
	// undefined per-sample statistic is reported inline instead.
	Analyze(ctx context.Context) error
}
