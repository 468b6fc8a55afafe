package gndiv

import (
	"context"
)

// BetaAnalyzer defines the beta-diversity pipeline: prevalence
// filtering, seeded rarefaction, Bray-Curtis distances, PCoA
// ordination and PERMANOVA, with report files for each stage.
//
// Derived artifacts (rarefied table, distance matrix) may be cached;
// the cache key includes the input digest, the filter constants, the
// rarefaction depth and the seed, so a cache hit is always equivalent
// to recomputation.
type BetaAnalyzer interface {
	// Analyze runs the full pipeline for the dataset selected in the
	// configuration.
	Analyze(ctx context.Context) error
}
