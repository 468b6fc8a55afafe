// Package iobeta implements the BetaAnalyzer interface: prevalence
// filtering, seeded rarefaction, Bray-Curtis distances, PCoA
// ordination and PERMANOVA for a dataset, with report files for each
// stage. Derived artifacts are cached in Badger keyed by input digest
// and parameters, so repeated runs skip the expensive stages.
package iobeta

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gndiv/internal/iocache"
	"github.com/gnames/gndiv/internal/iodatasets"
	"github.com/gnames/gndiv/internal/ioreport"
	"github.com/gnames/gndiv/internal/iotable"
	"github.com/gnames/gndiv/pkg/config"
	"github.com/gnames/gndiv/pkg/datasets"
	"github.com/gnames/gndiv/pkg/ecostats"
	"github.com/gnames/gndiv/pkg/ecostats/stattest"
	"github.com/gnames/gndiv/pkg/gndiv"
	"github.com/gnames/gnfmt"
)

// analyzer implements the BetaAnalyzer interface.
type analyzer struct {
	cfg    *config.Config
	writer *ioreport.Writer
	cache  *iocache.Cache
}

// New creates a new BetaAnalyzer.
func New(cfg *config.Config) gndiv.BetaAnalyzer {
	return &analyzer{cfg: cfg, writer: ioreport.New(cfg)}
}

// Analyze runs the beta-diversity pipeline for the configured dataset.
func (a *analyzer) Analyze(ctx context.Context) error {
	start := time.Now()
	slog.Info("Starting beta-diversity analysis",
		"run_id", a.writer.RunID())

	ds, err := a.dataset()
	if err != nil {
		return err
	}

	tbl, err := iotable.LoadAbundance(ds.Abundance)
	if err != nil {
		return err
	}
	meta, err := iotable.LoadMetadata(ds.Metadata)
	if err != nil {
		return err
	}
	if err = ecostats.ValidateSampleSets(tbl, meta); err != nil {
		return err
	}
	slog.Info("Tables loaded",
		"samples", humanize.Comma(int64(len(tbl.Samples))),
		"taxa", humanize.Comma(int64(len(tbl.Taxa))))

	if err = a.openCache(); err != nil {
		return err
	}
	defer func() {
		if a.cache != nil {
			_ = a.cache.Close()
		}
	}()

	rarefied, err := a.rarefy(ds, tbl)
	if err != nil {
		return err
	}

	dm, err := a.distances(ds, rarefied)
	if err != nil {
		return err
	}
	path, err := a.writer.WriteDistance(ds.Name, dm)
	if err != nil {
		return err
	}
	gn.Info("Bray-Curtis matrix written to <em>%s</em>", path)

	pcoa, err := ecostats.PCoA(dm)
	if err != nil {
		return err
	}
	paths, err := a.writer.WritePCoA(ds.Name, pcoa)
	if err != nil {
		return err
	}
	gn.Info("PCoA written to <em>%s</em> and <em>%s</em>",
		paths[0], paths[1])

	if err = a.permanova(ds, dm, meta); err != nil {
		return err
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	slog.Info("Beta-diversity analysis finished",
		"duration", gnfmt.TimeString(time.Since(start).Seconds()))
	gn.Info("Done in %s", gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}

func (a *analyzer) dataset() (*datasets.Dataset, error) {
	manifest, err := iodatasets.New(a.cfg).Load()
	if err != nil {
		return nil, err
	}
	for _, w := range manifest.Warnings {
		gn.Warn("Dataset <em>%s</em>, %s: %s (%s)",
			w.Dataset, w.Field, w.Message, w.Suggestion)
	}
	if len(manifest.Datasets) == 0 {
		return nil, iodatasets.NoDatasetsError(
			config.DatasetsFilePath(a.cfg.HomeDir))
	}
	ds, ok := manifest.ByName(a.cfg.DatasetName)
	if !ok {
		return nil, iodatasets.NotFoundError(a.cfg.DatasetName)
	}
	return ds, nil
}

func (a *analyzer) openCache() error {
	if a.cfg.NoCache {
		return nil
	}
	dir := filepath.Join(config.CacheDir(a.cfg.HomeDir), "beta")
	cache, err := iocache.New(dir)
	if err != nil {
		return err
	}
	if err = cache.Open(); err != nil {
		// A broken cache must not block the analysis.
		gn.Warn("Cannot open cache, recomputing everything: %v", err)
		return nil
	}
	a.cache = cache
	return nil
}

// filterParams resolves the dataset's overrides against the global
// configuration.
func (a *analyzer) filterParams(ds *datasets.Dataset) (int, float64) {
	minCount := a.cfg.Filter.MinCount
	minPrev := a.cfg.Filter.MinPrevalence
	if ds.Filter != nil {
		if ds.Filter.MinCount != nil {
			minCount = *ds.Filter.MinCount
		}
		if ds.Filter.MinPrevalence != nil {
			minPrev = *ds.Filter.MinPrevalence
		}
	}
	return minCount, minPrev
}

func (a *analyzer) rarefyParams(ds *datasets.Dataset) (int, int64) {
	depth := a.cfg.Rarefy.Depth
	seed := a.cfg.Rarefy.Seed
	if ds.Rarefy != nil {
		if ds.Rarefy.Depth != nil {
			depth = *ds.Rarefy.Depth
		}
		if ds.Rarefy.Seed != nil {
			seed = *ds.Rarefy.Seed
		}
	}
	return depth, seed
}

// rarefy filters the table by prevalence and subsamples it to even
// depth, reusing a cached result when inputs and parameters match.
func (a *analyzer) rarefy(
	ds *datasets.Dataset,
	tbl *ecostats.AbundanceTable,
) (*ecostats.AbundanceTable, error) {
	minCount, minPrev := a.filterParams(ds)
	depth, seed := a.rarefyParams(ds)

	var key string
	if a.cache != nil {
		var err error
		key, err = iocache.Key("rarefied", ds.Abundance,
			minCount, minPrev, depth, seed)
		if err == nil {
			cached, err := a.cache.GetTable(key)
			if err == nil && cached != nil {
				slog.Info("Using cached rarefied table",
					"samples", len(cached.Samples),
					"taxa", len(cached.Taxa))
				return cached, nil
			}
		}
	}

	filtered := ecostats.Filter(tbl, minCount, minPrev)
	slog.Info("Prevalence filter applied",
		"kept_taxa", humanize.Comma(int64(len(filtered.Taxa))),
		"min_count", minCount, "min_prevalence", minPrev)

	rarefied, dropped, err := ecostats.Rarefy(filtered, depth, seed)
	if err != nil {
		return nil, err
	}
	for _, s := range dropped {
		gn.Warn("Sample <em>%s</em> is below rarefaction depth, dropped", s)
	}
	slog.Info("Rarefaction done",
		"samples", len(rarefied.Samples), "seed", seed)

	if a.cache != nil && key != "" {
		if err := a.cache.StoreTable(key, rarefied); err != nil {
			slog.Warn("Cannot cache rarefied table", "error", err)
		}
	}
	return rarefied, nil
}

func (a *analyzer) distances(
	ds *datasets.Dataset,
	rarefied *ecostats.AbundanceTable,
) (*ecostats.DistanceMatrix, error) {
	minCount, minPrev := a.filterParams(ds)
	depth, seed := a.rarefyParams(ds)

	var key string
	if a.cache != nil {
		var err error
		key, err = iocache.Key("braycurtis", ds.Abundance,
			minCount, minPrev, depth, seed)
		if err == nil {
			cached, err := a.cache.GetMatrix(key)
			if err == nil && cached != nil {
				slog.Info("Using cached distance matrix",
					"samples", len(cached.Samples))
				return cached, nil
			}
		}
	}

	dm := ecostats.BrayCurtis(rarefied, a.cfg.JobsNumber)
	slog.Info("Bray-Curtis distances computed",
		"samples", len(dm.Samples))

	if a.cache != nil && key != "" {
		if err := a.cache.StoreMatrix(key, dm); err != nil {
			slog.Warn("Cannot cache distance matrix", "error", err)
		}
	}
	return dm, nil
}

func (a *analyzer) permanova(
	ds *datasets.Dataset,
	dm *ecostats.DistanceMatrix,
	meta *ecostats.SampleMetadata,
) error {
	var results []*stattest.PermanovaResult
	for _, factor := range ds.Factors {
		groups, err := meta.Levels(dm.Samples, factor)
		if err != nil {
			return err
		}

		bar := newProgressBar(a.cfg.Permanova.Permutations,
			"permutations ("+factor+") ")
		res, err := stattest.Permanova(dm, factor, groups,
			stattest.PermanovaParams{
				Permutations: a.cfg.Permanova.Permutations,
				Seed:         a.cfg.Permanova.Seed,
				Jobs:         a.cfg.JobsNumber,
				Progress:     func(int) { bar.Increment() },
			})
		bar.Finish()
		if err != nil {
			return err
		}
		slog.Info("PERMANOVA done", "factor", factor,
			"f", res.F, "p", res.P, "permutations", res.Permutations)
		results = append(results, res)
	}

	path, err := a.writer.WritePermanova(ds.Name, results)
	if err != nil {
		return err
	}
	gn.Info("PERMANOVA table written to <em>%s</em>", path)
	return nil
}
