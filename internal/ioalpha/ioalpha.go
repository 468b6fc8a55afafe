// Package ioalpha implements the AlphaAnalyzer interface: it loads the
// raw tables of a dataset, computes per-sample diversity indices,
// tests them across the dataset's grouping factors and writes the
// report files. This is an impure I/O package; the mathematics lives
// in pkg/ecostats and pkg/ecostats/stattest.
package ioalpha

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gndiv/internal/iodatasets"
	"github.com/gnames/gndiv/internal/ioreport"
	"github.com/gnames/gndiv/internal/iotable"
	"github.com/gnames/gndiv/internal/iotaxa"
	"github.com/gnames/gndiv/pkg/config"
	"github.com/gnames/gndiv/pkg/datasets"
	"github.com/gnames/gndiv/pkg/ecostats"
	"github.com/gnames/gndiv/pkg/ecostats/stattest"
	"github.com/gnames/gndiv/pkg/gndiv"
	"github.com/gnames/gnfmt"
)

// analyzer implements the AlphaAnalyzer interface.
type analyzer struct {
	cfg    *config.Config
	writer *ioreport.Writer
}

// New creates a new AlphaAnalyzer.
func New(cfg *config.Config) gndiv.AlphaAnalyzer {
	return &analyzer{cfg: cfg, writer: ioreport.New(cfg)}
}

// Analyze runs the alpha-diversity pipeline for the configured
// dataset.
func (a *analyzer) Analyze(ctx context.Context) error {
	start := time.Now()
	slog.Info("Starting alpha-diversity analysis",
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

	// Alpha indices come from the raw table: no filter, no
	// rarefaction.
	results, err := ecostats.AlphaDiversity(tbl)
	if err != nil {
		return err
	}
	for _, r := range results {
		if !r.EvennessOK {
			gn.Warn(
				"Evenness is undefined for sample <em>%s</em> "+
					"(richness %d), reporting NA",
				r.Sample, r.Richness)
		}
	}

	path, err := a.writer.WriteDiversity(ds.Name, meta, results)
	if err != nil {
		return err
	}
	gn.Info("Diversity table written to <em>%s</em>", path)

	if err = a.testFactors(ds, meta, results); err != nil {
		return err
	}

	if a.cfg.WithAnnotation {
		if err = a.annotate(ds, tbl); err != nil {
			return err
		}
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	slog.Info("Alpha-diversity analysis finished",
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

// testFactors runs an ANOVA per index and factor. Composite factors
// with one ':' become a two-way ANOVA with interaction; plain factors
// a one-way ANOVA.
func (a *analyzer) testFactors(
	ds *datasets.Dataset,
	meta *ecostats.SampleMetadata,
	results []ecostats.DiversityResult,
) error {
	for _, factor := range ds.Factors {
		for _, index := range []string{
			"richness", "chao1", "shannon", "evenness",
		} {
			values, samples := indexValues(results, index)
			if len(values) < len(results) {
				gn.Warn(
					"Index <em>%s</em> is undefined for %d sample(s); "+
						"they are excluded from the %s ANOVA",
					index, len(results)-len(values), factor)
			}

			table, err := a.anova(values, samples, meta, factor)
			if err != nil {
				return err
			}

			label := index + "_" + strings.ReplaceAll(factor, ":", "_")
			path, err := a.writer.WriteAnova(ds.Name, label, table)
			if err != nil {
				return err
			}
			slog.Info("ANOVA table written",
				"index", index, "factor", factor, "path", path)
		}
	}
	return nil
}

func (a *analyzer) anova(
	values []float64,
	samples []string,
	meta *ecostats.SampleMetadata,
	factor string,
) (*stattest.Table, error) {
	parts := strings.Split(factor, ":")
	if len(parts) == 2 {
		lvlA, err := meta.Levels(samples, parts[0])
		if err != nil {
			return nil, err
		}
		lvlB, err := meta.Levels(samples, parts[1])
		if err != nil {
			return nil, err
		}
		return stattest.TwoWay(values, lvlA, lvlB, parts[0], parts[1])
	}
	groups, err := meta.Levels(samples, factor)
	if err != nil {
		return nil, err
	}
	return stattest.OneWay(values, groups)
}

func (a *analyzer) annotate(
	ds *datasets.Dataset,
	tbl *ecostats.AbundanceTable,
) error {
	var taxonomy *ecostats.TaxonomyTable
	if ds.Taxonomy != "" {
		var err error
		taxonomy, err = iotable.LoadTaxonomy(ds.Taxonomy)
		if err != nil {
			return err
		}
	}

	ann := iotaxa.New(a.cfg.JobsNumber)
	defer ann.Close()

	annotations := ann.Annotate(tbl.Taxa, taxonomy)
	path, err := a.writer.WriteTaxa(ds.Name, annotations)
	if err != nil {
		return err
	}
	gn.Info("Taxa annotation written to <em>%s</em>", path)
	return nil
}

// indexValues extracts one index across samples, skipping samples for
// which it is undefined. The second value lists the kept samples.
func indexValues(
	results []ecostats.DiversityResult,
	index string,
) ([]float64, []string) {
	var values []float64
	var samples []string
	for _, r := range results {
		var v float64
		switch index {
		case "richness":
			v = float64(r.Richness)
		case "chao1":
			v = r.Chao1
		case "shannon":
			v = r.Shannon
		case "evenness":
			if !r.EvennessOK {
				continue
			}
			v = r.Evenness
		}
		values = append(values, v)
		samples = append(samples, r.Sample)
	}
	return values, samples
}
