// Package ioreport renders GNdiv results as report files: the tidy
// long-form diversity table, ANOVA and PERMANOVA effect tables,
// distance matrices and PCoA coordinates. One file per report, named
// <dataset>_<report>.<ext>, in CSV, TSV or JSON per configuration.
//
// Undefined statistics are rendered as the explicit marker "NA", never
// as a propagated NaN or a silent zero. Float rendering honors the
// fixed-notation option, replacing the process-wide scientific
// notation suppression of the original analysis.
package ioreport

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gnames/gndiv/internal/iotaxa"
	"github.com/gnames/gndiv/pkg/config"
	"github.com/gnames/gndiv/pkg/ecostats"
	"github.com/gnames/gndiv/pkg/ecostats/stattest"
	"github.com/google/uuid"
)

// NA marks a statistic that is undefined for a row.
const NA = "NA"

// Writer renders report files for one run.
type Writer struct {
	cfg   *config.Config
	runID string
}

// New creates a Writer with a fresh run identifier.
func New(cfg *config.Config) *Writer {
	return &Writer{
		cfg:   cfg,
		runID: uuid.NewString(),
	}
}

// RunID returns the unique identifier of this run, included in logs
// and summaries.
func (w *Writer) RunID() string {
	return w.runID
}

// WriteDiversity writes the tidy long-form alpha-diversity table: one
// row per sample and index, prefixed with the sample's grouping factor
// levels.
func (w *Writer) WriteDiversity(
	dataset string,
	meta *ecostats.SampleMetadata,
	results []ecostats.DiversityResult,
) (string, error) {
	header := append([]string{"sample"}, meta.Factors...)
	header = append(header, "index", "value")

	type jsonRow struct {
		Sample  string            `json:"sample"`
		Factors map[string]string `json:"factors"`
		Index   string            `json:"index"`
		Value   *float64          `json:"value"`
	}

	var rows [][]string
	var jrows []jsonRow
	for _, r := range results {
		factors := meta.Values[r.Sample]
		prefix := []string{r.Sample}
		for _, f := range meta.Factors {
			prefix = append(prefix, factors[f])
		}
		add := func(index, value string, jv *float64) {
			row := append(append([]string{}, prefix...), index, value)
			rows = append(rows, row)
			jrows = append(jrows, jsonRow{
				Sample: r.Sample, Factors: factors, Index: index, Value: jv,
			})
		}
		richness := float64(r.Richness)
		add("richness", strconv.Itoa(r.Richness), &richness)
		add("chao1", w.float(r.Chao1), &r.Chao1)
		add("chao1_se", w.float(r.Chao1SE), &r.Chao1SE)
		add("shannon", w.float(r.Shannon), &r.Shannon)
		if r.EvennessOK {
			add("evenness", w.float(r.Evenness), &r.Evenness)
		} else {
			add("evenness", NA, nil)
		}
	}
	return w.emit(dataset, "diversity", header, rows, jrows)
}

// WriteAnova writes one ANOVA table. The label distinguishes the
// tested index and factor set, e.g. "shannon_site_month".
func (w *Writer) WriteAnova(
	dataset, label string,
	table *stattest.Table,
) (string, error) {
	header := []string{"effect", "df", "sum_sq", "mean_sq", "f", "p"}
	var rows [][]string
	for _, e := range table.Effects {
		f, p := NA, NA
		if e.Tested {
			f, p = w.float(e.F), w.float(e.P)
		}
		rows = append(rows, []string{
			e.Name,
			strconv.Itoa(e.DF),
			w.float(e.SumSq),
			w.float(e.MeanSq),
			f,
			p,
		})
	}
	return w.emit(dataset, "anova_"+label, header, rows, table)
}

// WritePermanova writes the PERMANOVA results, one row per tested
// factor.
func (w *Writer) WritePermanova(
	dataset string,
	results []*stattest.PermanovaResult,
) (string, error) {
	header := []string{
		"factor", "df", "sum_sq", "mean_sq", "f", "r2", "p", "permutations",
	}
	var rows [][]string
	for _, r := range results {
		rows = append(rows, []string{
			r.Factor,
			strconv.Itoa(r.DFAmong),
			w.float(r.SSAmong),
			w.float(r.SSAmong / float64(r.DFAmong)),
			w.float(r.F),
			w.float(r.R2),
			w.float(r.P),
			strconv.Itoa(r.Permutations),
		})
		rows = append(rows, []string{
			"Residuals",
			strconv.Itoa(r.DFWithin),
			w.float(r.SSWithin),
			w.float(r.SSWithin / float64(r.DFWithin)),
			NA, NA, NA, NA,
		})
	}
	return w.emit(dataset, "permanova", header, rows, results)
}

// WriteDistance writes the full square distance matrix with sample
// identifiers as both header and row labels.
func (w *Writer) WriteDistance(
	dataset string,
	dm *ecostats.DistanceMatrix,
) (string, error) {
	header := append([]string{"sample"}, dm.Samples...)
	var rows [][]string
	for i, s := range dm.Samples {
		row := make([]string, 0, len(dm.Samples)+1)
		row = append(row, s)
		for j := range dm.Samples {
			row = append(row, w.float(dm.Data[i][j]))
		}
		rows = append(rows, row)
	}
	type jsonMatrix struct {
		Samples []string    `json:"samples"`
		Data    [][]float64 `json:"data"`
	}
	return w.emit(dataset, "braycurtis", header, rows,
		jsonMatrix{Samples: dm.Samples, Data: dm.Data})
}

// WritePCoA writes two reports: per-sample ordination coordinates and
// the eigenvalue table with proportions explained.
func (w *Writer) WritePCoA(
	dataset string,
	res *ecostats.PCoAResult,
) ([]string, error) {
	header := []string{"sample"}
	for k := 1; k <= res.Axes; k++ {
		header = append(header, "pco"+strconv.Itoa(k))
	}
	var rows [][]string
	for i, s := range res.Samples {
		row := []string{s}
		for k := 0; k < res.Axes; k++ {
			row = append(row, w.float(res.Coordinates[i][k]))
		}
		rows = append(rows, row)
	}
	coords, err := w.emit(dataset, "pcoa_coordinates", header, rows, res)
	if err != nil {
		return nil, err
	}

	header = []string{"axis", "eigenvalue", "proportion"}
	rows = nil
	for k, ev := range res.Eigenvalues {
		prop := NA
		if k < res.Axes {
			prop = w.float(res.Proportion[k])
		}
		rows = append(rows, []string{
			strconv.Itoa(k + 1), w.float(ev), prop,
		})
	}
	eig, err := w.emit(dataset, "pcoa_eigenvalues", header, rows, res.Eigenvalues)
	if err != nil {
		return nil, err
	}
	return []string{coords, eig}, nil
}

// WriteTaxa writes the taxonomy annotation table.
func (w *Writer) WriteTaxa(
	dataset string,
	annotations []iotaxa.Annotation,
) (string, error) {
	header := []string{"taxon", "label", "canonical", "id"}
	var rows [][]string
	for _, a := range annotations {
		rows = append(rows, []string{a.Taxon, a.Label, a.Canonical, a.ID})
	}
	return w.emit(dataset, "taxa", header, rows, annotations)
}

// float renders a float per the output configuration. Fixed notation
// keeps six decimal places; otherwise the shortest representation is
// used.
func (w *Writer) float(v float64) string {
	if w.cfg.Output.FixedNotation {
		return strconv.FormatFloat(v, 'f', 6, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (w *Writer) emit(
	dataset, name string,
	header []string,
	rows [][]string,
	jsonVal any,
) (string, error) {
	format := w.cfg.Output.Format
	path := filepath.Join(
		w.cfg.Output.Directory,
		dataset+"_"+name+"."+format,
	)

	fh, err := os.Create(path)
	if err != nil {
		return "", WriteError(path, err)
	}
	defer func() { _ = fh.Close() }()

	switch format {
	case "json":
		enc := json.NewEncoder(fh)
		enc.SetIndent("", "  ")
		if err = enc.Encode(jsonVal); err != nil {
			return "", WriteError(path, err)
		}
	default:
		cw := csv.NewWriter(fh)
		if format == "tsv" {
			cw.Comma = '\t'
		}
		if err = cw.Write(header); err != nil {
			return "", WriteError(path, err)
		}
		if err = cw.WriteAll(rows); err != nil {
			return "", WriteError(path, err)
		}
		cw.Flush()
		if err = cw.Error(); err != nil {
			return "", WriteError(path, err)
		}
	}
	return path, nil
}
