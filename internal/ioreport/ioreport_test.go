package ioreport_test

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/gnames/gndiv/internal/ioreport"
	"github.com/gnames/gndiv/pkg/config"
	"github.com/gnames/gndiv/pkg/ecostats"
	"github.com/gnames/gndiv/pkg/ecostats/stattest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWriter(t *testing.T, format string) *ioreport.Writer {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptOutputFormat(format),
		config.OptOutputDirectory(t.TempDir()),
	})
	return ioreport.New(cfg)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = fh.Close() }()
	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}

func diversityFixture() (*ecostats.SampleMetadata, []ecostats.DiversityResult) {
	meta := &ecostats.SampleMetadata{
		Samples: []string{"s1", "s2"},
		Factors: []string{"site"},
		Values: map[string]map[string]string{
			"s1": {"site": "N"},
			"s2": {"site": "S"},
		},
	}
	results := []ecostats.DiversityResult{
		{
			Sample: "s1", Richness: 4, Chao1: 5, Chao1SE: 2.17,
			Shannon: 1.168, Evenness: 0.843, EvennessOK: true,
		},
		{
			Sample: "s2", Richness: 1, Chao1: 1, Shannon: 0,
		},
	}
	return meta, results
}

func TestWriteDiversity(t *testing.T) {
	w := testWriter(t, "csv")
	meta, results := diversityFixture()

	path, err := w.WriteDiversity("sediment", meta, results)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "sediment_diversity.csv"))

	rows := readCSV(t, path)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"sample", "site", "index", "value"}, rows[0])

	// 5 indices per sample, 2 samples
	assert.Len(t, rows, 11)

	t.Run("undefined evenness renders as NA", func(t *testing.T) {
		last := rows[len(rows)-1]
		assert.Equal(t, "s2", last[0])
		assert.Equal(t, "evenness", last[2])
		assert.Equal(t, "NA", last[3])
	})

	t.Run("defined values use fixed notation", func(t *testing.T) {
		assert.Equal(t, "5.000000", rows[2][3])
	})
}

func TestWriteDiversityJSON(t *testing.T) {
	w := testWriter(t, "json")
	meta, results := diversityFixture()

	path, err := w.WriteDiversity("sediment", meta, results)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "sediment_diversity.json"))

	bs, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []struct {
		Sample string   `json:"sample"`
		Index  string   `json:"index"`
		Value  *float64 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(bs, &rows))
	require.Len(t, rows, 10)

	last := rows[len(rows)-1]
	assert.Equal(t, "evenness", last.Index)
	assert.Nil(t, last.Value)
}

func TestWriteAnova(t *testing.T) {
	w := testWriter(t, "csv")
	table := &stattest.Table{Effects: []stattest.Effect{
		{
			Name: "site", DF: 1, SumSq: 300, MeanSq: 300,
			F: 300, P: 0.0001, Tested: true,
		},
		{Name: "Residuals", DF: 8, SumSq: 8, MeanSq: 1},
	}}

	path, err := w.WriteAnova("sediment", "shannon_site", table)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "sediment_anova_shannon_site.csv"))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "site", rows[1][0])
	assert.Equal(t, "Residuals", rows[2][0])
	assert.Equal(t, "NA", rows[2][4])
	assert.Equal(t, "NA", rows[2][5])
}

func TestWriteDistanceTSV(t *testing.T) {
	w := testWriter(t, "tsv")
	dm := ecostats.NewDistanceMatrix([]string{"s1", "s2"})
	dm.Data[0][1] = 0.5
	dm.Data[1][0] = 0.5

	path, err := w.WriteDistance("sediment", dm)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "sediment_braycurtis.tsv"))

	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(bs)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "sample\ts1\ts2", lines[0])
	assert.Equal(t, "s1\t0.000000\t0.500000", lines[1])
}

func TestWritePCoA(t *testing.T) {
	w := testWriter(t, "csv")
	res := &ecostats.PCoAResult{
		Samples:     []string{"s1", "s2", "s3"},
		Coordinates: [][]float64{{-1}, {0}, {1}},
		Eigenvalues: []float64{2, 0, -0.1},
		Proportion:  []float64{1},
		Axes:        1,
	}

	paths, err := w.WritePCoA("sediment", res)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	coords := readCSV(t, paths[0])
	require.Len(t, coords, 4)
	assert.Equal(t, []string{"sample", "pco1"}, coords[0])

	eig := readCSV(t, paths[1])
	require.Len(t, eig, 4)
	assert.Equal(t, []string{"axis", "eigenvalue", "proportion"}, eig[0])
	// Axes beyond the retained ones explain no defined proportion.
	assert.Equal(t, "NA", eig[2][2])
	assert.Equal(t, "NA", eig[3][2])
}

func TestWritePermanova(t *testing.T) {
	w := testWriter(t, "csv")
	results := []*stattest.PermanovaResult{{
		Factor:  "site",
		DFAmong: 1, DFWithin: 6,
		SSAmong: 1.6, SSWithin: 0.03, SSTotal: 1.63,
		F: 320.0, R2: 0.98, P: 0.001, Permutations: 999,
	}}

	path, err := w.WritePermanova("sediment", results)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "site", rows[1][0])
	assert.Equal(t, "Residuals", rows[2][0])
	assert.Equal(t, "NA", rows[2][6])
}

func TestRunID(t *testing.T) {
	w1 := testWriter(t, "csv")
	w2 := testWriter(t, "csv")
	assert.NotEmpty(t, w1.RunID())
	assert.NotEqual(t, w1.RunID(), w2.RunID())
}
