package iotable_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gndiv/internal/iotable"
	"github.com/gnames/gndiv/pkg/ecostats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)
	return path
}

func TestLoadAbundance(t *testing.T) {
	path := writeFile(t, "counts.tsv", `# sediment survey, run 3
sample	otu1	otu2	otu3
s1	5	3	1
s2	10	0	0

s3	0	2	7
`)

	tbl, err := iotable.LoadAbundance(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s2", "s3"}, tbl.Samples)
	assert.Equal(t, []string{"otu1", "otu2", "otu3"}, tbl.Taxa)
	row, ok := tbl.SampleRow("s3")
	require.True(t, ok)
	assert.Equal(t, []int{0, 2, 7}, row)
}

func TestLoadAbundanceErrors(t *testing.T) {
	tests := []struct {
		msg     string
		content string
	}{
		{
			msg:     "non-integer count",
			content: "sample\totu1\ns1\t3.5\n",
		},
		{
			msg:     "short row",
			content: "sample\totu1\totu2\ns1\t3\n",
		},
		{
			msg:     "negative count",
			content: "sample\totu1\ns1\t-2\n",
		},
		{
			msg:     "header only",
			content: "sample\totu1\n",
		},
		{
			msg:     "empty file",
			content: "",
		},
	}

	for _, v := range tests {
		path := writeFile(t, "bad.tsv", v.content)
		_, err := iotable.LoadAbundance(path)
		assert.Error(t, err, v.msg)
	}
}

func TestLoadAbundanceMissingFile(t *testing.T) {
	_, err := iotable.LoadAbundance(
		filepath.Join(t.TempDir(), "no-such-file.tsv"))
	assert.Error(t, err)
}

func TestLoadMetadata(t *testing.T) {
	path := writeFile(t, "meta.tsv", `sample	site	month
s1	N	Jan
s2	N	Feb
s3	S	Jan
`)

	meta, err := iotable.LoadMetadata(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s2", "s3"}, meta.Samples)
	assert.Equal(t, []string{"site", "month"}, meta.Factors)
	assert.Equal(t, "S", meta.Values["s3"]["site"])

	levels, err := meta.Levels([]string{"s1", "s3"}, "site:month")
	require.NoError(t, err)
	assert.Equal(t, []string{"N:Jan", "S:Jan"}, levels)
}

func TestLoadMetadataDuplicateSample(t *testing.T) {
	path := writeFile(t, "meta.tsv", `sample	site
s1	N
s1	S
`)

	_, err := iotable.LoadMetadata(path)
	assert.Error(t, err)
}

func TestMetadataSampleMismatch(t *testing.T) {
	counts := writeFile(t, "counts.tsv", `sample	otu1
s1	5
s2	3
`)
	meta := writeFile(t, "meta.tsv", `sample	site
s1	N
s3	S
`)

	tbl, err := iotable.LoadAbundance(counts)
	require.NoError(t, err)
	md, err := iotable.LoadMetadata(meta)
	require.NoError(t, err)

	assert.Error(t, ecostats.ValidateSampleSets(tbl, md))
}

func TestLoadTaxonomy(t *testing.T) {
	path := writeFile(t, "taxa.tsv", `taxon	phylum	genus
otu1	Proteobacteria	Vibrio
otu2	Firmicutes	NA
otu3	-	-
`)

	tax, err := iotable.LoadTaxonomy(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"phylum", "genus"}, tax.Ranks)
	assert.Equal(t, "Vibrio", tax.Lowest("otu1"))
	assert.Equal(t, "Firmicutes", tax.Lowest("otu2"))
	assert.Equal(t, "otu3", tax.Lowest("otu3"))
}
