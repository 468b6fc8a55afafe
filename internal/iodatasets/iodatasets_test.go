package iodatasets_test

import (
	"errors"
	"os"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/internal/iodatasets"
	"github.com/gnames/gndiv/internal/iofs"
	"github.com/gnames/gndiv/pkg/config"
	"github.com/gnames/gndiv/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	tempHome := t.TempDir()
	require.NoError(t, iofs.EnsureDirs(tempHome))
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir(tempHome)})
	return cfg
}

func writeManifest(t *testing.T, cfg *config.Config, content string) {
	t.Helper()
	path := config.DatasetsFilePath(cfg.HomeDir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	cfg := testConfig(t)
	writeManifest(t, cfg, `datasets:
  - name: pond-16s
    abundance: ~/data/abundance.tsv
    metadata: /data/metadata.tsv
    factors:
      - site
`)

	manifest, err := iodatasets.New(cfg).Load()
	require.NoError(t, err)
	require.Len(t, manifest.Datasets, 1)

	ds := manifest.Datasets[0]
	assert.Equal(t, "pond-16s", ds.Name)

	t.Run("tilde paths are expanded", func(t *testing.T) {
		assert.Equal(t,
			cfg.HomeDir+"/data/abundance.tsv", ds.Abundance)
		assert.Equal(t, "/data/metadata.tsv", ds.Metadata)
	})

	t.Run("missing taxonomy becomes a warning", func(t *testing.T) {
		require.Len(t, manifest.Warnings, 1)
		assert.Equal(t, "taxonomy", manifest.Warnings[0].Field)
	})
}

func TestLoadSeededManifest(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	// The file seeded on first run must load without error and report
	// zero datasets, leaving the "nothing configured yet" messaging to
	// the callers.
	cfg := testConfig(t)
	require.NoError(t, iofs.EnsureDatasetsFile(cfg.HomeDir))

	manifest, err := iodatasets.New(cfg).Load()
	require.NoError(t, err)
	assert.Empty(t, manifest.Datasets)
	assert.Empty(t, manifest.Warnings)
}

func TestLoadErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	loadCode := func(t *testing.T, cfg *config.Config) gn.ErrorCode {
		t.Helper()
		_, err := iodatasets.New(cfg).Load()
		require.Error(t, err)
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr))
		return gnErr.Code
	}

	t.Run("missing file", func(t *testing.T) {
		cfg := testConfig(t)
		assert.Equal(t, errcode.DatasetsReadError, loadCode(t, cfg))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		cfg := testConfig(t)
		writeManifest(t, cfg, "datasets: [unclosed\n")
		assert.Equal(t, errcode.DatasetsParseError, loadCode(t, cfg))
	})

	t.Run("well-formed yaml, invalid manifest", func(t *testing.T) {
		cfg := testConfig(t)
		writeManifest(t, cfg, `datasets:
  - name: pond-16s
    metadata: /data/metadata.tsv
    factors:
      - site
`)
		assert.Equal(t, errcode.DatasetsInvalidError, loadCode(t, cfg))
	})
}
