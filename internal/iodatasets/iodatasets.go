// Package iodatasets reads and validates the datasets.yaml manifest
// from the user's config directory.
package iodatasets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gndiv/pkg/config"
	"github.com/gnames/gndiv/pkg/datasets"
	"gopkg.in/yaml.v3"
)

type iodatasets struct {
	cfg *config.Config
}

// New creates a Datasets loader bound to the configured home
// directory.
func New(cfg *config.Config) datasets.Datasets {
	return &iodatasets{cfg: cfg}
}

// Load reads datasets.yaml, expands '~' in file paths and validates
// the manifest.
func (d *iodatasets) Load() (*datasets.DatasetsConfig, error) {
	path := config.DatasetsFilePath(d.cfg.HomeDir)
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadError(path, err)
	}

	var res datasets.DatasetsConfig
	if err = yaml.Unmarshal(bs, &res); err != nil {
		return nil, ParseError(path, err)
	}

	for i := range res.Datasets {
		ds := &res.Datasets[i]
		ds.Abundance = d.expandPath(ds.Abundance)
		ds.Metadata = d.expandPath(ds.Metadata)
		ds.Taxonomy = d.expandPath(ds.Taxonomy)
	}

	if err = res.Validate(); err != nil {
		return nil, InvalidError(path, err)
	}
	return &res, nil
}

func (d *iodatasets) expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(d.cfg.HomeDir, path[2:])
	}
	return path
}
