// Package datasets defines the schema for datasets.yaml, the manifest
// users provide to describe their community data: input file paths,
// grouping factors and per-dataset overrides of the filter and
// rarefaction settings. It handles validation and lookup; reading the
// file belongs to internal/iodatasets.
package datasets

// Datasets loads and validates the datasets.yaml manifest.
type Datasets interface {
	Load() (*DatasetsConfig, error)
}

// DatasetsConfig represents the complete datasets.yaml file.
type DatasetsConfig struct {
	// Datasets is the list of analysis datasets.
	Datasets []Dataset `yaml:"datasets"`

	// Warnings holds non-fatal validation warnings (not serialized).
	Warnings []ValidationWarning `yaml:"-"`
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Dataset    string // Name of the dataset
	Field      string // Field name that has the issue
	Message    string // Description of the issue
	Suggestion string // How to fix it
}

// Dataset describes one community dataset.
//
// The three input files are flat whitespace-delimited tables with a
// header row:
//   - abundance: samples x taxa integer counts, first column = sample ID
//   - metadata: sample ID followed by categorical factor columns
//   - taxonomy (optional): taxon ID followed by rank label columns
type Dataset struct {
	// Name identifies the dataset; used in CLI flags and report file
	// names.
	Name string `yaml:"name"`

	// Abundance is the path of the abundance table.
	Abundance string `yaml:"abundance"`

	// Metadata is the path of the sample grouping table.
	Metadata string `yaml:"metadata"`

	// Taxonomy is the path of the taxonomy table. Optional; without it
	// reports fall back to raw taxon identifiers.
	Taxonomy string `yaml:"taxonomy,omitempty"`

	// Factors lists the grouping factors to test, in order. A factor
	// may be composite ("site:month") to test the combination.
	Factors []string `yaml:"factors"`

	// Filter overrides the global prevalence filter for this dataset.
	Filter *FilterOverride `yaml:"filter,omitempty"`

	// Rarefy overrides the global rarefaction settings for this
	// dataset.
	Rarefy *RarefyOverride `yaml:"rarefy,omitempty"`
}

// FilterOverride holds per-dataset prevalence filter constants.
type FilterOverride struct {
	MinCount      *int     `yaml:"min_count,omitempty"`
	MinPrevalence *float64 `yaml:"min_prevalence,omitempty"`
}

// RarefyOverride holds per-dataset rarefaction settings.
type RarefyOverride struct {
	Depth *int   `yaml:"depth,omitempty"`
	Seed  *int64 `yaml:"seed,omitempty"`
}
