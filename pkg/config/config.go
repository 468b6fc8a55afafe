// Package config provides configuration management for GNdiv.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via
// gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Filter: min_count, min_prevalence
//   - Rarefy: depth, seed
//   - Permanova: permutations, seed
//   - Output: format, directory, fixed_notation
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - DatasetName, WithAnnotation, NoCache (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNDIV_ prefix with underscores for nesting:
//
//	GNDIV_FILTER_MIN_COUNT=2
//	GNDIV_RAREFY_SEED=42
//	GNDIV_LOG_LEVEL=info
//	GNDIV_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete GNdiv configuration.
type Config struct {
	// Filter contains the prevalence filter settings applied before
	// rarefaction in the beta-diversity pipeline. Alpha-diversity always
	// runs on the raw table (richness estimators need singletons and
	// doubletons intact).
	Filter FilterConfig `mapstructure:"filter" yaml:"filter"`

	// Rarefy contains rarefaction settings for the beta-diversity pipeline.
	Rarefy RarefyConfig `mapstructure:"rarefy" yaml:"rarefy"`

	// Permanova contains permutation-test settings.
	Permanova PermanovaConfig `mapstructure:"permanova" yaml:"permanova"`

	// Output contains report rendering settings.
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel
	// operations (distance computation, permutations).
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string

	// DatasetName selects a dataset from datasets.yaml.
	// Empty string means the first dataset in the manifest.
	DatasetName string

	// WithAnnotation enables canonicalization of taxonomy labels with
	// gnparser before reporting.
	WithAnnotation bool

	// NoCache disables the Badger cache of rarefied tables and distance
	// matrices.
	NoCache bool
}

// FilterConfig contains prevalence filter parameters.
//
// A taxon k is kept when count(x_k > MinCount) > MinPrevalence * n,
// n being the number of samples. The defaults reproduce the filter of
// the original analysis; there is no biological justification recorded
// for the exact constants, which is why they are configuration and not
// code.
type FilterConfig struct {
	// MinCount is the abundance a taxon must exceed in a sample for that
	// sample to count towards the taxon's prevalence.
	MinCount int `mapstructure:"min_count" yaml:"min_count"`

	// MinPrevalence is the fraction of samples in which a taxon must
	// exceed MinCount to survive the filter. Range (0, 1).
	MinPrevalence float64 `mapstructure:"min_prevalence" yaml:"min_prevalence"`
}

// RarefyConfig contains rarefaction parameters.
type RarefyConfig struct {
	// Depth is the number of counts each sample is subsampled to.
	// Zero means "use the smallest post-filter sample total".
	Depth int `mapstructure:"depth" yaml:"depth"`

	// Seed makes subsampling deterministic. Runs with the same inputs,
	// depth and seed produce identical rarefied tables.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// PermanovaConfig contains permutation-test parameters.
type PermanovaConfig struct {
	// Permutations is the number of label permutations for the
	// PERMANOVA p-value.
	Permutations int `mapstructure:"permutations" yaml:"permutations"`

	// Seed makes the permutation schedule deterministic. Each
	// permutation derives its own generator from this seed, so results
	// do not depend on worker scheduling.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// OutputConfig contains report rendering settings.
type OutputConfig struct {
	// Format of report tables: 'csv', 'tsv' or 'json'.
	Format string `mapstructure:"format" yaml:"format"`

	// Directory where report files are written. Empty means the current
	// working directory.
	Directory string `mapstructure:"directory" yaml:"directory"`

	// FixedNotation renders floats in fixed notation instead of the
	// shortest representation. It replaces the process-wide scientific
	// notation suppression of the original analysis with an explicit
	// per-run option.
	FixedNotation bool `mapstructure:"fixed_notation" yaml:"fixed_notation"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Filter: FilterConfig{
			MinCount:      2,
			MinPrevalence: 0.11,
		},
		Rarefy: RarefyConfig{
			Depth: 0, // minimum post-filter sample total
			Seed:  1,
		},
		Permanova: PermanovaConfig{
			Permutations: 999,
			Seed:         1,
		},
		Output: OutputConfig{
			Format:        "csv",
			FixedNotation: true,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
