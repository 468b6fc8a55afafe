package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptFilterMinCount sets the abundance threshold of the prevalence
// filter.
func OptFilterMinCount(i int) Option {
	return func(c *Config) {
		if isValidInt("Filter MinCount", i) {
			c.Filter.MinCount = i
		}
	}
}

// OptFilterMinPrevalence sets the prevalence fraction of the filter.
// Valid range is (0, 1).
func OptFilterMinPrevalence(f float64) Option {
	return func(c *Config) {
		if isValidFraction("Filter MinPrevalence", f) {
			c.Filter.MinPrevalence = f
		}
	}
}

// OptRarefyDepth sets the rarefaction depth. Zero keeps the default
// behavior of rarefying to the smallest post-filter sample total.
func OptRarefyDepth(i int) Option {
	return func(c *Config) {
		if isValidCount("Rarefy Depth", i) {
			c.Rarefy.Depth = i
		}
	}
}

// OptRarefySeed sets the rarefaction seed. Any non-negative value is
// accepted; runs with the same seed are reproducible.
func OptRarefySeed(i int64) Option {
	return func(c *Config) {
		if isValidSeed("Rarefy Seed", i) {
			c.Rarefy.Seed = i
		}
	}
}

// OptPermanovaPermutations sets the number of label permutations.
func OptPermanovaPermutations(i int) Option {
	return func(c *Config) {
		if isValidInt("Permanova Permutations", i) {
			c.Permanova.Permutations = i
		}
	}
}

// OptPermanovaSeed sets the permutation seed.
func OptPermanovaSeed(i int64) Option {
	return func(c *Config) {
		if isValidSeed("Permanova Seed", i) {
			c.Permanova.Seed = i
		}
	}
}

// OptOutputFormat sets the report table format.
// Valid values: "csv", "tsv", "json".
func OptOutputFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Output.Format", s) {
			c.Output.Format = s
		}
	}
}

// OptOutputDirectory sets the directory where report files are written.
func OptOutputDirectory(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Directory", s) {
			c.Output.Directory = s
		}
	}
}

// OptOutputFixedNotation toggles fixed-notation float rendering.
func OptOutputFixedNotation(b bool) Option {
	return func(c *Config) {
		c.Output.FixedNotation = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

// OptDatasetName selects a dataset from datasets.yaml.
// Runtime-only field - not in ToOptions().
func OptDatasetName(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s != "" {
			c.DatasetName = s
		}
	}
}

// OptWithAnnotation enables gnparser canonicalization of taxonomy
// labels. Runtime-only field - not in ToOptions().
func OptWithAnnotation(b bool) Option {
	return func(c *Config) {
		c.WithAnnotation = b
	}
}

// OptNoCache disables the derived-artifact cache.
// Runtime-only field - not in ToOptions().
func OptNoCache(b bool) Option {
	return func(c *Config) {
		c.NoCache = b
	}
}
