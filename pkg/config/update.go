package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, DatasetName, WithAnnotation,
// NoCache). Used for round-tripping config.yaml <-> Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	i = c.Filter.MinCount
	if i > 0 {
		res = append(res, OptFilterMinCount(i))
	}
	if f := c.Filter.MinPrevalence; f > 0 {
		res = append(res, OptFilterMinPrevalence(f))
	}

	i = c.Rarefy.Depth
	if i > 0 {
		res = append(res, OptRarefyDepth(i))
	}
	if c.Rarefy.Seed >= 0 {
		res = append(res, OptRarefySeed(c.Rarefy.Seed))
	}

	i = c.Permanova.Permutations
	if i > 0 {
		res = append(res, OptPermanovaPermutations(i))
	}
	if c.Permanova.Seed >= 0 {
		res = append(res, OptPermanovaSeed(c.Permanova.Seed))
	}

	s = c.Output.Format
	if s != "" {
		res = append(res, OptOutputFormat(s))
	}
	s = c.Output.Directory
	if s != "" {
		res = append(res, OptOutputDirectory(s))
	}
	res = append(res, OptOutputFixedNotation(c.Output.FixedNotation))

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

// isValidCount is like isValidInt, but allows zero (used where zero
// means "derive from data").
func isValidCount(name string, i int) bool {
	res := i >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %d", name, i)
	}
	return res
}

func isValidSeed(name string, i int64) bool {
	res := i >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %d", name, i)
	}
	return res
}

func isValidFraction(name string, f float64) bool {
	res := f > 0 && f < 1
	if !res {
		gn.Warn("<em>%s</em> has to be in (0, 1), ignoring %f", name, f)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Output.Format":   {"csv": s, "tsv": s, "json": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
