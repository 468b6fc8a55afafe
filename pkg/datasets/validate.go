package datasets

import (
	"fmt"
)

// Validate checks the manifest. Missing required fields are errors;
// questionable but workable settings become Warnings on the config.
// An empty manifest is valid: it is the state of a fresh install,
// before the user has described any dataset.
func (c *DatasetsConfig) Validate() error {
	seen := make(map[string]bool)
	for i, ds := range c.Datasets {
		name := ds.Name
		if name == "" {
			return fmt.Errorf("dataset #%d has no name", i+1)
		}
		if seen[name] {
			return fmt.Errorf("dataset name %q is used twice", name)
		}
		seen[name] = true
		if ds.Abundance == "" {
			return fmt.Errorf("dataset %q has no abundance file", name)
		}
		if ds.Metadata == "" {
			return fmt.Errorf("dataset %q has no metadata file", name)
		}
		if len(ds.Factors) == 0 {
			return fmt.Errorf("dataset %q lists no factors", name)
		}
		if ds.Taxonomy == "" {
			c.Warnings = append(c.Warnings, ValidationWarning{
				Dataset: name,
				Field:   "taxonomy",
				Message: "no taxonomy file",
				Suggestion: "reports will show raw taxon identifiers; " +
					"add 'taxonomy:' for annotated output",
			})
		}
		if ds.Filter != nil && ds.Filter.MinPrevalence != nil {
			p := *ds.Filter.MinPrevalence
			if p <= 0 || p >= 1 {
				return fmt.Errorf(
					"dataset %q: min_prevalence %v is outside (0, 1)",
					name, p)
			}
		}
		if ds.Rarefy != nil && ds.Rarefy.Depth != nil && *ds.Rarefy.Depth < 0 {
			return fmt.Errorf(
				"dataset %q: rarefaction depth cannot be negative", name)
		}
	}
	return nil
}

// ByName returns the dataset with the given name, or the first dataset
// when name is empty.
func (c *DatasetsConfig) ByName(name string) (*Dataset, bool) {
	if name == "" {
		if len(c.Datasets) == 0 {
			return nil, false
		}
		return &c.Datasets[0], true
	}
	for i := range c.Datasets {
		if c.Datasets[i].Name == name {
			return &c.Datasets[i], true
		}
	}
	return nil, false
}
