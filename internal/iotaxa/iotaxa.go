// Package iotaxa annotates taxa for reports: it resolves the most
// specific taxonomy label of each taxon, canonicalizes it with
// gnparser and derives a deterministic UUID v5 identifier from the
// canonical form. Annotation is presentation-only; diversity
// computation never depends on it.
package iotaxa

import (
	"runtime"

	"github.com/gnames/gndiv/pkg/ecostats"
	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnuuid"
)

// Annotation holds the report-facing identity of one taxon.
type Annotation struct {
	// Taxon is the identifier used in the abundance table.
	Taxon string
	// Label is the most specific taxonomy label, or Taxon itself when
	// the taxonomy table does not know the taxon.
	Label string
	// Canonical is the gnparser canonical form of Label; equals Label
	// when the label does not parse as a scientific name.
	Canonical string
	// ID is the UUID v5 of Canonical in the GlobalNames namespace.
	ID string
}

// Annotator canonicalizes taxonomy labels through a gnparser pool.
type Annotator interface {
	// Annotate resolves and canonicalizes every taxon, preserving
	// order. taxonomy may be nil; labels then fall back to the raw
	// identifiers.
	Annotate(taxa []string, taxonomy *ecostats.TaxonomyTable) []Annotation

	// Close shuts down the parser pool. The Annotator must not be used
	// afterwards.
	Close()
}

type annotator struct {
	pool chan gnparser.GNparser
}

// New creates an Annotator with jobsNum pooled parsers.
// If jobsNum is 0, it defaults to runtime.NumCPU(). Microbial
// community data uses the bacterial nomenclatural code.
func New(jobsNum int) Annotator {
	size := jobsNum
	if size == 0 {
		size = runtime.NumCPU()
	}
	cfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Bacterial),
	)
	return &annotator{
		pool: gnparser.NewPool(cfg, size),
	}
}

func (a *annotator) Annotate(
	taxa []string,
	taxonomy *ecostats.TaxonomyTable,
) []Annotation {
	res := make([]Annotation, len(taxa))
	for i, taxon := range taxa {
		label := taxon
		if taxonomy != nil {
			label = taxonomy.Lowest(taxon)
		}
		canonical := a.canonical(label)
		res[i] = Annotation{
			Taxon:     taxon,
			Label:     label,
			Canonical: canonical,
			ID:        gnuuid.New(canonical).String(),
		}
	}
	return res
}

func (a *annotator) canonical(label string) string {
	p := <-a.pool
	defer func() { a.pool <- p }()

	parsed := p.ParseName(label)
	if !parsed.Parsed {
		return label
	}
	return parsed.Canonical.Simple
}

func (a *annotator) Close() {
	if a.pool == nil {
		return
	}
	close(a.pool)
	// Drain remaining parsers
	for range a.pool {
	}
	a.pool = nil
}
