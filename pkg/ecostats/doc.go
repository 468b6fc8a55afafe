// Package ecostats provides the pure computational core of GNdiv:
// community abundance tables, alpha-diversity indices (observed
// richness, Chao1 with standard error, Shannon, Pielou evenness),
// Bray-Curtis dissimilarity, prevalence filtering, seeded rarefaction
// and PCoA ordination.
//
// This is a pure package: no I/O, no global state, no mutation of
// inputs. All randomness (rarefaction) comes from injectable seeds, so
// identical inputs always produce identical outputs.
//
// Alpha-diversity must run on the raw table. Richness estimators
// depend on singletons and doubletons, which filtering or rarefaction
// would destroy. The beta-diversity helpers (Filter, Rarefy,
// BrayCurtis, PCoA) operate on a derived table instead.
package ecostats
