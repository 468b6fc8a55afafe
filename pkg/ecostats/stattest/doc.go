// Package stattest provides the group-comparison hypothesis tests of
// GNdiv: one-way and two-way ANOVA over per-sample diversity indices,
// and PERMANOVA over a distance matrix.
//
// Like the rest of the computational core this is a pure package. The
// ANOVA functions assume, and do not check, approximate normality of
// residuals and homogeneity of variance across groups; callers get a
// result regardless. That mirrors the behavior of the reference
// statistical tools and is a documented limitation.
package stattest
