// Package dataset implements the data-preparation pipeline behind the
// dashboard: loading the four survey CSV files, concatenating them into a
// global table with derived year-over-year deltas, selecting rows per
// dimension and domain, and deriving the per-row display metrics.
//
// Everything downstream of the loader is a pure function of the immutable
// Store built once at startup; each user interaction recomputes its view
// from scratch.
package dataset
