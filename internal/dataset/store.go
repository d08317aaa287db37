package dataset

import (
	"cyberpulse/pkg/contracts/domain"
)

// TopMoverCount is how many largest-delta rows the store keeps for the
// "biggest changes" panel.
const TopMoverCount = 5

// Store holds the loaded survey tables and the aggregates derived from
// them. It is built once at startup and never mutated afterwards; every
// render pass reads from it.
type Store struct {
	tables    map[domain.DatasetKey]domain.Table
	concat    domain.Table
	deltas    []domain.DeltaRecord
	globalMax *float64
	topMovers []domain.DeltaRecord
}

// NewStore builds a store from the loaded tables, computing the global
// concatenation, per-row deltas, the global maximum share and the top
// movers up front.
func NewStore(tables map[domain.DatasetKey]domain.Table) *Store {
	concat := Concat(tables)
	deltas := ComputeDeltas(concat)
	return &Store{
		tables:    tables,
		concat:    concat,
		deltas:    deltas,
		globalMax: GlobalMaxShare(concat),
		topMovers: TopMovers(deltas, TopMoverCount),
	}
}

// Table returns the loaded table for a dataset key. The returned slice is
// shared; callers must treat it as read-only.
func (s *Store) Table(key domain.DatasetKey) domain.Table {
	return s.tables[key]
}

// Concat returns all rows of all four tables in canonical dataset order.
// Nothing is deduplicated: the industry and size tables both carry a
// "Sweden" national-total row, and both survive here.
func (s *Store) Concat() domain.Table {
	return s.concat
}

// GlobalMaxShare returns the maximum share across both year columns of
// the full concatenation, or nil when no share was reported anywhere.
// Charts use it to fix the axis so all selections are visually comparable.
func (s *Store) GlobalMaxShare() *float64 {
	return s.globalMax
}

// TopMovers returns the rows with the largest absolute year-over-year
// delta, at most TopMoverCount of them.
func (s *Store) TopMovers() []domain.DeltaRecord {
	return s.topMovers
}
