package dataset

import (
	"math"
	"sort"

	"cyberpulse/pkg/contracts/domain"
)

// Concat appends all rows of all tables in canonical dataset order.
// Rows are copied so the source tables stay untouched.
func Concat(tables map[domain.DatasetKey]domain.Table) domain.Table {
	total := 0
	for _, t := range tables {
		total += len(t)
	}
	out := make(domain.Table, 0, total)
	for _, key := range domain.AllDatasetKeys() {
		out = append(out, tables[key]...)
	}
	return out
}

// ComputeDeltas derives the 2021-to-2023 change for every row. The delta
// is nil whenever either year's share is missing.
func ComputeDeltas(t domain.Table) []domain.DeltaRecord {
	out := make([]domain.DeltaRecord, len(t))
	for i, rec := range t {
		out[i] = domain.DeltaRecord{IncidentRecord: rec, Delta: deltaOf(rec)}
	}
	return out
}

func deltaOf(rec domain.IncidentRecord) *float64 {
	if rec.Share2021 == nil || rec.Share2023 == nil {
		return nil
	}
	d := *rec.Share2023 - *rec.Share2021
	return &d
}

// GlobalMaxShare finds the maximum value across both share columns,
// ignoring missing values. Returns nil when nothing was reported.
func GlobalMaxShare(t domain.Table) *float64 {
	var max *float64
	consider := func(v *float64) {
		if v == nil {
			return
		}
		if max == nil || *v > *max {
			val := *v
			max = &val
		}
	}
	for _, rec := range t {
		consider(rec.Share2021)
		consider(rec.Share2023)
	}
	return max
}

// TopMovers returns at most n records sorted by descending absolute
// delta. The sort is stable, so ties keep their original row order.
// Rows with a missing delta sort to the bottom, so they only appear
// when fewer than n valid rows exist.
func TopMovers(deltas []domain.DeltaRecord, n int) []domain.DeltaRecord {
	sorted := make([]domain.DeltaRecord, len(deltas))
	copy(sorted, deltas)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].Delta, sorted[j].Delta
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return math.Abs(*di) > math.Abs(*dj)
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
