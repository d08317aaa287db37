// Package domain contains the shared data structures for the Swedish
// enterprise cyber-incident survey statistics served by the dashboard.
package domain

import "sort"

// DatasetKey identifies one of the four source survey files. The set of
// keys is fixed; no keys are created at runtime.
type DatasetKey string

const (
	DatasetIndustry DatasetKey = "industry"
	DatasetRegion   DatasetKey = "region"
	DatasetSizeS    DatasetKey = "size_s"
	DatasetSizeML   DatasetKey = "size_ml"
)

// AllDatasetKeys returns the dataset keys in canonical load order.
func AllDatasetKeys() []DatasetKey {
	return []DatasetKey{DatasetIndustry, DatasetRegion, DatasetSizeS, DatasetSizeML}
}

// Dimension is the axis of comparison selected by the user.
type Dimension string

const (
	DimensionIndustry Dimension = "industry"
	DimensionSize     Dimension = "size"
	DimensionRegion   Dimension = "region"
)

// AllDimensions returns the selectable dimensions in presentation order.
func AllDimensions() []Dimension {
	return []Dimension{DimensionIndustry, DimensionSize, DimensionRegion}
}

// YearChoice selects which survey year feeds the current-period metrics.
type YearChoice string

const (
	Year2021    YearChoice = "2021"
	Year2023    YearChoice = "2023"
	YearAverage YearChoice = "average"
)

// DomainSweden is the national aggregate row label. It appears in every
// source table and doubles as the comparison series label.
const DomainSweden = "Sweden"

// SizeTotalDomain is the "all enterprises" aggregate of the size dimension.
const SizeTotalDomain = "10 or more employees"

// IncidentRecord is one row of a loaded survey table. The four numeric
// fields are nil when the source cell was blank or failed to parse; a nil
// share is "not reported", which is distinct from a reported 0%.
type IncidentRecord struct {
	IncidentType string   `json:"incident_type"`
	Domain       string   `json:"domain"`
	Share2021    *float64 `json:"share_2021"`
	Share2023    *float64 `json:"share_2023"`
	MOE2021      *float64 `json:"moe_2021"`
	MOE2023      *float64 `json:"moe_2023"`
}

// Table is an ordered collection of incident records. (incident_type,
// domain) pairs are not guaranteed unique; callers must not assume so.
type Table []IncidentRecord

// DomainValues returns the distinct domain labels in sorted order.
func (t Table) DomainValues() []string {
	seen := make(map[string]struct{}, len(t))
	values := make([]string, 0, len(t))
	for _, rec := range t {
		if _, ok := seen[rec.Domain]; ok {
			continue
		}
		seen[rec.Domain] = struct{}{}
		values = append(values, rec.Domain)
	}
	sort.Strings(values)
	return values
}

// FilterDomain returns the rows whose domain equals value exactly.
// Comparison is case-sensitive.
func (t Table) FilterDomain(value string) Table {
	out := make(Table, 0, len(t))
	for _, rec := range t {
		if rec.Domain == value {
			out = append(out, rec)
		}
	}
	return out
}

// DeltaRecord is an incident record with its year-over-year change.
// Delta is share_2023 - share_2021; positive means the share increased.
// Delta is nil whenever either operand is missing.
type DeltaRecord struct {
	IncidentRecord
	Delta *float64 `json:"delta"`
}

// Record status labels. StatusUnavailable marks rows where the selected
// period has no reported value, so the UI can tell "not reported" apart
// from a genuine zero.
const (
	StatusReported    = "Reported"
	StatusUnavailable = "Data unavailable"
)

// DisplayRecord is the chart-ready projection of an incident record for a
// chosen year. CurrentShareFilled substitutes a small rendering sentinel
// for missing data so the bar stays visible; it must never feed back into
// computation.
type DisplayRecord struct {
	IncidentRecord
	CurrentShare       *float64 `json:"current_share"`
	CurrentShareFilled float64  `json:"current_share_filled"`
	Status             string   `json:"status"`
}

// TrendPoint is one (incident type, domain, year) observation of the
// long-format trend series behind the line chart.
type TrendPoint struct {
	IncidentType string   `json:"incident_type"`
	Domain       string   `json:"domain"`
	Year         int      `json:"year"`
	Share        *float64 `json:"share"`
}

// Float returns a pointer to v. Convenience for building records.
func Float(v float64) *float64 {
	return &v
}
