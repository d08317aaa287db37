package dataset

import (
	"fmt"

	"cyberpulse/pkg/contracts/domain"
)

// UnreportedFillValue is the rendering sentinel substituted for a missing
// current share so the bar stays visibly thin instead of vanishing like a
// true 0%. It exists only at the presentation boundary; computations use
// the nullable CurrentShare.
const UnreportedFillValue = 0.1

// CurrentShare derives the current-period share for one record. A single
// year returns that year's share directly (possibly nil). The average
// choice means over whichever of the two shares are present; when both
// are missing the result is missing.
func CurrentShare(rec domain.IncidentRecord, year domain.YearChoice) *float64 {
	switch year {
	case domain.Year2021:
		return rec.Share2021
	case domain.Year2023:
		return rec.Share2023
	case domain.YearAverage:
		return meanOf(rec.Share2021, rec.Share2023)
	default:
		return nil
	}
}

func meanOf(values ...*float64) *float64 {
	sum := 0.0
	count := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		count++
	}
	if count == 0 {
		return nil
	}
	m := sum / float64(count)
	return &m
}

// Derive projects a selected table into chart-ready display records for
// the chosen year.
func Derive(t domain.Table, year domain.YearChoice) []domain.DisplayRecord {
	out := make([]domain.DisplayRecord, len(t))
	for i, rec := range t {
		current := CurrentShare(rec, year)
		filled := UnreportedFillValue
		status := domain.StatusUnavailable
		if current != nil {
			filled = *current
			status = domain.StatusReported
		}
		out[i] = domain.DisplayRecord{
			IncidentRecord:     rec,
			CurrentShare:       current,
			CurrentShareFilled: filled,
			Status:             status,
		}
	}
	return out
}

// Trend melts a table into the long-format series behind the line chart:
// one point per row and survey year.
func Trend(t domain.Table) []domain.TrendPoint {
	out := make([]domain.TrendPoint, 0, 2*len(t))
	for _, rec := range t {
		out = append(out,
			domain.TrendPoint{IncidentType: rec.IncidentType, Domain: rec.Domain, Year: 2021, Share: rec.Share2021},
			domain.TrendPoint{IncidentType: rec.IncidentType, Domain: rec.Domain, Year: 2023, Share: rec.Share2023},
		)
	}
	return out
}

// Summary is the KPI block above the charts: the mean current share of
// the selection and, for a single-year choice, the change against the
// other survey year's mean.
type Summary struct {
	Year        domain.YearChoice `json:"year"`
	MeanShare   *float64          `json:"mean_share"`
	DeltaVsPrev *float64          `json:"delta_vs_prev"`
	DeltaLabel  string            `json:"delta_label,omitempty"`
}

// Summarize computes the KPI summary over the primary selection. Means
// skip missing values. The delta and its signed label are only produced
// for the single-year choices, where an "other" year exists to compare
// against.
func Summarize(t domain.Table, year domain.YearChoice) Summary {
	s := Summary{Year: year}

	currents := make([]*float64, len(t))
	for i, rec := range t {
		currents[i] = CurrentShare(rec, year)
	}
	s.MeanShare = meanOf(currents...)

	var other domain.YearChoice
	switch year {
	case domain.Year2021:
		other = domain.Year2023
	case domain.Year2023:
		other = domain.Year2021
	default:
		return s
	}

	others := make([]*float64, len(t))
	for i, rec := range t {
		others[i] = CurrentShare(rec, other)
	}
	otherMean := meanOf(others...)
	if s.MeanShare == nil || otherMean == nil {
		return s
	}
	d := *s.MeanShare - *otherMean
	s.DeltaVsPrev = &d
	s.DeltaLabel = fmt.Sprintf("%+.1f pp", d)
	return s
}
