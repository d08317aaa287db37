package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberpulse/pkg/contracts/domain"
)

func TestCurrentShare(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.IncidentRecord
		year domain.YearChoice
		want *float64
	}{
		{"single year 2021", rec("a", "x", domain.Float(40), domain.Float(60)), domain.Year2021, domain.Float(40)},
		{"single year 2023", rec("a", "x", domain.Float(40), domain.Float(60)), domain.Year2023, domain.Float(60)},
		{"single year missing", rec("a", "x", nil, domain.Float(60)), domain.Year2021, nil},
		{"average of both", rec("a", "x", domain.Float(40), domain.Float(60)), domain.YearAverage, domain.Float(50)},
		{"average with one missing uses the present value", rec("a", "x", nil, domain.Float(60)), domain.YearAverage, domain.Float(60)},
		{"average with both missing", rec("a", "x", nil, nil), domain.YearAverage, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentShare(tt.rec, tt.year)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestDerive(t *testing.T) {
	table := domain.Table{
		rec("reported", "Sweden", domain.Float(20), domain.Float(25)),
		rec("unreported", "Sweden", domain.Float(9), nil),
	}

	records := Derive(table, domain.Year2023)
	require.Len(t, records, 2)

	reported := records[0]
	assert.Equal(t, domain.StatusReported, reported.Status)
	require.NotNil(t, reported.CurrentShare)
	assert.Equal(t, 25.0, *reported.CurrentShare)
	assert.Equal(t, 25.0, reported.CurrentShareFilled)

	// A missing value gets the thin-bar sentinel, never a zero, and the
	// nullable share stays nil so computations can tell them apart.
	unreported := records[1]
	assert.Equal(t, domain.StatusUnavailable, unreported.Status)
	assert.Nil(t, unreported.CurrentShare)
	assert.Equal(t, UnreportedFillValue, unreported.CurrentShareFilled)
}

func TestTrend(t *testing.T) {
	table := domain.Table{
		rec("Phishing", "Sweden", domain.Float(20), nil),
	}

	points := Trend(table)
	require.Len(t, points, 2)

	assert.Equal(t, 2021, points[0].Year)
	require.NotNil(t, points[0].Share)
	assert.Equal(t, 20.0, *points[0].Share)

	// Missing years stay in the series as gaps, not zeros.
	assert.Equal(t, 2023, points[1].Year)
	assert.Nil(t, points[1].Share)
}

func TestSummarize(t *testing.T) {
	table := domain.Table{
		rec("a", "Sweden", domain.Float(10), domain.Float(20)),
		rec("b", "Sweden", domain.Float(30), domain.Float(40)),
	}

	t.Run("single year produces delta and label", func(t *testing.T) {
		s := Summarize(table, domain.Year2023)
		require.NotNil(t, s.MeanShare)
		assert.Equal(t, 30.0, *s.MeanShare)
		require.NotNil(t, s.DeltaVsPrev)
		assert.Equal(t, 10.0, *s.DeltaVsPrev)
		assert.Equal(t, "+10.0 pp", s.DeltaLabel)
	})

	t.Run("negative delta keeps the sign", func(t *testing.T) {
		s := Summarize(table, domain.Year2021)
		require.NotNil(t, s.DeltaVsPrev)
		assert.Equal(t, -10.0, *s.DeltaVsPrev)
		assert.Equal(t, "-10.0 pp", s.DeltaLabel)
	})

	t.Run("average has no comparison year", func(t *testing.T) {
		s := Summarize(table, domain.YearAverage)
		require.NotNil(t, s.MeanShare)
		assert.Equal(t, 25.0, *s.MeanShare)
		assert.Nil(t, s.DeltaVsPrev)
		assert.Empty(t, s.DeltaLabel)
	})
}

func TestSummarizeMissingValues(t *testing.T) {
	t.Run("mean skips missing values", func(t *testing.T) {
		table := domain.Table{
			rec("a", "Sweden", domain.Float(10), domain.Float(20)),
			rec("b", "Sweden", domain.Float(30), nil),
		}
		s := Summarize(table, domain.Year2023)
		require.NotNil(t, s.MeanShare)
		assert.Equal(t, 20.0, *s.MeanShare)
	})

	t.Run("all missing means no KPI", func(t *testing.T) {
		table := domain.Table{rec("a", "Sweden", domain.Float(10), nil)}
		s := Summarize(table, domain.Year2023)
		assert.Nil(t, s.MeanShare)
		assert.Nil(t, s.DeltaVsPrev)
	})

	t.Run("empty selection", func(t *testing.T) {
		s := Summarize(domain.Table{}, domain.Year2023)
		assert.Nil(t, s.MeanShare)
		assert.Nil(t, s.DeltaVsPrev)
	})
}
