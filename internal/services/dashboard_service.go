// Package services holds the application services between the HTTP layer
// and the dataset pipeline. The dashboard service is stateless: it reads
// the immutable store and recomputes every view per request.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"cyberpulse/internal/dataset"
	"cyberpulse/internal/exporter"
	"cyberpulse/internal/infrastructure"
	"cyberpulse/pkg/contracts/domain"
)

// DashboardQuery is the user's chart selection. An empty Domain selects
// the dimension's default aggregate; an empty Year defaults to 2023.
type DashboardQuery struct {
	Dimension     string `json:"dimension" validate:"required,oneof=industry size region"`
	Domain        string `json:"domain"`
	Year          string `json:"year" validate:"omitempty,oneof=2021 2023 average"`
	CompareSweden bool   `json:"compare_sweden"`
}

// Dashboard is one fully derived render pass: the chart-ready records,
// the trend series, the KPI summary and the fixed chart scale.
type Dashboard struct {
	Dimension     string                 `json:"dimension"`
	Domain        string                 `json:"domain"`
	Year          string                 `json:"year"`
	CompareSweden bool                   `json:"compare_sweden"`
	Records       []domain.DisplayRecord `json:"records"`
	Trend         []domain.TrendPoint    `json:"trend"`
	Summary       dataset.Summary        `json:"summary"`
	ChartMax      *float64               `json:"chart_max"`
	TopMovers     []domain.DeltaRecord   `json:"top_movers"`
}

// DimensionInfo describes one selectable dimension: its domain option
// list and the preselected default.
type DimensionInfo struct {
	Dimension     string   `json:"dimension"`
	Domains       []string `json:"domains"`
	DefaultDomain string   `json:"default_domain"`
}

// DashboardService derives dashboard views from the loaded survey store.
type DashboardService struct {
	store    *dataset.Store
	logger   *slog.Logger
	validate *validator.Validate
	metrics  *infrastructure.BusinessMetrics
}

// NewDashboardService creates the dashboard service. metrics may be nil
// (e.g. in the export CLI, which has no metrics endpoint).
func NewDashboardService(store *dataset.Store, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:    store,
		logger:   logger.With(slog.String("component", "dashboard_service")),
		validate: validator.New(),
		metrics:  metrics,
	}
}

// resolved is a validated and defaulted query.
type resolved struct {
	dimension domain.Dimension
	domainVal string
	year      domain.YearChoice
	table     domain.Table
}

// resolveQuery validates the query, applies defaults and resolves the
// dimension table.
func (s *DashboardService) resolveQuery(q DashboardQuery) (resolved, error) {
	if q.Year == "" {
		q.Year = string(domain.Year2023)
	}
	if err := s.validate.Struct(q); err != nil {
		return resolved{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dim := domain.Dimension(q.Dimension)
	table, err := s.store.DimensionTable(dim)
	if err != nil {
		return resolved{}, fmt.Errorf("%w: %s", ErrUnknownDimension, q.Dimension)
	}

	values := table.DomainValues()
	domainVal := q.Domain
	if domainVal == "" {
		domainVal = dataset.DefaultDomain(dim, values)
	} else if !containsString(values, domainVal) {
		return resolved{}, fmt.Errorf("%w: %q in dimension %s", ErrDomainNotFound, domainVal, q.Dimension)
	}

	return resolved{
		dimension: dim,
		domainVal: domainVal,
		year:      domain.YearChoice(q.Year),
		table:     table,
	}, nil
}

// GetDashboard performs one render pass for the given selection.
func (s *DashboardService) GetDashboard(ctx context.Context, q DashboardQuery) (*Dashboard, error) {
	r, err := s.resolveQuery(q)
	if err != nil {
		return nil, err
	}

	primary := r.table.FilterDomain(r.domainVal)
	plot := dataset.Select(r.table, r.domainVal, q.CompareSweden)

	// The KPI summary covers the primary selection only; the Sweden
	// comparison series feeds the charts, not the headline number.
	board := &Dashboard{
		Dimension:     string(r.dimension),
		Domain:        r.domainVal,
		Year:          string(r.year),
		CompareSweden: q.CompareSweden,
		Records:       dataset.Derive(plot, r.year),
		Trend:         dataset.Trend(plot),
		Summary:       dataset.Summarize(primary, r.year),
		ChartMax:      s.store.GlobalMaxShare(),
		TopMovers:     s.store.TopMovers(),
	}

	s.metrics.RecordRender(ctx, board.Dimension, board.Year)
	s.logger.DebugContext(ctx, "dashboard rendered",
		slog.String("dimension", board.Dimension),
		slog.String("domain", board.Domain),
		slog.String("year", board.Year),
		slog.Bool("compare_sweden", board.CompareSweden),
		slog.Int("record_count", len(board.Records)))

	return board, nil
}

// GetDimensions returns the option metadata for all three dimensions.
func (s *DashboardService) GetDimensions(ctx context.Context) ([]DimensionInfo, error) {
	infos := make([]DimensionInfo, 0, len(domain.AllDimensions()))
	for _, dim := range domain.AllDimensions() {
		info, err := s.GetDomains(ctx, string(dim))
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GetDomains returns the domain option list for one dimension.
func (s *DashboardService) GetDomains(ctx context.Context, dimension string) (DimensionInfo, error) {
	dim := domain.Dimension(dimension)
	table, err := s.store.DimensionTable(dim)
	if err != nil {
		return DimensionInfo{}, fmt.Errorf("%w: %s", ErrUnknownDimension, dimension)
	}

	values := table.DomainValues()
	return DimensionInfo{
		Dimension:     dimension,
		Domains:       values,
		DefaultDomain: dataset.DefaultDomain(dim, values),
	}, nil
}

// GetTopMovers returns the rows with the largest absolute year-over-year
// change across all four source tables.
func (s *DashboardService) GetTopMovers(ctx context.Context) ([]domain.DeltaRecord, error) {
	return s.store.TopMovers(), nil
}

// ExportCSV writes the primary selection (no Sweden comparison rows) to w
// in the original semicolon/Windows-1252 format and returns the download
// filename.
func (s *DashboardService) ExportCSV(ctx context.Context, w io.Writer, q DashboardQuery) (string, error) {
	r, err := s.resolveQuery(q)
	if err != nil {
		return "", err
	}

	if err := exporter.WriteCSV(w, r.table.FilterDomain(r.domainVal)); err != nil {
		return "", fmt.Errorf("export csv: %w", err)
	}

	s.metrics.RecordExport(ctx, "csv")
	return exportFilename(r, "csv"), nil
}

// ExportExcel writes the primary selection to w as an Excel workbook and
// returns the download filename.
func (s *DashboardService) ExportExcel(ctx context.Context, w io.Writer, q DashboardQuery) (string, error) {
	r, err := s.resolveQuery(q)
	if err != nil {
		return "", err
	}

	if err := exporter.WriteExcel(w, r.table.FilterDomain(r.domainVal)); err != nil {
		return "", fmt.Errorf("export excel: %w", err)
	}

	s.metrics.RecordExport(ctx, "xlsx")
	return exportFilename(r, "xlsx"), nil
}

func exportFilename(r resolved, ext string) string {
	return fmt.Sprintf("%s_%s.%s", r.dimension, strings.ReplaceAll(r.domainVal, " ", "_"), ext)
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
