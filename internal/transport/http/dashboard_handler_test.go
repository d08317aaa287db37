package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "cyberpulse/internal/errors"
	"cyberpulse/internal/services"
	"cyberpulse/internal/shared/testutil"
	"cyberpulse/pkg/contracts/domain"
)

// stubDashboardService implements DashboardServiceInterface for handler
// tests.
type stubDashboardService struct {
	dashboard  *services.Dashboard
	dimensions []services.DimensionInfo
	domains    services.DimensionInfo
	movers     []domain.DeltaRecord
	exportBody string
	filename   string
	err        error
}

func (s *stubDashboardService) GetDashboard(ctx context.Context, q services.DashboardQuery) (*services.Dashboard, error) {
	return s.dashboard, s.err
}

func (s *stubDashboardService) GetDimensions(ctx context.Context) ([]services.DimensionInfo, error) {
	return s.dimensions, s.err
}

func (s *stubDashboardService) GetDomains(ctx context.Context, dimension string) (services.DimensionInfo, error) {
	return s.domains, s.err
}

func (s *stubDashboardService) GetTopMovers(ctx context.Context) ([]domain.DeltaRecord, error) {
	return s.movers, s.err
}

func (s *stubDashboardService) ExportCSV(ctx context.Context, w io.Writer, q services.DashboardQuery) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	io.WriteString(w, s.exportBody)
	return s.filename, nil
}

func (s *stubDashboardService) ExportExcel(ctx context.Context, w io.Writer, q services.DashboardQuery) (string, error) {
	return s.ExportCSV(ctx, w, q)
}

func newTestHandler(t *testing.T, stub *stubDashboardService) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	handler := NewDashboardHandler(stub, logger, apierrors.NewErrorHandler(logger, false))
	return handler.Routes()
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestGetDashboardHandler(t *testing.T) {
	stub := &stubDashboardService{
		dashboard: &services.Dashboard{
			Dimension: "region",
			Domain:    "Stockholm",
			Year:      "2023",
			Records: []domain.DisplayRecord{
				{IncidentRecord: domain.IncidentRecord{IncidentType: "Phishing", Domain: "Stockholm"}},
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard?dimension=region&domain=Stockholm", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t, stub).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(1), body["count"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Stockholm", data["domain"])
}

func TestGetDashboardHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", services.ErrInvalidInput, http.StatusBadRequest},
		{"unknown dimension", services.ErrUnknownDimension, http.StatusNotFound},
		{"unknown domain", services.ErrDomainNotFound, http.StatusNotFound},
		{"unexpected failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubDashboardService{err: tt.err}
			req := httptest.NewRequest(http.MethodGet, "/dashboard?dimension=region", nil)
			rr := httptest.NewRecorder()
			newTestHandler(t, stub).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestGetDimensionsHandler(t *testing.T) {
	stub := &stubDashboardService{
		dimensions: []services.DimensionInfo{
			{Dimension: "industry", Domains: []string{"Sweden"}, DefaultDomain: "Sweden"},
			{Dimension: "size"},
			{Dimension: "region"},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/dimensions", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t, stub).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, float64(3), body["count"])
}

func TestGetDomainsHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubDashboardService{
			domains: services.DimensionInfo{
				Dimension:     "region",
				Domains:       []string{"Stockholm", "Sweden"},
				DefaultDomain: "Sweden",
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/dimensions/region/domains", nil)
		rr := httptest.NewRecorder()
		newTestHandler(t, stub).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, float64(2), body["count"])
	})

	t.Run("unknown dimension", func(t *testing.T) {
		stub := &stubDashboardService{err: services.ErrUnknownDimension}
		req := httptest.NewRequest(http.MethodGet, "/dimensions/county/domains", nil)
		rr := httptest.NewRecorder()
		newTestHandler(t, stub).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetTopMoversHandler(t *testing.T) {
	stub := &stubDashboardService{
		movers: []domain.DeltaRecord{
			{
				IncidentRecord: domain.IncidentRecord{IncidentType: "Phishing", Domain: "Sweden"},
				Delta:          domain.Float(-5.4),
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/movers", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t, stub).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, float64(1), body["count"])
}

func TestExportCSVHandler(t *testing.T) {
	stub := &stubDashboardService{
		exportBody: "incident_type;domain\n",
		filename:   "region_Stockholm.csv",
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard/export?dimension=region&domain=Stockholm", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t, stub).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=windows-1252", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="region_Stockholm.csv"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "incident_type;domain\n", rr.Body.String())
}

func TestExportCSVHandlerError(t *testing.T) {
	stub := &stubDashboardService{err: services.ErrDomainNotFound}
	req := httptest.NewRequest(http.MethodGet, "/dashboard/export?dimension=region&domain=Atlantis", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t, stub).ServeHTTP(rr, req)

	// No partial download: the response is a problem document.
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
}

func TestExportExcelHandler(t *testing.T) {
	stub := &stubDashboardService{
		exportBody: "PK",
		filename:   "industry_Sweden.xlsx",
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard/export.xlsx?dimension=industry", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t, stub).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="industry_Sweden.xlsx"`, rr.Header().Get("Content-Disposition"))
}

func TestCompareSwedenQueryParsing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard?dimension=region&compare_sweden=true", nil)
	q := queryFromRequest(req)
	assert.True(t, q.CompareSweden)

	req = httptest.NewRequest(http.MethodGet, "/dashboard?dimension=region&compare_sweden=bogus", nil)
	q = queryFromRequest(req)
	assert.False(t, q.CompareSweden)
}
