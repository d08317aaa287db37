// Package http contains the HTTP handlers of the dashboard API.
package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cyberpulse/internal/errors"
	"cyberpulse/internal/services"
)

// DashboardHandler handles dashboard-related HTTP requests.
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/dashboard", h.GetDashboard)
		r.Get("/dimensions", h.GetDimensions)
		r.Get("/movers", h.GetTopMovers)

		r.Route("/dimensions/{dimension}", func(r chi.Router) {
			r.Use(h.DimensionCtx)
			r.Get("/domains", h.GetDomains)
		})
	})

	// Downloads set their own content types.
	r.Get("/dashboard/export", h.ExportCSV)
	r.Get("/dashboard/export.xlsx", h.ExportExcel)

	return r
}

// DimensionCtx validates the dimension URL parameter.
func (h *DashboardHandler) DimensionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dimension := chi.URLParam(r, "dimension")
		if dimension == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dimension", "Dimension is required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// queryFromRequest maps the request's query string onto a DashboardQuery.
func queryFromRequest(r *http.Request) services.DashboardQuery {
	q := r.URL.Query()
	compare, _ := strconv.ParseBool(q.Get("compare_sweden"))
	return services.DashboardQuery{
		Dimension:     q.Get("dimension"),
		Domain:        q.Get("domain"),
		Year:          q.Get("year"),
		CompareSweden: compare,
	}
}

// GetDashboard handles GET /api/dashboard.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	query := queryFromRequest(r)

	h.logger.InfoContext(r.Context(), "rendering dashboard",
		slog.String("dimension", query.Dimension),
		slog.String("domain", query.Domain),
		slog.String("year", query.Year),
		slog.Bool("compare_sweden", query.CompareSweden),
	)

	board, err := h.service.GetDashboard(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, r, err, query)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   board,
		"count":  len(board.Records),
	})
}

// GetDimensions handles GET /api/dimensions.
func (h *DashboardHandler) GetDimensions(w http.ResponseWriter, r *http.Request) {
	infos, err := h.service.GetDimensions(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   infos,
		"count":  len(infos),
	})
}

// GetDomains handles GET /api/dimensions/{dimension}/domains.
func (h *DashboardHandler) GetDomains(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")

	info, err := h.service.GetDomains(r.Context(), dimension)
	if err != nil {
		if errors.Is(err, services.ErrUnknownDimension) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusNotFound,
				"DIMENSION_NOT_FOUND",
				fmt.Sprintf("Dimension '%s' not found", dimension),
				map[string]interface{}{"dimension": dimension},
			))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   info,
		"count":  len(info.Domains),
	})
}

// GetTopMovers handles GET /api/movers.
func (h *DashboardHandler) GetTopMovers(w http.ResponseWriter, r *http.Request) {
	movers, err := h.service.GetTopMovers(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   movers,
		"count":  len(movers),
	})
}

// ExportCSV handles GET /api/dashboard/export. The filtered selection is
// re-serialized in the source format: semicolon-delimited, Windows-1252.
func (h *DashboardHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	query := queryFromRequest(r)

	// Buffer the export so errors can still produce a clean problem
	// response instead of a truncated download.
	var buf bytes.Buffer
	filename, err := h.service.ExportCSV(r.Context(), &buf, query)
	if err != nil {
		h.handleServiceError(w, r, err, query)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=windows-1252")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// ExportExcel handles GET /api/dashboard/export.xlsx.
func (h *DashboardHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	query := queryFromRequest(r)

	var buf bytes.Buffer
	filename, err := h.service.ExportExcel(r.Context(), &buf, query)
	if err != nil {
		h.handleServiceError(w, r, err, query)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// handleServiceError maps service errors onto API errors.
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, query services.DashboardQuery) {
	h.logger.ErrorContext(r.Context(), "dashboard request failed",
		slog.String("error", err.Error()),
		slog.String("dimension", query.Dimension),
		slog.String("domain", query.Domain),
	)

	switch {
	case errors.Is(err, services.ErrInvalidInput):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"VALIDATION_FAILED",
			"Invalid dashboard selection",
			map[string]interface{}{"error": err.Error()},
		))

	case errors.Is(err, services.ErrUnknownDimension):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"DIMENSION_NOT_FOUND",
			fmt.Sprintf("Dimension '%s' not found", query.Dimension),
			map[string]interface{}{"dimension": query.Dimension},
		))

	case errors.Is(err, services.ErrDomainNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"DOMAIN_NOT_FOUND",
			fmt.Sprintf("Domain '%s' not found in dimension '%s'", query.Domain, query.Dimension),
			map[string]interface{}{"dimension": query.Dimension, "domain": query.Domain},
		))

	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
