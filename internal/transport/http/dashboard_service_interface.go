package http

import (
	"context"
	"io"

	"cyberpulse/internal/services"
	"cyberpulse/pkg/contracts/domain"
)

// DashboardServiceInterface is the contract the dashboard handler depends
// on; tests substitute a stub.
type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context, q services.DashboardQuery) (*services.Dashboard, error)
	GetDimensions(ctx context.Context) ([]services.DimensionInfo, error)
	GetDomains(ctx context.Context, dimension string) (services.DimensionInfo, error)
	GetTopMovers(ctx context.Context) ([]domain.DeltaRecord, error)
	ExportCSV(ctx context.Context, w io.Writer, q services.DashboardQuery) (string, error)
	ExportExcel(ctx context.Context, w io.Writer, q services.DashboardQuery) (string, error)
}
