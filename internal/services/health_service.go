package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"cyberpulse/internal/dataset"
	"cyberpulse/pkg/contracts/domain"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	store     *dataset.Store
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Datasets  map[string]int         `json:"datasets,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version, buildTime string, store *dataset.Store, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		store:     store,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns the overall service health including per-dataset
// row counts. A store with any empty dataset reports degraded.
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := "healthy"
	datasets := make(map[string]int, len(domain.AllDatasetKeys()))
	for _, key := range domain.AllDatasetKeys() {
		n := len(s.store.Table(key))
		datasets[string(key)] = n
		if n == 0 {
			status = "degraded"
		}
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
			"goroutines": runtime.NumGoroutine(),
			"uptime":     formatUptime(time.Since(s.startTime)),
		},
		Datasets: datasets,
	}
}

// LivenessCheck reports whether the process is alive
func (s *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   s.version,
	}
}

// ReadinessCheck reports whether the service can serve dashboards.
// Datasets are loaded once at startup, so readiness mirrors the store.
func (s *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := "ready"
	if len(s.store.Concat()) == 0 {
		status = "not_ready"
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   s.version,
	}
}

// Version returns build information
func (s *HealthService) Version() map[string]string {
	return map[string]string{
		"version":    s.version,
		"build_time": s.buildTime,
		"go_version": runtime.Version(),
	}
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%dh%dm%ds", h, m, d/time.Second)
}
