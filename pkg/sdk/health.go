package nlquery

import (
	"context"

	healthuc "github.com/kailas-cloud/nlquery/internal/usecase/health"
)

// HealthStatus is the aggregated client health.
type HealthStatus struct {
	Status string            // "ok", "degraded" (translator down), "error" (store down)
	Checks map[string]string // "database", "translator" → "ok"/"error"
}

// Serving reports whether queries can still be answered. A degraded client
// serves cached questions only.
func (h HealthStatus) Serving() bool {
	return h.Status != string(healthuc.Unhealthy)
}

// Health checks the record store and, when it supports HealthCheck, the translator.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
