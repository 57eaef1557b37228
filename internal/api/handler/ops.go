package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tripwise/tripwise/internal/api/models"
	"github.com/tripwise/tripwise/internal/api/response"
)

// Pinger checks that a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CircuitReporter exposes the circuit breaker state of an external provider.
type CircuitReporter interface {
	Name() string
	CircuitState() string
}

// OpsConfig holds the dependencies checked by the ops endpoints.
type OpsConfig struct {
	Version   string
	BuildTime string

	// Subsystems are pinged by readiness and status, keyed by name.
	Subsystems map[string]Pinger

	// Providers report their circuit state on the status endpoint.
	Providers []CircuitReporter
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	cfg OpsConfig
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{cfg: cfg}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready - fails while any subsystem is
// unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	subsystems := h.pingAll(r.Context())

	health := models.Health{
		Status:  models.HealthStatusOK,
		Time:    models.Timestamp(time.Now()),
		Details: map[string]any{},
	}
	status := http.StatusOK
	for _, s := range subsystems {
		health.Details[s.Name] = s.Status
		if s.Status != models.HealthStatusOK {
			health.Status = models.HealthStatusFail
			status = http.StatusServiceUnavailable
		}
	}
	response.JSON(w, r, status, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem and provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	result := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       models.Timestamp(time.Now()),
		Subsystems: h.pingAll(r.Context()),
		Providers:  make([]models.ProviderStatus, 0, len(h.cfg.Providers)),
	}

	for _, s := range result.Subsystems {
		if s.Status != models.HealthStatusOK {
			result.Status = models.HealthStatusFail
		}
	}

	for _, p := range h.cfg.Providers {
		state := p.CircuitState()
		ps := models.ProviderStatus{Provider: p.Name(), Status: models.HealthStatusOK, Circuit: state}
		switch state {
		case "open":
			ps.Status = models.HealthStatusFail
		case "half-open":
			ps.Status = models.HealthStatusDegraded
		}
		if ps.Status != models.HealthStatusOK && result.Status == models.HealthStatusOK {
			result.Status = models.HealthStatusDegraded
		}
		result.Providers = append(result.Providers, ps)
	}

	response.JSON(w, r, http.StatusOK, result)
}

func (h *OpsHandler) pingAll(ctx context.Context) []models.SubsystemStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out := make([]models.SubsystemStatus, 0, len(h.cfg.Subsystems))
	for _, name := range sortedKeys(h.cfg.Subsystems) {
		s := models.SubsystemStatus{Name: name, Status: models.HealthStatusOK}
		if err := h.cfg.Subsystems[name].Ping(ctx); err != nil {
			detail := err.Error()
			s.Status = models.HealthStatusFail
			s.Detail = &detail
		}
		out = append(out, s)
	}
	return out
}

func sortedKeys(m map[string]Pinger) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
