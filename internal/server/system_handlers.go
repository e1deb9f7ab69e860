package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/retail-insights/internal/database"
	"github.com/aristath/retail-insights/internal/di"
	"github.com/aristath/retail-insights/internal/modules/dataset"
	"github.com/aristath/retail-insights/internal/modules/model"
)

// SystemHandlers serves health and status information
type SystemHandlers struct {
	container *di.Container
	log       zerolog.Logger
	startedAt time.Time
}

// NewSystemHandlers creates system handlers over the wired container
func NewSystemHandlers(container *di.Container, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		container: container,
		log:       log.With().Str("handler", "system").Logger(),
		startedAt: time.Now(),
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status          string            `json:"status"`
	UptimeSeconds   int64             `json:"uptime_seconds"`
	CPUPercent      float64           `json:"cpu_percent"`
	MemoryPercent   float64           `json:"memory_percent"`
	Model           *model.Info       `json:"model,omitempty"`
	Dataset         *dataset.Snapshot `json:"dataset,omitempty"`
	ElasticityCount int               `json:"elasticity_categories"`
	AnalyticsDB     *database.Stats   `json:"analytics_db,omitempty"`
	LastChecked     string            `json:"last_checked"`
}

// HandleHealth reports whether the model and dataset are loaded and analytics.db answers
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	response := HealthResponse{Status: "healthy", Service: "retail-insights"}

	c := h.container
	if c == nil || c.Model == nil || c.Dataset == nil || !c.Dataset.Loaded() {
		status = http.StatusServiceUnavailable
		response.Status = "degraded"
	} else if c.AnalyticsDB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := c.AnalyticsDB.QuickCheck(ctx); err != nil {
			h.log.Warn().Err(err).Msg("Analytics database unreachable")
			status = http.StatusServiceUnavailable
			response.Status = "degraded"
		}
	}

	h.writeJSON(w, status, response)
}

// HandleSystemStatus returns process, artifact and database status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, memPercent := h.getSystemStats()
	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		LastChecked:   time.Now().Format(time.RFC3339),
	}

	c := h.container
	if c.Model != nil {
		info := c.Model.Info()
		response.Model = &info
	} else {
		response.Status = "degraded"
	}
	if c.Dataset != nil && c.Dataset.Loaded() {
		snapshot := c.Dataset.Snapshot()
		response.Dataset = &snapshot
	} else {
		response.Status = "degraded"
	}
	if c.Elasticity != nil {
		response.ElasticityCount = c.Elasticity.Len()
	}
	if c.AnalyticsDB != nil {
		stats, err := c.AnalyticsDB.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get analytics database stats")
		} else {
			response.AnalyticsDB = stats
		}
	}

	h.writeJSON(w, http.StatusOK, response)
}

// getSystemStats samples CPU over a short interval so the endpoint stays responsive
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
