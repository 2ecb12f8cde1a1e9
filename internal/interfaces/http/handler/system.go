package handler

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// SystemHandler serves process information and dependency health
type SystemHandler struct {
	BaseHandler
	name    string
	version string
	checks  []HealthCheck
	started time.Time
}

func NewSystemHandler(name, version string, checks ...HealthCheck) *SystemHandler {
	return &SystemHandler{name: name, version: version, checks: checks, started: time.Now()}
}

// SystemInfoResponse describes the running binary
type SystemInfoResponse struct {
	Name      string `json:"name" example:"bakery-backend"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// PingResponse is the liveness answer
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// HealthResponse carries one entry per dependency, "ok" or the failure
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
}

// GetSystemInfo godoc
// @Summary  Get system information
// @Tags     system
// @Produce  json
// @Success  200 {object} dto.Response{data=SystemInfoResponse}
// @Router   /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	})
}

// Ping godoc
// @Summary  Ping the API
// @Tags     system
// @Produce  json
// @Success  200 {object} dto.Response{data=PingResponse}
// @Router   /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{Message: "pong", Timestamp: time.Now().UTC().Format(time.RFC3339)})
}

// Health godoc
// @Summary      Health check
// @Description  Probes every dependency concurrently; 503 when any fails
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp, healthy := h.probe(ctx)
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, dto.Response{Data: resp})
		return
	}
	h.Success(c, resp)
}

func (h *SystemHandler) probe(ctx context.Context) (HealthResponse, bool) {
	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, hc := range h.checks {
		g.Go(func() error {
			err := hc.Check(ctx)
			result := "ok"
			if err != nil {
				result = "unavailable: " + err.Error()
			}
			mu.Lock()
			resp.Checks[hc.Name] = result
			mu.Unlock()
			return err
		})
	}
	if g.Wait() != nil {
		resp.Status = "degraded"
		return resp, false
	}
	return resp, true
}
