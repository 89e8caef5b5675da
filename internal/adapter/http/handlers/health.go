package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	StatusOk          = "ok"
	StatusDown        = "down"
	healthPingTimeout = 2 * time.Second
)

// Pinger is any backing service the health report can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function, such as (*sqlx.DB).PingContext, to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthAdvanced struct {
	AppName           string            `json:"app_name"`
	AppVersion        string            `json:"app_version"`
	CurrentSystemTime string            `json:"current_system_time"`
	Language          string            `json:"language"`
	Status            map[string]string `json:"status"`
}

type dependency struct {
	name     string
	pinger   Pinger
	required bool
}

type HealthHandler struct {
	dependencies []dependency
}

// NewHealthHandler probes the database on every check. Optional services added through
// WithOptional appear in the report but never fail readiness.
func NewHealthHandler(dbName string, db Pinger) *HealthHandler {
	h := &HealthHandler{}
	if db != nil {
		h.dependencies = append(h.dependencies, dependency{name: dbName, pinger: db, required: true})
	}
	return h
}

func (h *HealthHandler) WithOptional(name string, pinger Pinger) *HealthHandler {
	if pinger != nil {
		h.dependencies = append(h.dependencies, dependency{name: name, pinger: pinger})
	}
	return h
}

// Liveness only says the process is serving requests.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, newHealthBasic(StatusOk))
}

func (h *HealthHandler) CheckHealth(c *gin.Context) {
	statusCode := http.StatusOK
	message := StatusOk

	for name, ok := range h.probe(c.Request.Context(), true) {
		if !ok {
			zap.L().Warn("health check failed", zap.String("dependency", name))
			statusCode = http.StatusServiceUnavailable
			message = StatusDown
		}
	}

	c.JSON(statusCode, newHealthBasic(message))
}

func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	statuses := make(map[string]string, len(h.dependencies))
	for name, ok := range h.probe(c.Request.Context(), false) {
		statuses[name] = StatusDown
		if ok {
			statuses[name] = StatusOk
		}
	}

	c.JSON(http.StatusOK, HealthAdvanced{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().UTC().Format(time.RFC3339),
		Language:          middleware.GetLang(c),
		Status:            statuses,
	})
}

func (h *HealthHandler) probe(ctx context.Context, requiredOnly bool) map[string]bool {
	results := make(map[string]bool, len(h.dependencies))
	for _, dep := range h.dependencies {
		if requiredOnly && !dep.required {
			continue
		}
		// Avoid hanging health checks if a dependency stalls.
		timeoutCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
		results[dep.name] = dep.pinger.Ping(timeoutCtx) == nil
		cancel()
	}
	return results
}

func newHealthBasic(message string) HealthBasic {
	return HealthBasic{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().UTC().Format(time.RFC3339),
		Message:           message,
	}
}

func getAppVersion() string {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		return "dev"
	}
	return version
}
