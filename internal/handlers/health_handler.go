package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/yinchen618/pu-in-practice/internal/config"
	"github.com/yinchen618/pu-in-practice/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

// Pinger is implemented by cache backends that live out of process.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	registry ModelRegistry
	resolver ConfigResolver
	cache    Pinger
	config   *config.Config
}

// NewHealthHandler wires the readiness checks. cache may be nil when the
// response cache is in process.
func NewHealthHandler(registry ModelRegistry, resolver ConfigResolver, cache Pinger, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		registry: registry,
		resolver: resolver,
		cache:    cache,
		config:   cfg,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "case-study",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	fail := func(name, message string) {
		checks[name] = ReadinessCheck{Status: "failed", Message: message}
		allChecksPass = false
	}

	if handler.registry == nil {
		fail("registry", "Model registry client not initialized")
	} else {
		checks["registry"] = ReadinessCheck{Status: "ok"}
	}

	if handler.resolver == nil {
		fail("resolver", "Config resolver not initialized")
	} else {
		checks["resolver"] = ReadinessCheck{Status: "ok"}
	}

	if handler.config == nil {
		fail("configuration", "Configuration not loaded")
	} else {
		checks["configuration"] = ReadinessCheck{Status: "ok"}
	}

	// the in-process cache has nothing to probe
	if handler.cache != nil {
		ctx, cancel := context.WithTimeout(request.Context(), 2*time.Second)
		defer cancel()
		if err := handler.cache.Ping(ctx); err != nil {
			fail("cache", "Cache unreachable: "+err.Error())
		} else {
			checks["cache"] = ReadinessCheck{Status: "ok"}
		}
	}

	response := ReadinessResponse{
		Service: "case-study",
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
