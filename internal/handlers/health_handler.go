package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AbiralTr/Arc-Web/internal/llm"
	"github.com/AbiralTr/Arc-Web/internal/prompts"
	"github.com/AbiralTr/Arc-Web/internal/utils"
)

const (
	serviceName   = "arc-web"
	questTemplate = "quest"
	readyTimeout  = 2 * time.Second
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	db            Pinger
	provider      llm.Provider
	promptManager prompts.PromptProvider
	now           func() time.Time
}

func NewHealthHandler(db Pinger, provider llm.Provider, promptManager prompts.PromptProvider) *HealthHandler {
	return &HealthHandler{
		db:            db,
		provider:      provider,
		promptManager: promptManager,
		now:           time.Now,
	}
}

// HealthHandler is the lightweight status probe the web client polls.
func (handler *HealthHandler) HealthHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]any{
		"ok":        true,
		"service":   serviceName,
		"timestamp": handler.now().UTC().Format(time.RFC3339Nano),
	})
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true
	fail := func(name, message string) {
		checks[name] = ReadinessCheck{Status: "failed", Message: message}
		allChecksPass = false
	}

	if handler.db == nil {
		fail("database", "Database not initialized")
	} else {
		ctx, cancel := context.WithTimeout(request.Context(), readyTimeout)
		err := handler.db.Ping(ctx)
		cancel()
		if err != nil {
			fail("database", err.Error())
		} else {
			checks["database"] = ReadinessCheck{Status: "ok"}
		}
	}

	if handler.provider == nil {
		fail("provider", "Quest generator not initialized")
	} else {
		checks["provider"] = ReadinessCheck{Status: "ok", Message: handler.provider.GetProviderName()}
	}

	switch {
	case handler.promptManager == nil:
		fail("prompt_manager", "Prompt manager not initialized")
	case len(handler.promptManager.Variants(questTemplate)) == 0:
		fail("prompt_manager", "No quest prompt templates loaded")
	default:
		checks["prompt_manager"] = ReadinessCheck{Status: "ok"}
	}

	response := ReadinessResponse{
		Service: serviceName,
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
