package handlers

import (
	"context"
	"net/http"
	"time"

	"vocalhire/interview/internal/config"
	"vocalhire/interview/internal/llm"
	"vocalhire/interview/internal/utils"
)

const pingTimeout = 2 * time.Second

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status   string                    `json:"status"`  // "ready" | "not_ready"
	Service  string                    `json:"service"` // Service name
	Checks   map[string]ReadinessCheck `json:"checks"`  // Individual check results
	Sessions int                       `json:"sessions"`
}

// TemplateSource exposes the loaded prompt templates.
type TemplateSource interface {
	GetTemplates() map[string][]string
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SessionCounter reports the number of live interview sessions.
type SessionCounter interface {
	Count() int
}

type HealthHandler struct {
	provider  llm.Provider
	templates TemplateSource
	store     Pinger
	sessions  SessionCounter
	config    *config.Config
}

func NewHealthHandler(provider llm.Provider, templates TemplateSource, st Pinger, sessions SessionCounter, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		provider:  provider,
		templates: templates,
		store:     st,
		sessions:  sessions,
		config:    cfg,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interview",
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

	if handler.provider == nil {
		fail("provider", "AI provider not initialized")
	} else {
		checks["provider"] = ReadinessCheck{Status: "ok"}
	}

	if handler.templates == nil {
		fail("prompt_manager", "Prompt manager not initialized")
	} else if len(handler.templates.GetTemplates()) == 0 {
		fail("prompt_manager", "No prompt templates loaded")
	} else {
		checks["prompt_manager"] = ReadinessCheck{Status: "ok"}
	}

	if handler.store == nil {
		fail("store", "Store not initialized")
	} else {
		ctx, cancel := context.WithTimeout(request.Context(), pingTimeout)
		err := handler.store.Ping(ctx)
		cancel()
		if err != nil {
			fail("store", err.Error())
		} else {
			checks["store"] = ReadinessCheck{Status: "ok"}
		}
	}

	if handler.config == nil {
		fail("configuration", "Configuration not loaded")
	} else {
		checks["configuration"] = ReadinessCheck{Status: "ok"}
	}

	response := ReadinessResponse{
		Service: "interview",
		Checks:  checks,
	}
	if handler.sessions != nil {
		response.Sessions = handler.sessions.Count()
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
