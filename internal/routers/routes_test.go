package routers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vocalhire/interview/internal/catalog"
	"vocalhire/interview/internal/config"
	"vocalhire/interview/internal/handlers"
	"vocalhire/interview/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestHealthRoutes(t *testing.T) {
	router := chi.NewRouter()
	handler := handlers.NewHealthHandler(nil, nil, nil, nil, &config.Config{Provider: "gemini"})

	HealthRoutes(router, handler)

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("/healthz route not registered correctly, got status %d", rec.Code)
	}
}

func TestAPIRoutesRegisterEndpoints(t *testing.T) {
	router := chi.NewRouter()
	logger := zap.NewNop()
	st := store.NewMemoryStore()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	reportHandler := handlers.NewReportHandler(st, logger, nil)

	InterviewRoutes(router, handlers.NewInterviewHandler(nil, st, logger), handlers.NewFeedbackHandler(nil, st, logger), reportHandler)
	ReportRoutes(router, reportHandler)
	MentorRoutes(router, handlers.NewMentorHandler(nil, st, logger))
	SettingsRoutes(router, handlers.NewSettingsHandler(st, logger))
	CatalogRoutes(router, handlers.NewCatalogHandler(cat))

	paths := map[string]bool{}
	if err := chi.Walk(router, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		paths[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("failed walking routes: %v", err)
	}

	expected := []string{
		"POST /api/v1/interviews/",
		"GET /api/v1/interviews/",
		"GET /api/v1/interviews/{id}/",
		"GET /api/v1/interviews/{id}/session",
		"POST /api/v1/interviews/{id}/end",
		"GET /api/v1/interviews/{id}/ws",
		"POST /api/v1/interviews/{id}/feedback",
		"GET /api/v1/interviews/{id}/report",
		"GET /api/v1/reports/",
		"POST /api/v1/reports/summary",
		"PATCH /api/v1/reports/{id}",
		"DELETE /api/v1/reports/{id}",
		"POST /api/v1/mentor/chat",
		"GET /api/v1/settings/{key}",
		"PUT /api/v1/settings/{key}",
		"GET /api/v1/catalog/categories",
		"GET /api/v1/catalog/questions",
	}

	for _, route := range expected {
		if !paths[route] {
			t.Fatalf("expected route %s to be registered, have %v", route, paths)
		}
	}
}

func TestCatalogRoutesServe(t *testing.T) {
	router := chi.NewRouter()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	CatalogRoutes(router, handlers.NewCatalogHandler(cat))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/questions?role=Software+Engineer", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
