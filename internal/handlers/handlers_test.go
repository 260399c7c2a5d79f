package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vocalhire/interview/internal/catalog"
	"vocalhire/interview/internal/llm"
	"vocalhire/interview/internal/middleware"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/proctoring"
	"vocalhire/interview/internal/session"
	"vocalhire/interview/internal/store"
)

type mockProvider struct {
	generateContentFn func(ctx context.Context, prompt string, requestID string, opts llm.GenerationOptions) (*models.GenerationResponse, error)
	getProviderNameFn func() string
}

func (m *mockProvider) GenerateContent(ctx context.Context, prompt string, requestID string, opts llm.GenerationOptions) (*models.GenerationResponse, error) {
	if m.generateContentFn == nil {
		return &models.GenerationResponse{}, nil
	}
	return m.generateContentFn(ctx, prompt, requestID, opts)
}

func (m *mockProvider) GetProviderName() string {
	if m.getProviderNameFn == nil {
		return "mock"
	}
	return m.getProviderNameFn()
}

type mockTemplates struct {
	getTemplatesFn func() map[string][]string
}

func (m *mockTemplates) GetTemplates() map[string][]string {
	if m.getTemplatesFn == nil {
		return map[string][]string{"mentor_chat": {"default"}}
	}
	return m.getTemplatesFn()
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

type mockChatClient struct {
	chatFn func(ctx context.Context, req models.ChatRequest, apiKey string) (*models.ChatResponse, error)
}

func (m *mockChatClient) Chat(ctx context.Context, req models.ChatRequest, apiKey string) (*models.ChatResponse, error) {
	return m.chatFn(ctx, req, apiKey)
}

func newTestSessions(t *testing.T, st store.Store) (*session.Manager, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	manager := session.NewManager(st, cat, zap.NewNop(),
		session.WithSeed(func() int64 { return 1 }),
		session.WithSignalSource(func(*rand.Rand) proctoring.SignalSource { return proctoring.NoopSource{} }))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = manager.Shutdown(ctx)
	})
	return manager, cat
}

// route serves a single request through a chi router so URL params resolve.
func route(method, pattern string, handler http.HandlerFunc, path string, body any, mw ...func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.With(mw...).Method(method, pattern, handler)

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validated[T middleware.Validator]() func(http.Handler) http.Handler {
	return middleware.ValidateRequest[T]()
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	resp := decodeBody[models.ErrorResponse](t, rec)
	if resp.Code != code {
		t.Errorf("expected error code %q, got %q", code, resp.Code)
	}
}
