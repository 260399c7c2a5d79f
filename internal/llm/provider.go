package llm

import (
	"context"
	"net/http"

	"vocalhire/interview/internal/models"
)

// defines the interface for LLM providers
type Provider interface {
	GenerateContent(ctx context.Context, prompt string, requestID string, opts GenerationOptions) (*models.GenerationResponse, error)
	GetProviderName() string
}

// GenerationOptions tunes one request. Zero values leave the provider default.
type GenerationOptions struct {
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
	CandidateCount  int32
	SafetyFilters   bool
	// APIKey overrides the configured key for this request only.
	APIKey string
}

// ChatOptions is used for mentor conversations.
func ChatOptions() GenerationOptions {
	return GenerationOptions{
		Temperature:     0.9,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 2048,
		CandidateCount:  1,
		SafetyFilters:   true,
	}
}

// FeedbackOptions is used for structured interview feedback.
func FeedbackOptions() GenerationOptions {
	return GenerationOptions{
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 3072,
	}
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the same request may succeed later.
func (e *ProviderError) Retryable() bool {
	switch e.Code {
	case ErrCodeRateLimit, ErrCodeServiceDown, ErrCodeTimeout, ErrCodeNetwork:
		return true
	}
	return false
}

// HTTPStatus maps the error code to the status returned to API clients.
func (e *ProviderError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeAPIKey:
		return http.StatusUnauthorized
	case ErrCodePermission:
		return http.StatusForbidden
	case ErrCodeModelNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimit:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// Common error codes
// For current and future use across different providers
const (
	ErrCodeAPIKey        = "invalid_api_key"
	ErrCodeRateLimit     = "rate_limit_exceeded"
	ErrCodeServiceDown   = "service_unavailable"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeTimeout       = "timeout"
	ErrCodePermission    = "permission_denied"
	ErrCodeModelNotFound = "model_not_found"
	ErrCodeNetwork       = "network_error"
	ErrCodeEmptyResponse = "empty_response"
)

// user-facing messages per code
var userMessages = map[string]string{
	ErrCodeInvalidInput:  "Invalid API request format. Please check your input and try again.",
	ErrCodeAPIKey:        "Gemini API key is required. Please configure your API key first.",
	ErrCodePermission:    "API access denied. Please verify your API key has proper permissions and try again.",
	ErrCodeModelNotFound: "Gemini API model not accessible. Please ensure your API key has access to the Gemini models.",
	ErrCodeRateLimit:     "API rate limit exceeded. The service is experiencing high demand. Please wait a moment and try again, or consider upgrading your API plan for higher limits.",
	ErrCodeServiceDown:   "Gemini AI service is temporarily unavailable. Please try again in a few moments. If the issue persists, check the Google AI Studio status page.",
	ErrCodeTimeout:       "The request to Gemini AI timed out. Please try again.",
	ErrCodeNetwork:       "Failed to connect to Gemini AI. Please check your internet connection and try again.",
	ErrCodeEmptyResponse: "No response generated from Gemini AI. Please try again with a different prompt.",
}

// UserMessage is the text shown to the candidate for this error.
func (e *ProviderError) UserMessage() string {
	if msg, ok := userMessages[e.Code]; ok {
		return msg
	}
	return e.Message
}
