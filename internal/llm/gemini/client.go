package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"vocalhire/interview/internal/llm"
	"vocalhire/interview/internal/models"
)

const providerName = "gemini"

// Client represents a Gemini LLM client
type Client struct {
	apiKeyClient *genai.Client
	config       *Config
	// newClient builds a client for a per-request API key
	newClient func(ctx context.Context, apiKey string) (*genai.Client, error)
}

func NewClient(config *Config) (*Client, error) {
	c := &Client{config: config, newClient: newGenaiClient}
	if config.APIKey == "" {
		// requests must then carry their own key
		return c, nil
	}

	client, err := newGenaiClient(context.Background(), config.APIKey)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}
	c.apiKeyClient = client
	return c, nil
}

func newGenaiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func (c *Client) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" || apiKey == c.config.APIKey {
		if c.apiKeyClient == nil {
			return nil, &llm.ProviderError{
				Provider: providerName,
				Code:     llm.ErrCodeAPIKey,
				Message:  "Gemini API key not provided",
			}
		}
		return c.apiKeyClient, nil
	}
	client, err := c.newClient(ctx, apiKey)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}
	return client, nil
}

var safetyCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

func generateConfig(opts llm.GenerationOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: opts.MaxOutputTokens,
		CandidateCount:  opts.CandidateCount,
	}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(opts.Temperature)
	}
	if opts.TopK > 0 {
		cfg.TopK = genai.Ptr(opts.TopK)
	}
	if opts.TopP > 0 {
		cfg.TopP = genai.Ptr(opts.TopP)
	}
	if opts.SafetyFilters {
		for _, category := range safetyCategories {
			cfg.SafetySettings = append(cfg.SafetySettings, &genai.SafetySetting{
				Category:  category,
				Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
			})
		}
	}
	return cfg
}

// GenerateContent sends one prompt and returns the first candidate's text.
func (c *Client) GenerateContent(ctx context.Context, prompt string, requestID string, opts llm.GenerationOptions) (*models.GenerationResponse, error) {
	startTime := time.Now()

	client, err := c.clientFor(ctx, opts.APIKey)
	if err != nil {
		return nil, err
	}

	result, err := client.Models.GenerateContent(
		ctx,
		c.config.Model,
		genai.Text(prompt),
		generateConfig(opts),
	)
	if err != nil {
		return nil, classifyError(err)
	}

	if result == nil || len(result.Candidates) == 0 {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeEmptyResponse,
			Message:  "No response generated",
		}
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeEmptyResponse,
			Message:  "Empty response generated",
		}
	}

	return &models.GenerationResponse{
		Text:      text,
		RequestID: requestID,
		Metadata: models.GenerationMetadata{
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
			Provider:       providerName,
			Model:          c.config.Model,
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

// classifyError maps API and transport failures onto provider error codes.
func classifyError(err error) *llm.ProviderError {
	perr := &llm.ProviderError{Provider: providerName, Err: err}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	code := 0
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	var netErr net.Error
	switch {
	case code == http.StatusBadRequest:
		perr.Code, perr.Message = llm.ErrCodeInvalidInput, "Invalid request"
	case code == http.StatusUnauthorized:
		perr.Code, perr.Message = llm.ErrCodeAPIKey, "Invalid API key"
	case code == http.StatusForbidden:
		perr.Code, perr.Message = llm.ErrCodePermission, "Permission denied"
	case code == http.StatusNotFound:
		perr.Code, perr.Message = llm.ErrCodeModelNotFound, "Model not found"
	case code == http.StatusTooManyRequests || isRateLimitError(err):
		perr.Code, perr.Message = llm.ErrCodeRateLimit, "Rate limit exceeded"
	case code >= 500 && code < 600:
		perr.Code, perr.Message = llm.ErrCodeServiceDown, "Service unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		perr.Code, perr.Message = llm.ErrCodeTimeout, "Request timed out"
	case errors.As(err, &netErr):
		perr.Code, perr.Message = llm.ErrCodeNetwork, "Failed to connect"
	default:
		perr.Code, perr.Message = llm.ErrCodeServiceDown, "Failed to generate content"
	}
	return perr
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota")
}
