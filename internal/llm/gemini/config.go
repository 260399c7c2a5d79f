package gemini

import "os"

const defaultModel = "gemini-2.5-flash"

// holds Gemini-specific configuration
type Config struct {
	APIKey string
	Model  string
}

// NewConfig reads GEMINI_API_KEY and GEMINI_MODEL. The key may be empty, in
// which case each request has to supply one from the stored settings.
func NewConfig() (*Config, error) {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Config{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  model,
	}, nil
}
