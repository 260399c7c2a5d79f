package prompts

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// prompt modes shipped in templates/
const (
	ModeMentorChat        = "mentor_chat"
	ModeInterviewFeedback = "interview_feedback"
)

type PromptManager struct {
	prompts map[string]map[string]string // mode -> variant -> complete prompt
}

// loaded prompt template
type PromptTemplate struct {
	BasePrompt string            `yaml:"base_prompt"`
	Variants   map[string]string `yaml:"variants"`
	Footer     string            `yaml:"footer"`
}

var placeholder = regexp.MustCompile(`\{\{\.(\w+)\}\}`)
var extraBlankLines = regexp.MustCompile(`\n{3,}`)

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]map[string]string),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// BuildPrompt fills the {{.Name}} placeholders of a mode/variant prompt from
// data. Placeholders without a value are removed.
func (pm *PromptManager) BuildPrompt(mode, variant string, data map[string]string) (string, error) {
	modePrompts, exists := pm.prompts[mode]
	if !exists {
		return "", fmt.Errorf("template not found for mode: %s", mode)
	}

	promptTemplate, exists := modePrompts[variant]
	if !exists {
		return "", fmt.Errorf("variant '%s' not found for mode '%s'", variant, mode)
	}

	result := placeholder.ReplaceAllStringFunc(promptTemplate, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		return data[key]
	})
	result = extraBlankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result), nil
}

// GetTemplates lists the variants of every loaded mode.
func (pm *PromptManager) GetTemplates() map[string][]string {
	out := make(map[string][]string, len(pm.prompts))
	for mode, variants := range pm.prompts {
		names := make([]string, 0, len(variants))
		for name := range variants {
			names = append(names, name)
		}
		sort.Strings(names)
		out[mode] = names
	}
	return out
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if len(promptTemplate.Variants) == 0 {
			return fmt.Errorf("template file %s has no variants", entry.Name())
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		pm.prompts[name] = make(map[string]string)

		for variant, variantPrompt := range promptTemplate.Variants {
			var fullPrompt strings.Builder
			if promptTemplate.BasePrompt != "" {
				fullPrompt.WriteString(strings.TrimSpace(promptTemplate.BasePrompt))
				fullPrompt.WriteString("\n\n")
			}
			fullPrompt.WriteString(strings.TrimSpace(variantPrompt))
			if promptTemplate.Footer != "" {
				fullPrompt.WriteString("\n\n")
				fullPrompt.WriteString(strings.TrimSpace(promptTemplate.Footer))
			}
			pm.prompts[name][variant] = fullPrompt.String()
		}
	}

	return nil
}
