package catalog

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"vocalhire/interview/internal/models"
)

//go:embed data/catalog.yaml
var catalogFS embed.FS

// Category groups related roles on the setup screen.
type Category struct {
	Name  string   `yaml:"name" json:"name"`
	Color string   `yaml:"color" json:"color"`
	Roles []string `yaml:"roles" json:"roles"`
}

// questionBank is a base list plus role-specific additions, truncated per difficulty.
// A limit of 0 keeps the whole list.
type questionBank struct {
	Base   []string            `yaml:"base"`
	Roles  map[string][]string `yaml:"roles"`
	Limits map[string]int      `yaml:"limits"`
}

func (b questionBank) forRole(role, difficulty string) []string {
	questions := make([]string, 0, len(b.Base)+len(b.Roles[role]))
	questions = append(questions, b.Base...)
	questions = append(questions, b.Roles[role]...)

	limit, ok := b.Limits[difficulty]
	if !ok {
		// unknown difficulties get the hard slice
		limit = b.Limits[models.DifficultyHard]
	}
	if limit > 0 && limit < len(questions) {
		questions = questions[:limit]
	}
	return questions
}

// Catalog is the static role and question data.
type Catalog struct {
	Categories []Category   `yaml:"categories"`
	Questions  questionBank `yaml:"questions"`
	Trendy     questionBank `yaml:"trendy"`

	roleCategory map[string]string
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	data, err := catalogFS.ReadFile("data/catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Questions.Base) == 0 {
		return nil, fmt.Errorf("catalog has no base questions")
	}

	c.roleCategory = make(map[string]string)
	for _, cat := range c.Categories {
		for _, role := range cat.Roles {
			// first category wins for roles listed twice
			if _, seen := c.roleCategory[role]; !seen {
				c.roleCategory[role] = cat.Name
			}
		}
	}
	return &c, nil
}

// QuestionsForRole returns the base and role-specific questions for a difficulty.
func (c *Catalog) QuestionsForRole(role, difficulty string) []string {
	return c.Questions.forRole(role, difficulty)
}

// TrendyQuestionsForRole returns the supplemental current-topic questions.
func (c *Catalog) TrendyQuestionsForRole(role, difficulty string) []string {
	return c.Trendy.forRole(role, difficulty)
}

// InterviewQuestions is the full question list a session walks through.
func (c *Catalog) InterviewQuestions(settings models.InterviewSettings) []string {
	questions := c.QuestionsForRole(settings.Role, settings.Difficulty)
	return append(questions, c.TrendyQuestionsForRole(settings.Role, settings.Difficulty)...)
}

// CategoryOf returns the category a role belongs to.
func (c *Catalog) CategoryOf(role string) (string, bool) {
	name, ok := c.roleCategory[role]
	return name, ok
}

func (c *Catalog) RoleExists(role string) bool {
	_, ok := c.roleCategory[role]
	return ok
}

// SearchRoles returns roles whose name contains query, case-insensitively.
func (c *Catalog) SearchRoles(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	var matches []string
	seen := make(map[string]bool)
	for _, cat := range c.Categories {
		for _, role := range cat.Roles {
			if seen[role] {
				continue
			}
			if query == "" || strings.Contains(strings.ToLower(role), query) {
				seen[role] = true
				matches = append(matches, role)
			}
		}
	}
	return matches
}
