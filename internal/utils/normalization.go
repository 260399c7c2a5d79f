package utils

import "strings"

// NormalizeRole collapses inner whitespace so "Data  Scientist" matches the catalog.
func NormalizeRole(role string) string {
	return strings.Join(strings.Fields(role), " ")
}

func NormalizeDifficulty(difficulty string) string {
	return strings.ToLower(strings.TrimSpace(difficulty))
}

// NormalizeLanguage rewrites a language tag into BCP 47 casing, so " EN_us"
// becomes "en-US".
func NormalizeLanguage(language string) string {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(language), "_", "-"), "-")
	parts[0] = strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		if len(parts[i]) == 2 {
			parts[i] = strings.ToUpper(parts[i])
		}
	}
	return strings.Join(parts, "-")
}
