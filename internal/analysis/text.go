// Package analysis holds the string heuristics used for live per-answer analysis
// and for the end-of-interview report. Every function is pure and total.
package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var keywordStopWords = toSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "can",
	"i", "you", "he", "she", "it", "we", "they", "this", "that", "these", "those", "about",
)

// report-level topics keep demonstratives out of the stop list
var topicStopWords = toSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "can",
	"i", "you", "he", "she", "it", "we", "they", "about",
)

var questionStopWords = toSet("what", "how", "why", "when", "where", "tell", "describe", "explain")

// TechnicalTerms is the vocabulary counted by TechnicalTermCount.
var TechnicalTerms = []string{
	"algorithm", "database", "framework", "api", "microservices", "cloud", "devops",
	"machine learning", "artificial intelligence", "blockchain", "kubernetes", "docker",
	"react", "angular", "vue", "node", "python", "java", "javascript", "typescript",
	"sql", "nosql", "mongodb", "postgresql", "redis", "elasticsearch",
	"aws", "azure", "gcp", "serverless", "lambda", "containers",
	"agile", "scrum", "kanban", "ci/cd", "git", "version control",
	"testing", "unit testing", "integration testing", "tdd", "bdd",
}

// FillerWords is the list counted by FillerWordCount.
var FillerWords = []string{"um", "uh", "like", "you know", "actually", "basically", "literally"}

var fillerPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(FillerWords))
	for i, word := range FillerWords {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return patterns
}()

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Words splits on whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}

func SentenceCount(text string) int {
	count := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}

// TechnicalTermCount counts vocabulary entries that occur anywhere in text.
func TechnicalTermCount(text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, term := range TechnicalTerms {
		if strings.Contains(lower, term) {
			count++
		}
	}
	return count
}

// FillerWordCount counts every whole-word filler occurrence.
func FillerWordCount(text string) int {
	count := 0
	for _, p := range fillerPatterns {
		count += len(p.FindAllStringIndex(text, -1))
	}
	return count
}

// normalizeToken lowercases and trims surrounding punctuation, keeping inner
// characters so tokens like "ci/cd" and "node.js" survive.
func normalizeToken(word string) string {
	return strings.TrimFunc(strings.ToLower(word), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func contentTokens(text string, stop map[string]bool) []string {
	var tokens []string
	for _, word := range strings.Fields(text) {
		token := normalizeToken(word)
		if utf8.RuneCountInString(token) <= 3 || stop[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// ExtractKeywords returns up to five distinct content words in order of appearance.
func ExtractKeywords(text string) []string {
	const maxKeywords = 5
	keywords := []string{}
	seen := make(map[string]bool)
	for _, token := range contentTokens(text, keywordStopWords) {
		if seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// KeyTopics returns up to eight content words ranked by frequency; ties keep
// first-appearance order.
func KeyTopics(text string) []string {
	const maxTopics = 8
	counts := make(map[string]int)
	var order []string
	for _, token := range contentTokens(text, topicStopWords) {
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxTopics {
		order = order[:maxTopics]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// QuestionKeywords returns up to three salient words of a question.
func QuestionKeywords(question string) []string {
	keywords := []string{}
	for _, word := range strings.Fields(strings.ToLower(question)) {
		if utf8.RuneCountInString(word) <= 3 || questionStopWords[word] {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == 3 {
			break
		}
	}
	return keywords
}

func round(v float64) int {
	return int(math.Round(v))
}
