package analysis

import (
	"math"
	"math/rand"
	"unicode/utf8"

	"vocalhire/interview/internal/models"
)

// UtteranceAnalyzer turns one settled answer into an AudioAnalysis.
type UtteranceAnalyzer interface {
	AnalyzeUtterance(text string, confidence float64) models.AudioAnalysis
}

// HeuristicAnalyzer is the string-heuristic UtteranceAnalyzer. Clarity and pace
// are jittered estimates, not measurements. Not safe for concurrent use because
// of the shared rand source.
type HeuristicAnalyzer struct {
	rng *rand.Rand
}

func NewHeuristicAnalyzer(rng *rand.Rand) *HeuristicAnalyzer {
	return &HeuristicAnalyzer{rng: rng}
}

func (h *HeuristicAnalyzer) AnalyzeUtterance(text string, confidence float64) models.AudioAnalysis {
	clarity := confidence + (h.rng.Float64()*0.3 - 0.15)
	clarity = math.Max(0.3, math.Min(1, clarity))

	return models.AudioAnalysis{
		Confidence:      confidence,
		Clarity:         clarity,
		Pace:            0.6 + h.rng.Float64()*0.4,
		Emotion:         DetermineEmotion(text),
		Keywords:        ExtractKeywords(text),
		ResponseLength:  utf8.RuneCountInString(text),
		SilenceDuration: 0,
	}
}
