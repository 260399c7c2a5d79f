// Package feedback turns a finished interview into a DetailedFeedback report,
// from the language model when it cooperates and from local heuristics when not.
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"

	"vocalhire/interview/internal/analysis"
	"vocalhire/interview/internal/models"
)

var ErrNoJSON = errors.New("no JSON object in model response")

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

var questionFeedbackTemplates = []string{
	"Your response demonstrated good understanding. Consider adding more specific examples to strengthen your answer.",
	"Well-structured response with clear points. You could enhance it by quantifying your achievements.",
	"Good technical knowledge shown. Try to connect your experience more directly to the role requirements.",
	"Clear communication style. Adding more details about your problem-solving process would be beneficial.",
	"Solid foundation in your answer. Consider discussing the impact or results of your actions.",
}

// Parse extracts the feedback object from model output. The speech analysis is
// always recomputed locally; per-question entries are synthesized only when the
// model left them out.
func Parse(aiText string, record models.InterviewRecord) (*models.DetailedFeedback, error) {
	raw := jsonObject.FindString(aiText)
	if raw == "" {
		return nil, ErrNoJSON
	}

	var fb models.DetailedFeedback
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}

	fb.DetailedAnalysis = analysis.AnalyzeSpeech(record.SpeechText)
	if len(fb.Questions) == 0 {
		fb.Questions = synthesizeQuestions(record, fb.OverallScore)
	}
	fb.Source = models.FeedbackSourceAI
	return &fb, nil
}

// synthesizeQuestions builds one entry per asked question. Scores track the
// overall score, nudged by the recorded answer quality for that turn.
func synthesizeQuestions(record models.InterviewRecord, overall float64) []models.QuestionFeedback {
	out := make([]models.QuestionFeedback, 0, len(record.QuestionsAsked))
	for i, q := range record.QuestionsAsked {
		offset := 0.0
		if i < len(record.ResponseQuality) {
			offset = clamp((record.ResponseQuality[i]-overall)/2, -10, 10)
		}

		kind := models.QuestionTypeStandard
		if record.IsAdaptive(q) {
			kind = models.QuestionTypeAdaptive
		}

		out = append(out, models.QuestionFeedback{
			Question:     q,
			Score:        clamp(overall+offset, 60, 95),
			Feedback:     questionFeedbackTemplates[i%len(questionFeedbackTemplates)],
			Type:         kind,
			Keywords:     analysis.QuestionKeywords(q),
			ResponseTime: responseTime(record, q),
		})
	}
	return out
}

// responseTime estimates seconds spent answering q from the answer length,
// between 30 and 90.
func responseTime(record models.InterviewRecord, q string) float64 {
	for _, r := range record.UserResponses {
		if r.Question == q {
			return 30 + math.Min(60, float64(analysis.WordCount(r.Response))/2)
		}
	}
	return 30
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
