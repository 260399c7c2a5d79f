package analysis

import (
	"strings"

	"vocalhire/interview/internal/models"
)

var emotionBuckets = []struct {
	emotion string
	words   []string
}{
	{models.EmotionExcited, []string{"excited", "love", "passionate"}},
	{models.EmotionNervous, []string{"nervous", "worried", "anxious"}},
	{models.EmotionConfident, []string{"confident", "sure", "definitely"}},
	{models.EmotionCalm, []string{"calm", "relaxed"}},
}

// DetermineEmotion returns the first bucket with a word in text, else neutral.
func DetermineEmotion(text string) string {
	lower := strings.ToLower(text)
	for _, bucket := range emotionBuckets {
		for _, word := range bucket.words {
			if strings.Contains(lower, word) {
				return bucket.emotion
			}
		}
	}
	return models.EmotionNeutral
}

var (
	positiveToneWords = []string{"excited", "passionate", "love", "enjoy", "great", "excellent", "amazing"}
	nervousToneWords  = []string{"nervous", "anxious", "worried", "concerned", "difficult", "challenging"}
)

// EmotionalTone compares how many positive and nervous words appear.
func EmotionalTone(text string) string {
	lower := strings.ToLower(text)
	positive, nervous := 0, 0
	for _, w := range positiveToneWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range nervousToneWords {
		if strings.Contains(lower, w) {
			nervous++
		}
	}
	switch {
	case positive > nervous:
		return "Positive"
	case nervous > positive:
		return "Nervous"
	}
	return "Neutral"
}

// ConfidenceLevel scores delivery from filler and technical-term counts.
func ConfidenceLevel(fillerWords, technicalTerms int) string {
	score := 100 - fillerWords*5 + technicalTerms*3
	if score < 0 {
		score = 0
	}
	switch {
	case score >= 80:
		return "High"
	case score >= 60:
		return "Medium"
	}
	return "Low"
}

func ResponseLengthCategory(wordCount int) string {
	switch {
	case wordCount < 50:
		return "Too Brief"
	case wordCount < 150:
		return "Adequate"
	case wordCount < 300:
		return "Good"
	}
	return "Comprehensive"
}

// AnalyzeSpeech computes the report-level statistics for a transcript.
func AnalyzeSpeech(transcript string) models.SpeechAnalysis {
	words := WordCount(transcript)
	sentences := SentenceCount(transcript)
	avg := 0
	if sentences > 0 {
		avg = round(float64(words) / float64(sentences))
	}
	tech := TechnicalTermCount(transcript)
	filler := FillerWordCount(transcript)

	return models.SpeechAnalysis{
		WordCount:           words,
		SentenceCount:       sentences,
		AvgWordsPerSentence: avg,
		TechnicalTermsUsed:  tech,
		FillerWordCount:     filler,
		ResponseLength:      ResponseLengthCategory(words),
		ConfidenceLevel:     ConfidenceLevel(filler, tech),
		EmotionalTone:       EmotionalTone(transcript),
		KeyTopics:           KeyTopics(transcript),
	}
}
