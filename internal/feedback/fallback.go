package feedback

import (
	"fmt"

	"vocalhire/interview/internal/analysis"
	"vocalhire/interview/internal/models"
)

// Fallback builds feedback from the transcript statistics alone. The same
// record always yields the same report.
func Fallback(record models.InterviewRecord) *models.DetailedFeedback {
	speech := analysis.AnalyzeSpeech(record.SpeechText)
	overall := FallbackScore(speech)
	category := record.Category

	fb := &models.DetailedFeedback{
		OverallScore: overall,
		Technical: models.SkillAssessment{
			Score: overall,
			Strengths: []string{
				fmt.Sprintf("Demonstrated knowledge of %d technical concepts", speech.TechnicalTermsUsed),
				"Clear articulation of complex ideas",
				"Good understanding of industry practices",
				"Relevant experience examples provided",
			},
			Improvements: []string{
				"Provide more quantifiable examples and metrics",
				"Expand on technical implementation details",
				"Connect technical skills to business outcomes",
			},
		},
		Communication: models.SkillAssessment{
			Score: max(60, overall-float64(speech.FillerWordCount*2)),
			Strengths: []string{
				"Professional vocabulary and tone",
				"Structured approach to answering questions",
				"Good listening and comprehension skills",
				"Confident delivery style",
			},
			Improvements: []string{
				"Reduce filler words for more polished delivery",
				"Improve conciseness in responses",
				"Use more specific examples to illustrate points",
			},
		},
		BodyLanguage: models.SkillAssessment{
			Score: float64(record.SecurityScoreOr(models.DefaultSecurityScore)),
			Strengths: []string{
				"Maintained professional posture throughout",
				"Appropriate eye contact with camera",
				"Confident facial expressions",
			},
			Improvements: []string{
				"Reduce nervous gestures or fidgeting",
				"Maintain consistent engagement",
			},
		},
		DetailedAnalysis: speech,
		ImprovementPlan: []models.ImprovementArea{
			{
				Area:     "Technical Communication",
				Priority: models.PriorityHigh,
				Actions: []string{
					"Practice explaining complex concepts in simple terms",
					"Prepare specific examples with quantifiable results",
					"Study industry trends and emerging technologies",
				},
				Timeline: "2-4 weeks",
			},
			{
				Area:     "Interview Confidence",
				Priority: models.PriorityMedium,
				Actions: []string{
					"Practice mock interviews regularly",
					"Record yourself answering common questions",
					"Work on reducing filler words",
				},
				Timeline: "1-2 weeks",
			},
		},
		IndustrySpecificAdvice: []string{
			fmt.Sprintf("Stay updated with latest %s trends and technologies", category),
			"Build a portfolio showcasing relevant projects and achievements",
			fmt.Sprintf("Network with professionals in the %s industry", category),
			fmt.Sprintf("Consider obtaining relevant certifications for %s", record.Role),
			fmt.Sprintf("Practice behavioral questions specific to %s roles", category),
		},
		NextSteps: []string{
			"Continue practicing with AI-powered interview simulations",
			"Focus on improving areas identified in this analysis",
			"Prepare 5-7 specific examples using the STAR method",
			"Research the company and role thoroughly before interviews",
			"Practice technical questions relevant to your field",
			"Work on body language and professional presentation",
			"Seek feedback from mentors or industry professionals",
		},
		Source: models.FeedbackSourceFallback,
	}
	fb.Questions = synthesizeQuestions(record, overall)
	return fb
}

// FallbackScore is 75, plus 2 per technical term, minus 3 per filler word,
// plus or minus 5 depending on whether the answer ran past 100 words,
// clamped to [60, 95].
func FallbackScore(speech models.SpeechAnalysis) float64 {
	length := -5
	if speech.WordCount > 100 {
		length = 5
	}
	score := 75 + speech.TechnicalTermsUsed*2 - speech.FillerWordCount*3 + length
	return clamp(float64(score), 60, 95)
}
