package models

// SkillAssessment is one scored dimension of the feedback.
type SkillAssessment struct {
	Score        float64  `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// SpeechAnalysis holds transcript statistics computed locally, never by the model.
type SpeechAnalysis struct {
	WordCount           int      `json:"wordCount"`
	SentenceCount       int      `json:"sentenceCount"`
	AvgWordsPerSentence int      `json:"avgWordsPerSentence"`
	TechnicalTermsUsed  int      `json:"technicalTermsUsed"`
	FillerWordCount     int      `json:"fillerWordCount"`
	ResponseLength      string   `json:"responseLength"`
	ConfidenceLevel     string   `json:"confidenceLevel"`
	EmotionalTone       string   `json:"emotionalTone"`
	KeyTopics           []string `json:"keyTopics"`
}

type QuestionFeedback struct {
	Question     string   `json:"question"`
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Type         string   `json:"type"` // standard | adaptive
	Keywords     []string `json:"keywords"`
	ResponseTime float64  `json:"responseTime"` // seconds
}

type ImprovementArea struct {
	Area     string   `json:"area"`
	Priority string   `json:"priority"` // High | Medium | Low
	Actions  []string `json:"actions"`
	Timeline string   `json:"timeline"`
}

// DetailedFeedback is produced once per interview, from the model or the fallback.
type DetailedFeedback struct {
	OverallScore           float64            `json:"overallScore"`
	Technical              SkillAssessment    `json:"technical"`
	Communication          SkillAssessment    `json:"communication"`
	BodyLanguage           SkillAssessment    `json:"bodyLanguage"`
	DetailedAnalysis       SpeechAnalysis     `json:"detailedAnalysis"`
	Questions              []QuestionFeedback `json:"questions"`
	ImprovementPlan        []ImprovementArea  `json:"improvementPlan"`
	IndustrySpecificAdvice []string           `json:"industrySpecificAdvice"`
	NextSteps              []string           `json:"nextSteps"`
	Source                 string             `json:"source,omitempty"` // ai | fallback
}

const (
	FeedbackSourceAI       = "ai"
	FeedbackSourceFallback = "fallback"
)
