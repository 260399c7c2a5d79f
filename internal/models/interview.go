package models

import "time"

// InterviewSettings is chosen on the setup screen and fixed once a session starts.
type InterviewSettings struct {
	Role              string `json:"role"`
	Category          string `json:"category"`
	Duration          int    `json:"duration"` // minutes
	Difficulty        string `json:"difficulty"`
	CameraEnabled     bool   `json:"cameraEnabled"`
	MicrophoneEnabled bool   `json:"microphoneEnabled"`
}

// AudioAnalysis is computed once per settled answer.
type AudioAnalysis struct {
	Confidence      float64  `json:"confidence"`
	Clarity         float64  `json:"clarity"`
	Pace            float64  `json:"pace"`
	Emotion         string   `json:"emotion"`
	Keywords        []string `json:"keywords"`
	ResponseLength  int      `json:"responseLength"`
	SilenceDuration float64  `json:"silenceDuration"`
}

type UserResponse struct {
	Question  string        `json:"question"`
	Response  string        `json:"response"`
	Analysis  AudioAnalysis `json:"analysis"`
	Timestamp time.Time     `json:"timestamp"`
}

// PlagiarismAlert is one proctoring event.
type PlagiarismAlert struct {
	ID        string    `json:"id"`
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Source    string    `json:"source,omitempty"` // client | simulated
}

type ProctoringSummary struct {
	TotalAlerts           int `json:"totalAlerts"`
	CriticalAlerts        int `json:"criticalAlerts"`
	SecurityScore         int `json:"securityScore"`
	AdaptiveQuestionsUsed int `json:"adaptiveQuestionsUsed"`
	TotalResponses        int `json:"totalResponses"`
	AverageResponseLength int `json:"averageResponseLength"`
}

// InterviewRecord is the durable summary of one interview. It is created when a
// session is set up (status in-progress) and completed once when the session ends.
type InterviewRecord struct {
	ID                string             `gorm:"primaryKey" json:"id"`
	Role              string             `gorm:"not null" json:"role"`
	Category          string             `json:"category"`
	Duration          int                `json:"duration"`
	Difficulty        string             `json:"difficulty"`
	Date              time.Time          `gorm:"index" json:"date"`
	Status            string             `gorm:"not null;index" json:"status"`
	Score             *int               `json:"score,omitempty"`
	SecurityScore     *int               `json:"securityScore,omitempty"`
	CameraEnabled     bool               `json:"cameraEnabled"`
	MicrophoneEnabled bool               `json:"microphoneEnabled"`
	QuestionsAsked    []string           `gorm:"serializer:json" json:"questionsAsked"`
	DynamicQuestions  []string           `gorm:"serializer:json" json:"dynamicQuestions"`
	SpeechText        string             `gorm:"type:text" json:"speechText"`
	Misconduct        []string           `gorm:"serializer:json" json:"misconduct"`
	PlagiarismAlerts  []PlagiarismAlert  `gorm:"serializer:json" json:"plagiarismAlerts"`
	ResponseQuality   []float64          `gorm:"serializer:json" json:"responseQuality"`
	UserResponses     []UserResponse     `gorm:"serializer:json" json:"userResponses,omitempty"`
	ProctoringSummary *ProctoringSummary `gorm:"serializer:json" json:"proctoringSummary,omitempty"`
	DetailedFeedback  *DetailedFeedback  `gorm:"serializer:json" json:"detailedFeedback,omitempty"`
	VideoRecording    string             `json:"videoRecording,omitempty"`
	EndReason         string             `json:"endReason,omitempty"`
	CreatedAt         time.Time          `json:"-"`
	UpdatedAt         time.Time          `json:"-"`
}

func (r *InterviewRecord) Settings() InterviewSettings {
	return InterviewSettings{
		Role:              r.Role,
		Category:          r.Category,
		Duration:          r.Duration,
		Difficulty:        r.Difficulty,
		CameraEnabled:     r.CameraEnabled,
		MicrophoneEnabled: r.MicrophoneEnabled,
	}
}

// ScoreOr returns the score, or def when the record has none.
func (r *InterviewRecord) ScoreOr(def int) int {
	if r.Score == nil || *r.Score == 0 {
		return def
	}
	return *r.Score
}

// SecurityScoreOr returns the security score, or def when the record has none.
func (r *InterviewRecord) SecurityScoreOr(def int) int {
	if r.SecurityScore == nil {
		return def
	}
	return *r.SecurityScore
}

// IsAdaptive reports whether question was synthesized at runtime.
func (r *InterviewRecord) IsAdaptive(question string) bool {
	for _, q := range r.DynamicQuestions {
		if q == question {
			return true
		}
	}
	return false
}

func IntPtr(v int) *int {
	return &v
}
