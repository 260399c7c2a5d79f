package models

import "time"

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// plain acknowledgement
type Resp struct {
	OK   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
}

// GenerationResponse is what a provider returns for one prompt.
type GenerationResponse struct {
	Text      string             `json:"text"`
	RequestID string             `json:"request_id"`
	Metadata  GenerationMetadata `json:"metadata"`
}

type GenerationMetadata struct {
	ProcessingTime int    `json:"processing_time_ms"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}

type CreateInterviewResponse struct {
	Interview *InterviewRecord `json:"interview"`
	Questions []string         `json:"questions"`
	SocketURL string           `json:"socketUrl"`
}

type ChatResponse struct {
	Reply     string             `json:"reply"`
	RequestID string             `json:"request_id"`
	Metadata  GenerationMetadata `json:"metadata"`
}

type FeedbackResponse struct {
	InterviewID string            `json:"interviewId"`
	Feedback    *DetailedFeedback `json:"feedback"`
	Cached      bool              `json:"cached"`
	GeneratedAt time.Time         `json:"generatedAt"`
}
