package models

import (
	"fmt"
	"strings"
)

// CreateInterviewRequest sets up a new interview session.
type CreateInterviewRequest struct {
	InterviewSettings
}

// implements the Validator interface
func (r *CreateInterviewRequest) Validate() error {
	r.Role = strings.TrimSpace(r.Role)
	if r.Role == "" {
		return &ErrorResponse{
			Code:    "missing_role",
			Message: "Role field is required",
		}
	}

	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	if r.Difficulty == "" {
		r.Difficulty = DifficultyMedium
	}
	if !ValidDifficulties[r.Difficulty] {
		return &ErrorResponse{
			Code:    "invalid_difficulty",
			Message: "Difficulty must be one of: " + strings.Join(ValidDifficultiesList(), ", "),
		}
	}

	if r.Duration == 0 {
		r.Duration = DefaultDuration
	}
	if r.Duration < MinDuration || r.Duration > MaxDuration || r.Duration%DurationStep != 0 {
		return &ErrorResponse{
			Code:    "invalid_duration",
			Message: fmt.Sprintf("Duration must be a multiple of %d between %d and %d minutes", DurationStep, MinDuration, MaxDuration),
		}
	}

	return nil
}

// EndInterviewRequest ends a running session early.
type EndInterviewRequest struct {
	Reason       string `json:"reason"`
	RecordingURL string `json:"recordingUrl"`
}

func (r *EndInterviewRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		r.Reason = "manual"
	}
	// other end reasons belong to the server
	if r.Reason != "manual" {
		return &ErrorResponse{
			Code:    "invalid_reason",
			Message: "Reason must be manual",
		}
	}
	return nil
}

// attachment limits for mentor chat
const MaxAttachmentSize = 10 * 1024 * 1024

var AllowedAttachmentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
	"text/csv":   true,
}

type ChatTurn struct {
	Role    string `json:"role"` // user | mentor
	Content string `json:"content"`
}

type Attachment struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	Content string `json:"content,omitempty"`
}

// IsText reports whether the attachment content can be used as-is.
func (a Attachment) IsText() bool {
	return a.Type == "text/plain" || a.Type == "text/csv"
}

type ChatSettings struct {
	Personality    string  `json:"personality"`
	Creativity     float64 `json:"creativity"`
	ExpertiseArea  string  `json:"expertiseArea"`
	ResponseLength string  `json:"responseLength"` // concise | balanced | detailed
	Language       string  `json:"language"`
}

// ChatRequest is one mentor chat turn.
type ChatRequest struct {
	Message     string       `json:"message"`
	History     []ChatTurn   `json:"history"`
	Attachments []Attachment `json:"attachments"`
	Settings    ChatSettings `json:"settings"`
	RequestID   string       `json:"request_id"`
}

func (r *ChatRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		return &ErrorResponse{
			Code:    "missing_message",
			Message: "Message field is required",
		}
	}

	var details []ValidationErrorDetail
	for i, att := range r.Attachments {
		field := fmt.Sprintf("attachments[%d]", i)
		if att.Size > MaxAttachmentSize {
			details = append(details, ValidationErrorDetail{Field: field, Reason: "file size must be less than 10MB"})
		}
		if !AllowedAttachmentTypes[att.Type] {
			details = append(details, ValidationErrorDetail{Field: field, Reason: "unsupported file type " + att.Type})
		}
	}
	if len(details) > 0 {
		return &ErrorResponse{
			Code:    "invalid_attachment",
			Message: "Please upload a PDF, Word document, or text file under 10MB",
			Details: details,
		}
	}

	if r.Settings.Personality == "" {
		r.Settings.Personality = "professional"
	}
	if r.Settings.ExpertiseArea == "" {
		r.Settings.ExpertiseArea = "general"
	}
	if r.Settings.ResponseLength == "" {
		r.Settings.ResponseLength = "balanced"
	}
	if r.Settings.Language == "" {
		r.Settings.Language = "en-US"
	}
	if r.Settings.Creativity < 0 || r.Settings.Creativity > 1 {
		return &ErrorResponse{
			Code:    "invalid_creativity",
			Message: "Creativity must be between 0 and 1",
		}
	}
	return nil
}

// UpdateReportRequest toggles a stored report's star.
type UpdateReportRequest struct {
	Starred *bool `json:"starred"`
}

func (r *UpdateReportRequest) Validate() error {
	if r.Starred == nil {
		return &ErrorResponse{
			Code:    "missing_starred",
			Message: "Starred field is required",
		}
	}
	return nil
}

// SummaryReportRequest selects the interviews for an aggregate report.
type SummaryReportRequest struct {
	InterviewIDs []string `json:"interviewIds"`
}

func (r *SummaryReportRequest) Validate() error {
	if len(r.InterviewIDs) == 0 {
		return &ErrorResponse{
			Code:    "missing_interviews",
			Message: "At least one interview id is required",
		}
	}
	return nil
}
