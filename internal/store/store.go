// Package store holds interview records, stored reports and settings.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"vocalhire/interview/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an interview already has a stored report.
	ErrConflict = errors.New("already exists")
)

// Store is the application state shared by handlers, sessions and jobs.
type Store interface {
	CreateInterview(ctx context.Context, record *models.InterviewRecord) error
	UpdateInterview(ctx context.Context, record *models.InterviewRecord) error
	GetInterview(ctx context.Context, id string) (*models.InterviewRecord, error)
	// ListInterviews returns every record, newest first.
	ListInterviews(ctx context.Context) ([]models.InterviewRecord, error)
	// ListUnarchived returns completed records with no stored report, oldest first.
	ListUnarchived(ctx context.Context, limit int) ([]models.InterviewRecord, error)
	SaveFeedback(ctx context.Context, interviewID string, feedback *models.DetailedFeedback) error

	CreateReport(ctx context.Context, report *models.StoredReport) error
	ListReports(ctx context.Context) ([]models.StoredReport, error)
	GetReport(ctx context.Context, id string) (*models.StoredReport, error)
	FindReportByInterview(ctx context.Context, interviewID string) (*models.StoredReport, error)
	SetReportStarred(ctx context.Context, id string, starred bool) (*models.StoredReport, error)
	RecordReportAccess(ctx context.Context, id string) (*models.StoredReport, error)
	DeleteReport(ctx context.Context, id string) (*models.StoredReport, error)

	GetSetting(ctx context.Context, key string) (json.RawMessage, error)
	PutSetting(ctx context.Context, key string, value json.RawMessage) error

	Ping(ctx context.Context) error
	Close() error
}

func cloneRecord(r models.InterviewRecord) models.InterviewRecord {
	c := r
	c.QuestionsAsked = append([]string(nil), r.QuestionsAsked...)
	c.DynamicQuestions = append([]string(nil), r.DynamicQuestions...)
	c.Misconduct = append([]string(nil), r.Misconduct...)
	c.PlagiarismAlerts = append([]models.PlagiarismAlert(nil), r.PlagiarismAlerts...)
	c.ResponseQuality = append([]float64(nil), r.ResponseQuality...)
	c.UserResponses = append([]models.UserResponse(nil), r.UserResponses...)
	if r.Score != nil {
		c.Score = models.IntPtr(*r.Score)
	}
	if r.SecurityScore != nil {
		c.SecurityScore = models.IntPtr(*r.SecurityScore)
	}
	if r.ProctoringSummary != nil {
		s := *r.ProctoringSummary
		c.ProctoringSummary = &s
	}
	if r.DetailedFeedback != nil {
		f := *r.DetailedFeedback
		c.DetailedFeedback = &f
	}
	return c
}
