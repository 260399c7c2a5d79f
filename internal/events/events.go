// Package events announces finished interviews to other services.
package events

import (
	"context"
	"time"

	"vocalhire/interview/internal/models"
)

// ChannelInterviewCompleted is the pub/sub channel completed interviews are published on.
const ChannelInterviewCompleted = "interview_completed"

// InterviewCompleted is published once per ended session.
type InterviewCompleted struct {
	InterviewID      string `json:"interviewId"`
	Role             string `json:"role"`
	Category         string `json:"category"`
	Difficulty       string `json:"difficulty"`
	Duration         int    `json:"duration"`
	EndReason        string `json:"endReason"`
	Score            *int   `json:"score,omitempty"`
	SecurityScore    int    `json:"securityScore"`
	QuestionsAsked   int    `json:"questionsAsked"`
	DynamicQuestions int    `json:"dynamicQuestions"`
	Responses        int    `json:"responses"`
	Alerts           int    `json:"alerts"`
	CriticalAlerts   int    `json:"criticalAlerts"`
	StartedAt        string `json:"startedAt"`
	EndedAt          string `json:"endedAt"`
}

// FromRecord summarises a completed record.
func FromRecord(record models.InterviewRecord, endedAt time.Time) InterviewCompleted {
	ev := InterviewCompleted{
		InterviewID:      record.ID,
		Role:             record.Role,
		Category:         record.Category,
		Difficulty:       record.Difficulty,
		Duration:         record.Duration,
		EndReason:        record.EndReason,
		Score:            record.Score,
		SecurityScore:    record.SecurityScoreOr(models.DefaultSecurityScore),
		QuestionsAsked:   len(record.QuestionsAsked),
		DynamicQuestions: len(record.DynamicQuestions),
		Responses:        len(record.UserResponses),
		Alerts:           len(record.PlagiarismAlerts),
		StartedAt:        record.Date.UTC().Format(time.RFC3339),
		EndedAt:          endedAt.UTC().Format(time.RFC3339),
	}
	for _, a := range record.PlagiarismAlerts {
		if a.Severity == models.SeverityCritical {
			ev.CriticalAlerts++
		}
	}
	return ev
}

// Publisher delivers InterviewCompleted events.
type Publisher interface {
	Publish(ctx context.Context, ev InterviewCompleted) error
	Close() error
}

// NoopPublisher drops every event. It is used when Redis is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, InterviewCompleted) error { return nil }
func (NoopPublisher) Close() error                                      { return nil }
