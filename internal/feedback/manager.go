package feedback

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"vocalhire/interview/internal/analysis"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/store"
)

// ErrNotCompleted is returned for interviews that are still running.
var ErrNotCompleted = errors.New("interview not completed")

// Generator produces the raw model text for a record.
type Generator interface {
	InterviewFeedback(ctx context.Context, record models.InterviewRecord, speech models.SpeechAnalysis, apiKey string) (string, error)
}

// Manager generates feedback once per interview and attaches it to the record.
type Manager struct {
	generator   Generator
	store       store.Store
	cache       *Cache
	logger      *zap.Logger
	onGenerated func(source string)
	now         func() time.Time
}

type Option func(*Manager)

// WithGeneratedHook is called with the source of every freshly generated report.
func WithGeneratedHook(fn func(source string)) Option {
	return func(m *Manager) { m.onGenerated = fn }
}

func NewManager(gen Generator, st store.Store, cache *Cache, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		generator:   gen,
		store:       st,
		cache:       cache,
		logger:      logger,
		onGenerated: func(string) {},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Generate returns the feedback for an interview, generating and persisting it
// on first request. Model failures never surface; the fallback report is used
// instead. Errors are limited to lookup and persistence.
func (m *Manager) Generate(ctx context.Context, interviewID, apiKey string) (*models.FeedbackResponse, error) {
	if fb, at, ok := m.cache.Get(interviewID); ok {
		return &models.FeedbackResponse{InterviewID: interviewID, Feedback: fb, Cached: true, GeneratedAt: at}, nil
	}

	record, err := m.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if record.DetailedFeedback != nil {
		m.cache.Set(interviewID, record.DetailedFeedback, record.UpdatedAt)
		return &models.FeedbackResponse{InterviewID: interviewID, Feedback: record.DetailedFeedback, Cached: true, GeneratedAt: record.UpdatedAt}, nil
	}
	if record.Status != models.StatusCompleted {
		return nil, ErrNotCompleted
	}

	fb := m.build(ctx, *record, apiKey)
	if err := m.store.SaveFeedback(ctx, interviewID, fb); err != nil {
		return nil, err
	}

	generatedAt := m.now()
	m.cache.Set(interviewID, fb, generatedAt)
	m.onGenerated(fb.Source)
	m.logger.Info("Feedback generated",
		zap.String("interview_id", interviewID),
		zap.String("source", fb.Source),
		zap.Float64("overall_score", fb.OverallScore))

	return &models.FeedbackResponse{InterviewID: interviewID, Feedback: fb, GeneratedAt: generatedAt}, nil
}

func (m *Manager) build(ctx context.Context, record models.InterviewRecord, apiKey string) *models.DetailedFeedback {
	if m.generator == nil {
		return Fallback(record)
	}

	text, err := m.generator.InterviewFeedback(ctx, record, analysis.AnalyzeSpeech(record.SpeechText), apiKey)
	if err != nil {
		m.logger.Warn("Feedback generation failed, using fallback",
			zap.String("interview_id", record.ID), zap.Error(err))
		return Fallback(record)
	}

	fb, err := Parse(text, record)
	if err != nil {
		m.logger.Warn("Feedback response unparseable, using fallback",
			zap.String("interview_id", record.ID), zap.Error(err))
		return Fallback(record)
	}
	return fb
}
