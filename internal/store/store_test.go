package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"vocalhire/interview/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db
}

func newGormTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewGormStore(context.Background(), newTestDB(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newMemoryTestStore(t *testing.T) Store {
	return NewMemoryStore()
}

var factories = map[string]func(*testing.T) Store{
	"gorm":   newGormTestStore,
	"memory": newMemoryTestStore,
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func newRecord(id string, date time.Time) *models.InterviewRecord {
	return &models.InterviewRecord{
		ID:                id,
		Role:              "Data Scientist",
		Category:          "Technology",
		Duration:          15,
		Difficulty:        models.DifficultyEasy,
		Date:              date,
		Status:            models.StatusInProgress,
		MicrophoneEnabled: true,
		QuestionsAsked:    []string{},
		DynamicQuestions:  []string{},
		Misconduct:        []string{},
		PlagiarismAlerts:  []models.PlagiarismAlert{},
		ResponseQuality:   []float64{},
	}
}

func TestSeededSamples(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		records, err := s.ListInterviews(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "sample-1", records[0].ID)
		assert.Equal(t, "sample-2", records[1].ID)

		sample, err := s.GetInterview(context.Background(), "sample-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"Brief look away from screen at 4:23"}, sample.Misconduct)
		require.Len(t, sample.PlagiarismAlerts, 1)
		assert.Equal(t, models.SeverityMedium, sample.PlagiarismAlerts[0].Severity)
		assert.Equal(t, 78, *sample.Score)
		assert.Equal(t, 1, sample.ProctoringSummary.AdaptiveQuestionsUsed)
	})
}

func TestSeedingIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, err := NewGormStore(context.Background(), db, nil)
	require.NoError(t, err)
	s, err := NewGormStore(context.Background(), db, nil)
	require.NoError(t, err)

	records, err := s.ListInterviews(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestInterviewLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		record := newRecord("", time.Now())
		require.NoError(t, s.CreateInterview(ctx, record))
		require.NotEmpty(t, record.ID)

		record.Status = models.StatusCompleted
		record.Score = models.IntPtr(88)
		record.SecurityScore = models.IntPtr(95)
		record.QuestionsAsked = []string{"Tell me about yourself.", "What is overfitting?"}
		record.DynamicQuestions = []string{"What is overfitting?"}
		record.ResponseQuality = []float64{80, 96}
		record.PlagiarismAlerts = []models.PlagiarismAlert{{
			ID: "a1", Type: models.AlertCopyPaste, Message: "Copy operation detected",
			Severity: models.SeverityMedium, Source: models.AlertSourceClient, Timestamp: time.Now(),
		}}
		record.ProctoringSummary = &models.ProctoringSummary{TotalAlerts: 1, SecurityScore: 95, TotalResponses: 2}
		require.NoError(t, s.UpdateInterview(ctx, record))

		got, err := s.GetInterview(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, got.Status)
		assert.Equal(t, 88, *got.Score)
		assert.Equal(t, record.QuestionsAsked, got.QuestionsAsked)
		assert.Equal(t, record.DynamicQuestions, got.DynamicQuestions)
		assert.Equal(t, record.ResponseQuality, got.ResponseQuality)
		require.Len(t, got.PlagiarismAlerts, 1)
		assert.Equal(t, models.AlertSourceClient, got.PlagiarismAlerts[0].Source)
		assert.Equal(t, 2, got.ProctoringSummary.TotalResponses)

		records, err := s.ListInterviews(ctx)
		require.NoError(t, err)
		assert.Equal(t, record.ID, records[0].ID)
	})
}

func TestMissingInterview(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.GetInterview(ctx, "missing")
		assert.True(t, errors.Is(err, ErrNotFound))

		err = s.UpdateInterview(ctx, newRecord("missing", time.Now()))
		assert.True(t, errors.Is(err, ErrNotFound))

		err = s.SaveFeedback(ctx, "missing", &models.DetailedFeedback{})
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestSaveFeedback(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		fb := &models.DetailedFeedback{
			OverallScore: 82,
			Technical:    models.SkillAssessment{Score: 80, Strengths: []string{"Depth"}},
			NextSteps:    []string{"Practice"},
			Source:       models.FeedbackSourceFallback,
		}
		require.NoError(t, s.SaveFeedback(ctx, "sample-1", fb))

		got, err := s.GetInterview(ctx, "sample-1")
		require.NoError(t, err)
		require.NotNil(t, got.DetailedFeedback)
		assert.Equal(t, 82.0, got.DetailedFeedback.OverallScore)
		assert.Equal(t, []string{"Depth"}, got.DetailedFeedback.Technical.Strengths)
		assert.Equal(t, models.FeedbackSourceFallback, got.DetailedFeedback.Source)
		assert.Len(t, got.QuestionsAsked, 5)
	})
}

func TestListUnarchived(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.CreateInterview(ctx, newRecord("live", time.Now())))

		pending, err := s.ListUnarchived(ctx, 0)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, "sample-2", pending[0].ID)

		require.NoError(t, s.CreateReport(ctx, &models.StoredReport{
			InterviewID: "sample-2", FileName: "report.pdf", GeneratedDate: time.Now(),
		}))
		pending, err = s.ListUnarchived(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "sample-1", pending[0].ID)

		pending, err = s.ListUnarchived(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	})
}

func TestReportLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		older := &models.StoredReport{
			InterviewID: "sample-1", FileName: "old.pdf", GeneratedDate: time.Now().Add(-time.Hour),
			Role: "Software Engineer", Score: 85, SecurityScore: 92, Tags: []string{"Technology", "medium"},
		}
		newer := &models.StoredReport{
			InterviewID: "sample-2", FileName: "new.pdf", GeneratedDate: time.Now(),
			Role: "Software Engineer", Score: 85, SecurityScore: 92, Tags: []string{"Technology"},
		}
		require.NoError(t, s.CreateReport(ctx, older))
		require.NoError(t, s.CreateReport(ctx, newer))

		reports, err := s.ListReports(ctx)
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, "new.pdf", reports[0].FileName)

		found, err := s.FindReportByInterview(ctx, "sample-2")
		require.NoError(t, err)
		assert.Equal(t, newer.ID, found.ID)

		starred, err := s.SetReportStarred(ctx, older.ID, true)
		require.NoError(t, err)
		assert.True(t, starred.Starred)
		assert.Equal(t, []string{"Technology", "medium"}, starred.Tags)

		accessed, err := s.RecordReportAccess(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, accessed.DownloadCount)
		assert.NotNil(t, accessed.LastAccessed)

		deleted, err := s.DeleteReport(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "old.pdf", deleted.FileName)

		_, err = s.DeleteReport(ctx, older.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
		_, err = s.SetReportStarred(ctx, older.ID, false)
		assert.True(t, errors.Is(err, ErrNotFound))
		_, err = s.FindReportByInterview(ctx, "sample-1")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestOneReportPerInterview(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		first := &models.StoredReport{InterviewID: "sample-1", FileName: "first.pdf", GeneratedDate: time.Now(), Tags: []string{}}
		second := &models.StoredReport{InterviewID: "sample-1", FileName: "second.pdf", GeneratedDate: time.Now(), Tags: []string{}}

		require.NoError(t, s.CreateReport(ctx, first))
		err := s.CreateReport(ctx, second)
		assert.True(t, errors.Is(err, ErrConflict), "got %v", err)

		reports, err := s.ListReports(ctx)
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, "first.pdf", reports[0].FileName)

		_, err = s.DeleteReport(ctx, first.ID)
		require.NoError(t, err)
		assert.NoError(t, s.CreateReport(ctx, &models.StoredReport{InterviewID: "sample-1", FileName: "again.pdf", Tags: []string{}}))
	})
}

func TestSettings(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.GetSetting(ctx, models.SettingVoice)
		assert.True(t, errors.Is(err, ErrNotFound))

		require.NoError(t, s.PutSetting(ctx, models.SettingVoice, json.RawMessage(`{"rate":0.85}`)))
		require.NoError(t, s.PutSetting(ctx, models.SettingVoice, json.RawMessage(`{"rate":1.2}`)))

		got, err := s.GetSetting(ctx, models.SettingVoice)
		require.NoError(t, err)
		assert.JSONEq(t, `{"rate":1.2}`, string(got))
		assert.NoError(t, s.Ping(ctx))
	})
}
