package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocalhire/interview/internal/feedback"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/store"
)

var fixedNow = time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

func samples(t *testing.T) []models.InterviewRecord {
	t.Helper()
	return store.SampleInterviews(fixedNow)
}

func render(t *testing.T, record models.InterviewRecord) []byte {
	t.Helper()
	var buf bytes.Buffer
	err := GenerateInterviewPDF(&buf, record, WithCompression(false), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return buf.Bytes()
}

func TestGenerateInterviewPDF(t *testing.T) {
	record := samples(t)[0]
	record.DetailedFeedback = feedback.Fallback(record)

	out := render(t, record)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "Interview Performance Report")
	assert.Contains(t, string(out), "QUESTION-BY-QUESTION ANALYSIS")
	assert.Contains(t, string(out), "PERSONALIZED IMPROVEMENT PLAN")
	assert.Contains(t, string(out), "Page 1 of ")
	assert.NotContains(t, string(out), "{nb}")
	assert.Contains(t, string(out), "Report ID: sample-1")
}

func TestGenerateInterviewPDFWithoutFeedback(t *testing.T) {
	record := samples(t)[1]
	out := render(t, record)

	assert.Contains(t, string(out), "Candidate Role: Marketing Manager")
	assert.Contains(t, string(out), "Industry Category: Marketing")
	assert.Contains(t, string(out), "Interview Date: 2024-05-18")
	assert.Contains(t, string(out), "Overall Performance Score: 78% | Security Score: 76%")
	assert.Contains(t, string(out), "Brief look away from screen detected")
	assert.Contains(t, string(out), "AI Generated")
}

func TestGenerateInterviewPDFDefaults(t *testing.T) {
	record := models.InterviewRecord{ID: "bare", Role: "Analyst", Date: fixedNow}
	out := render(t, record)
	assert.Contains(t, string(out), "Overall Performance Score: 75% | Security Score: 85%")
}

func TestGenerateInterviewPDFCompressed(t *testing.T) {
	record := samples(t)[0]
	var plain, packed bytes.Buffer
	require.NoError(t, GenerateInterviewPDF(&plain, record, WithCompression(false)))
	require.NoError(t, GenerateInterviewPDF(&packed, record))
	assert.Less(t, packed.Len(), plain.Len())
}

func TestOverallScore(t *testing.T) {
	record := samples(t)[0]
	assert.Equal(t, 85, OverallScore(record))

	record.DetailedFeedback = &models.DetailedFeedback{OverallScore: 71.6}
	assert.Equal(t, 72, OverallScore(record))

	record.DetailedFeedback = nil
	record.Score = nil
	assert.Equal(t, models.DefaultOverallScore, OverallScore(record))
}

func TestSummarize(t *testing.T) {
	stats := Summarize(samples(t))

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 82, stats.AverageScore)
	assert.Equal(t, 84, stats.AverageSecurity)
	assert.Equal(t, 2, stats.AdaptiveQuestions)
	require.NotNil(t, stats.Best)
	assert.Equal(t, "sample-1", stats.Best.ID)
	assert.Equal(t, map[string]int{"Technology": 1, "Marketing": 1}, stats.ByCategory)
	assert.Equal(t, fixedNow.Add(-48*time.Hour), stats.From)
	assert.Equal(t, fixedNow.Add(-24*time.Hour), stats.To)

	empty := Summarize(nil)
	assert.Zero(t, empty.AverageScore)
	assert.Nil(t, empty.Best)
}

func TestGenerateSummaryPDF(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateSummaryPDF(&buf, samples(t), WithCompression(false), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Total Interviews Analyzed: 2")
	assert.Contains(t, out, "Marketing Manager")
	assert.Contains(t, out, "Focus on improving average score from 82% to 85%+")

	buf.Reset()
	require.NoError(t, GenerateSummaryPDF(&buf, nil, WithCompression(false)))
	assert.Contains(t, buf.String(), "Analysis Period: N/A")
}

func TestFileNames(t *testing.T) {
	record := models.InterviewRecord{Role: "Senior  Data Scientist", Date: fixedNow}
	assert.Equal(t, "VocalHire_Interview_Senior_Data_Scientist_2024-05-20.pdf", FileName(record))
	assert.Equal(t, "VocalHire_Interview_Summary_2024-05-20.pdf", SummaryFileName(fixedNow))
}

func TestNewStoredReport(t *testing.T) {
	record := samples(t)[1]
	r := NewStoredReport(record, 250*1024, fixedNow)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "sample-2", r.InterviewID)
	assert.Equal(t, FileName(record), r.FileName)
	assert.Equal(t, 78, r.Score)
	assert.Equal(t, 76, r.SecurityScore)
	assert.Equal(t, []string{"Marketing", "hard", "78%"}, r.Tags)
	assert.Equal(t, "250KB", r.FileSize)
	assert.False(t, r.Starred)
}
