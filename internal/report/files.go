package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vocalhire/interview/internal/models"
)

// FileName is the download name of an interview report.
func FileName(record models.InterviewRecord) string {
	role := strings.Join(strings.Fields(record.Role), "_")
	return fmt.Sprintf("VocalHire_Interview_%s_%s.pdf", role, record.Date.UTC().Format("2006-01-02"))
}

// SummaryFileName is the download name of a summary report generated at t.
func SummaryFileName(t time.Time) string {
	return fmt.Sprintf("VocalHire_Interview_Summary_%s.pdf", t.UTC().Format("2006-01-02"))
}

// FormatSize renders a byte count the way the reports list shows it.
func FormatSize(n int64) string {
	return fmt.Sprintf("%dKB", (n+512)/1024)
}

// NewStoredReport describes a rendered report of size bytes.
func NewStoredReport(record models.InterviewRecord, size int64, generated time.Time) models.StoredReport {
	score := OverallScore(record)
	return models.StoredReport{
		ID:            uuid.NewString(),
		InterviewID:   record.ID,
		FileName:      FileName(record),
		GeneratedDate: generated,
		Role:          record.Role,
		Category:      record.Category,
		Score:         score,
		SecurityScore: record.SecurityScoreOr(models.DefaultSecurityScore),
		Duration:      record.Duration,
		Difficulty:    record.Difficulty,
		Tags:          []string{record.Category, record.Difficulty, fmt.Sprintf("%d%%", score)},
		FileSize:      FormatSize(size),
	}
}
