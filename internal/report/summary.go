package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"vocalhire/interview/internal/models"
)

// Stats aggregates a set of interviews for the summary report.
type Stats struct {
	Total             int
	Completed         int
	AverageScore      int
	AverageSecurity   int
	AdaptiveQuestions int
	SpeechCharacters  int
	Best              *models.InterviewRecord
	From, To          time.Time
	ByCategory        map[string]int
	ByDifficulty      map[string]int
	ByRole            map[string]int
}

// Summarize computes the aggregate figures. Interviews without a score count
// as zero in the average.
func Summarize(records []models.InterviewRecord) Stats {
	s := Stats{
		Total:        len(records),
		ByCategory:   map[string]int{},
		ByDifficulty: map[string]int{},
		ByRole:       map[string]int{},
	}
	if len(records) == 0 {
		return s
	}

	scoreSum, securitySum := 0, 0
	for i := range records {
		r := &records[i]
		score := 0
		if r.Score != nil {
			score = *r.Score
		}
		if score > 0 {
			s.Completed++
		}
		if s.Best == nil || score > s.Best.ScoreOr(0) {
			s.Best = r
		}
		scoreSum += score
		securitySum += r.SecurityScoreOr(models.DefaultSecurityScore)
		s.AdaptiveQuestions += len(r.DynamicQuestions)
		s.SpeechCharacters += len(r.SpeechText)
		s.ByCategory[r.Category]++
		s.ByDifficulty[r.Difficulty]++
		s.ByRole[r.Role]++
		if s.From.IsZero() || r.Date.Before(s.From) {
			s.From = r.Date
		}
		if r.Date.After(s.To) {
			s.To = r.Date
		}
	}
	s.AverageScore = int(math.Round(float64(scoreSum) / float64(len(records))))
	s.AverageSecurity = int(math.Round(float64(securitySum) / float64(len(records))))
	return s
}

// GenerateSummaryPDF renders the cross-interview summary.
func GenerateSummaryPDF(w io.Writer, records []models.InterviewRecord, opts ...Option) error {
	cfg := newConfig(opts)
	d := newDocument(cfg, "Interview Summary Report")
	stats := Summarize(records)

	d.banner("VocalHire AI Mock Interview", "Comprehensive Interview Summary Report")
	d.heading("Executive Summary", 18)
	period := "N/A"
	if stats.Total > 0 {
		period = dateOnly(stats.From) + " - " + dateOnly(stats.To)
	}
	lines := []string{
		fmt.Sprintf("Total Interviews Analyzed: %d", stats.Total),
		fmt.Sprintf("Completed Interviews: %d", stats.Completed),
		fmt.Sprintf("Average Interview Score: %d%%", stats.AverageScore),
		fmt.Sprintf("Average Security Score: %d%%", stats.AverageSecurity),
		fmt.Sprintf("Total AI-Generated Questions: %d", stats.AdaptiveQuestions),
		fmt.Sprintf("Total Speech Analyzed: %dK characters", int(math.Round(float64(stats.SpeechCharacters)/1000))),
		"Report Generated: " + dateOnly(cfg.now()),
		"Analysis Period: " + period,
	}
	if stats.Best != nil {
		lines = append(lines, fmt.Sprintf("Best Performance: %s (%d%%)", stats.Best.Role, stats.Best.ScoreOr(0)))
	}
	for _, line := range lines {
		d.text(line, 12)
	}

	d.section("Performance Analysis", colorBrand)
	writeBreakdown(d, "Interviews by Category:", stats.ByCategory)
	writeBreakdown(d, "Interviews by Difficulty:", stats.ByDifficulty)
	writeBreakdown(d, "Interviews by Role:", stats.ByRole)

	d.section("Detailed Interview History", colorBlue)
	for i, r := range records {
		d.heading(fmt.Sprintf("%d. %s", i+1, r.Role), 12)
		d.bullets([]string{
			"Date: " + dateOnly(r.Date),
			"Category: " + orDash(r.Category),
			fmt.Sprintf("Score: %d%% | Security: %d%%", r.ScoreOr(0), r.SecurityScoreOr(models.DefaultSecurityScore)),
			fmt.Sprintf("Duration: %dmin | Difficulty: %s", r.Duration, orDash(r.Difficulty)),
			fmt.Sprintf("Questions Asked: %d", len(r.QuestionsAsked)),
			fmt.Sprintf("AI Questions: %d", len(r.DynamicQuestions)),
			fmt.Sprintf("Security Alerts: %d", len(r.PlagiarismAlerts)),
			fmt.Sprintf("Speech Length: %d characters", len(r.SpeechText)),
		}, 10)
		if fb := r.DetailedFeedback; fb != nil {
			a := fb.DetailedAnalysis
			d.text(fmt.Sprintf("Key Insights: %d technical terms, %d filler words, %s response quality",
				a.TechnicalTermsUsed, a.FillerWordCount, orDash(a.ResponseLength)), 10)
		}
		d.pdf.Ln(3)
	}

	d.section("Overall Improvement Recommendations", colorGreen)
	d.bullets([]string{
		fmt.Sprintf("Focus on improving average score from %d%% to 85%%+", stats.AverageScore),
		"Continue practicing with AI-powered adaptive questioning",
		"Work on maintaining higher security scores during interviews",
		"Practice reducing filler words and improving speech clarity",
		"Develop stronger technical vocabulary and examples",
		"Maintain consistent performance across different difficulty levels",
		"Use the AI Mentor for personalized guidance on weak areas",
	}, 11)

	return d.write(w)
}

func writeBreakdown(d *document, title string, counts map[string]int) {
	d.heading(title, 12)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.text(fmt.Sprintf("    %s: %d interviews", orDash(k), counts[k]), 11)
	}
	d.pdf.Ln(3)
}
