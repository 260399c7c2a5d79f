package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"vocalhire/interview/internal/analysis"
	"vocalhire/interview/internal/models"
)

const maxAlertDetails = 5

// OverallScore is the feedback score when present, else the session score,
// else 75.
func OverallScore(record models.InterviewRecord) int {
	if fb := record.DetailedFeedback; fb != nil && fb.OverallScore > 0 {
		return int(math.Round(fb.OverallScore))
	}
	return record.ScoreOr(models.DefaultOverallScore)
}

// GenerateInterviewPDF renders the five section report for one interview.
func GenerateInterviewPDF(w io.Writer, record models.InterviewRecord, opts ...Option) error {
	cfg := newConfig(opts)
	d := newDocument(cfg, "Interview Performance Report - "+record.Role)

	speech := analysis.AnalyzeSpeech(record.SpeechText)
	if record.DetailedFeedback != nil {
		speech = record.DetailedFeedback.DetailedAnalysis
	}

	writeOverview(d, record, speech, cfg)
	writeSpeech(d, record, speech)
	writeSkills(d, record.DetailedFeedback)
	writeQuestions(d, record)
	writePlan(d, record, cfg)

	return d.write(w)
}

func writeOverview(d *document, record models.InterviewRecord, speech models.SpeechAnalysis, cfg config) {
	d.banner("VOCALHIRE AI", "Advanced AI Interview Analysis Report")
	d.heading("Interview Performance Report", 20)
	d.pdf.Ln(2)
	for _, line := range []string{
		"Candidate Role: " + record.Role,
		"Industry Category: " + orDash(record.Category),
		"Interview Date: " + dateOnly(record.Date),
		fmt.Sprintf("Duration: %d minutes", record.Duration),
		"Difficulty Level: " + orDash(record.Difficulty),
		"Report Generated: " + dateOnly(cfg.now()),
	} {
		d.text(line, 12)
	}

	d.section("EXECUTIVE SUMMARY", colorBrand)
	d.heading(fmt.Sprintf("Overall Performance Score: %d%% | Security Score: %d%%",
		OverallScore(record), record.SecurityScoreOr(models.DefaultSecurityScore)), 12)
	d.text("This analysis evaluates technical competency, communication skills and professional presentation "+
		"based on the actual interview responses and behavior.", 11)
	d.pdf.Ln(2)
	d.heading("Key Highlights:", 12)
	d.bullets([]string{
		fmt.Sprintf("%d words analyzed from speech transcript", speech.WordCount),
		fmt.Sprintf("%d technical terms identified", speech.TechnicalTermsUsed),
		fmt.Sprintf("%d AI-generated adaptive questions", len(record.DynamicQuestions)),
		fmt.Sprintf("%d total questions evaluated", len(record.QuestionsAsked)),
	}, 11)

	if fb := record.DetailedFeedback; fb != nil {
		d.section("PERFORMANCE METRICS", colorBrand)
		d.bullets([]string{
			fmt.Sprintf("Technical: %d%%", int(math.Round(fb.Technical.Score))),
			fmt.Sprintf("Communication: %d%%", int(math.Round(fb.Communication.Score))),
			fmt.Sprintf("Body Language: %d%%", int(math.Round(fb.BodyLanguage.Score))),
		}, 11)
	}
}

func writeSpeech(d *document, record models.InterviewRecord, speech models.SpeechAnalysis) {
	d.newPage()
	d.section("COMPREHENSIVE SPEECH ANALYSIS", colorGreen)

	metrics := [][2]string{
		{"Total Words Spoken", fmt.Sprintf("%d words", speech.WordCount)},
		{"Sentences Formed", fmt.Sprintf("%d sentences", speech.SentenceCount)},
		{"Average Words per Sentence", fmt.Sprintf("%d words", speech.AvgWordsPerSentence)},
		{"Technical Terms Used", fmt.Sprintf("%d terms", speech.TechnicalTermsUsed)},
		{"Filler Words Detected", fmt.Sprintf("%d instances", speech.FillerWordCount)},
		{"Confidence Level", orDash(speech.ConfidenceLevel)},
		{"Response Length Category", orDash(speech.ResponseLength)},
		{"Emotional Tone", orDash(speech.EmotionalTone)},
	}
	cell := d.width/2 - 2
	d.pdf.SetFillColor(245, 245, 245)
	for i := 0; i+1 < len(metrics); i += 2 {
		left, right := metrics[i], metrics[i+1]
		d.pdf.SetFont("Helvetica", "B", 10)
		d.pdf.CellFormat(cell, 7, d.tr(left[0]), "LTR", 0, "L", true, 0, "")
		d.pdf.CellFormat(4, 7, "", "", 0, "L", false, 0, "")
		d.pdf.CellFormat(cell, 7, d.tr(right[0]), "LTR", 1, "L", true, 0, "")

		d.pdf.SetFont("Helvetica", "", 10)
		d.color(colorBrand)
		d.pdf.CellFormat(cell, 7, d.tr(left[1]), "LBR", 0, "L", true, 0, "")
		d.pdf.CellFormat(4, 7, "", "", 0, "L", false, 0, "")
		d.pdf.CellFormat(cell, 7, d.tr(right[1]), "LBR", 1, "L", true, 0, "")
		d.pdf.SetTextColor(0, 0, 0)
		d.pdf.Ln(3)
	}

	if len(speech.KeyTopics) > 0 {
		d.pdf.Ln(4)
		d.heading("Key Topics Discussed:", 13)
		d.text(strings.Join(speech.KeyTopics, ", "), 11)
	}

	d.pdf.Ln(4)
	d.heading("Speech Quality Assessment:", 13)
	d.bullets(qualityNotes(speech), 11)

	if strings.TrimSpace(record.SpeechText) != "" {
		d.section("COMPLETE SPEECH TRANSCRIPT", colorBlue)
		d.text(record.SpeechText, 10)
	}
}

func qualityNotes(speech models.SpeechAnalysis) []string {
	vocabulary := "Basic"
	switch {
	case speech.TechnicalTermsUsed > 5:
		vocabulary = "Excellent"
	case speech.TechnicalTermsUsed > 2:
		vocabulary = "Good"
	}
	clarity := "Needs Improvement"
	switch {
	case speech.FillerWordCount < 5:
		clarity = "High"
	case speech.FillerWordCount < 10:
		clarity = "Medium"
	}
	tone := "Needs Development"
	switch speech.EmotionalTone {
	case "Positive":
		tone = "Confident"
	case "Neutral":
		tone = "Professional"
	}
	return []string{
		"Vocabulary Richness: " + vocabulary,
		"Clarity Score: " + clarity,
		"Response Completeness: " + orDash(speech.ResponseLength),
		"Professional Tone: " + tone,
	}
}

func writeSkills(d *document, fb *models.DetailedFeedback) {
	d.newPage()
	d.section("TECHNICAL & COMMUNICATION ANALYSIS", colorBlue)
	if fb == nil {
		d.text("Detailed feedback has not been generated for this interview.", 11)
		return
	}
	for _, s := range []struct {
		title string
		skill models.SkillAssessment
	}{
		{"Technical Skills Assessment", fb.Technical},
		{"Communication Skills Assessment", fb.Communication},
		{"Presentation & Body Language", fb.BodyLanguage},
	} {
		d.heading(fmt.Sprintf("%s: %d%%", s.title, int(math.Round(s.skill.Score))), 14)
		if len(s.skill.Strengths) > 0 {
			d.color(colorGreen)
			d.heading("STRENGTHS:", 11)
			d.pdf.SetTextColor(0, 0, 0)
			d.bullets(s.skill.Strengths, 10)
		}
		if len(s.skill.Improvements) > 0 {
			d.color(colorAmber)
			d.heading("AREAS FOR IMPROVEMENT:", 11)
			d.pdf.SetTextColor(0, 0, 0)
			d.bullets(s.skill.Improvements, 10)
		}
		d.pdf.Ln(4)
	}
}

func writeQuestions(d *document, record models.InterviewRecord) {
	d.newPage()
	d.section("QUESTION-BY-QUESTION ANALYSIS", colorAmber)

	if fb := record.DetailedFeedback; fb != nil && len(fb.Questions) > 0 {
		for i, q := range fb.Questions {
			d.heading(fmt.Sprintf("Question %d: %d%%", i+1, int(math.Round(q.Score))), 12)
			d.text(q.Question, 10)
			if q.Type == models.QuestionTypeAdaptive {
				d.pdf.SetFont("Helvetica", "I", 9)
				d.color(colorAdaptive)
				d.pdf.CellFormat(d.width, 5, "* AI-Generated Adaptive Question", "", 1, "L", false, 0, "")
				d.pdf.SetTextColor(0, 0, 0)
			}
			d.text("Feedback: "+q.Feedback, 10)
			d.pdf.Ln(3)
		}
	} else {
		for i, q := range record.QuestionsAsked {
			line := fmt.Sprintf("%d. %s", i+1, q)
			if record.IsAdaptive(q) {
				line += " * (AI Generated)"
			}
			d.text(line, 11)
			d.pdf.Ln(1)
		}
	}

	critical := 0
	for _, a := range record.PlagiarismAlerts {
		if a.Severity == models.SeverityCritical {
			critical++
		}
	}
	d.section("SECURITY & BEHAVIORAL ANALYSIS", colorRed)
	d.bullets([]string{
		fmt.Sprintf("Overall Security Score: %d%%", record.SecurityScoreOr(models.DefaultSecurityScore)),
		fmt.Sprintf("Total Security Alerts: %d", len(record.PlagiarismAlerts)),
		fmt.Sprintf("Critical Violations: %d", critical),
		fmt.Sprintf("Behavioral Notes: %d incidents recorded", len(record.Misconduct)),
		fmt.Sprintf("Adaptive Questions Generated: %d", len(record.DynamicQuestions)),
	}, 11)

	if len(record.PlagiarismAlerts) > 0 {
		d.pdf.Ln(3)
		d.color(colorRed)
		d.heading("Security Alert Details:", 12)
		d.pdf.SetTextColor(0, 0, 0)
		alerts := record.PlagiarismAlerts
		if len(alerts) > maxAlertDetails {
			alerts = alerts[:maxAlertDetails]
		}
		for i, a := range alerts {
			severity := strings.ToUpper(string(a.Severity))
			if severity == "" {
				severity = "MEDIUM"
			}
			d.text(fmt.Sprintf("%d. [%s] %s - %s", i+1, severity, a.Message, a.Timestamp.Format("15:04:05")), 10)
		}
	}
}

func writePlan(d *document, record models.InterviewRecord, cfg config) {
	d.newPage()
	d.section("PERSONALIZED IMPROVEMENT PLAN", colorGreen)

	fb := record.DetailedFeedback
	if fb == nil {
		d.text("Generate feedback for this interview to receive a personalized improvement plan.", 11)
	} else {
		for i, plan := range fb.ImprovementPlan {
			d.heading(fmt.Sprintf("%d. %s (%s priority)", i+1, plan.Area, plan.Priority), 13)
			d.bullets(plan.Actions, 10)
			d.pdf.SetFont("Helvetica", "I", 10)
			d.pdf.CellFormat(d.width, 6, d.tr("Timeline: "+plan.Timeline), "", 1, "L", false, 0, "")
			d.pdf.Ln(2)
		}
		if len(fb.IndustrySpecificAdvice) > 0 {
			d.heading(fmt.Sprintf("%s Industry Recommendations:", orDash(record.Category)), 13)
			d.bullets(fb.IndustrySpecificAdvice, 10)
		}
		if len(fb.NextSteps) > 0 {
			d.section("RECOMMENDED NEXT STEPS", colorAdaptive)
			d.numbered(fb.NextSteps, 11)
		}
	}

	d.pdf.Ln(6)
	d.heading("CONCLUSION & NEXT STEPS", 12)
	d.text("This analysis provides actionable insights based on your actual interview performance. "+
		"Continue practicing to track improvement over time, and use the AI Career Mentor for personalized guidance.", 10)
	d.pdf.Ln(2)
	d.text(fmt.Sprintf("Report ID: %s | Generated: %s", record.ID, cfg.now().Format("2006-01-02 15:04")), 9)
}
