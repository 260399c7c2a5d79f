package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vocalhire/interview/internal/models"
)

var (
	sessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Interview sessions started",
	}, []string{"category", "difficulty"})

	sessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_ended_total",
		Help:      "Interview sessions ended, by reason",
	}, []string{"reason"})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Interview sessions currently running",
	})

	proctoringAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proctoring_alerts_total",
		Help:      "Proctoring alerts raised",
	}, []string{"type", "severity", "source"})

	feedbackGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_generated_total",
		Help:      "Detailed feedback generated, by source",
	}, []string{"source"})

	pdfsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pdfs_rendered_total",
		Help:      "PDF reports rendered",
	}, []string{"kind"})
)

// PDF kinds
const (
	PDFInterview = "interview"
	PDFSummary   = "summary"
)

// Recorder feeds domain events into the Prometheus counters.
type Recorder struct{}

func (Recorder) SessionStarted(record models.InterviewRecord) {
	sessionsStarted.WithLabelValues(record.Category, record.Difficulty).Inc()
	sessionsActive.Inc()
}

func (Recorder) SessionEnded(record models.InterviewRecord) {
	sessionsEnded.WithLabelValues(record.EndReason).Inc()
	sessionsActive.Dec()
}

func (Recorder) AlertRaised(alert models.PlagiarismAlert) {
	proctoringAlerts.WithLabelValues(string(alert.Type), string(alert.Severity), alert.Source).Inc()
}

func (Recorder) FeedbackGenerated(source string) {
	feedbackGenerated.WithLabelValues(source).Inc()
}

func (Recorder) PDFRendered(kind string) {
	pdfsRendered.WithLabelValues(kind).Inc()
}
