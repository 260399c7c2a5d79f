package proctoring

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vocalhire/interview/internal/clock"
	"vocalhire/interview/internal/models"
)

const maxSecurityScore = 100

// Monitor turns proctoring signals into alerts, a misconduct log and a running
// security score. It is owned by one session goroutine and is not safe for
// concurrent use.
type Monitor struct {
	sched   clock.Scheduler
	source  SignalSource
	logger  *zap.Logger
	newID   func() string
	onAlert func(models.PlagiarismAlert)

	active     bool
	elapsed    func() time.Duration
	alerts     []models.PlagiarismAlert
	misconduct []string
	score      int
}

type Option func(*Monitor)

// WithAlertHook is called for every alert after it is recorded.
func WithAlertHook(fn func(models.PlagiarismAlert)) Option {
	return func(m *Monitor) { m.onAlert = fn }
}

func WithIDGenerator(fn func() string) Option {
	return func(m *Monitor) { m.newID = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Monitor) { m.logger = logger }
}

func NewMonitor(sched clock.Scheduler, source SignalSource, opts ...Option) *Monitor {
	if source == nil {
		source = NoopSource{}
	}
	m := &Monitor{
		sched:  sched,
		source: source,
		logger: zap.NewNop(),
		newID:  uuid.NewString,
		score:  maxSecurityScore,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins observing. elapsed reports interview-relative time for the log.
func (m *Monitor) Start(elapsed func() time.Duration) {
	if m.active {
		return
	}
	m.active = true
	m.elapsed = elapsed
	m.source.Start(m.sched, func(sig Signal) {
		m.raise(sig, models.AlertSourceSimulated)
	})
}

// Stop cancels scheduled checks; later signals are ignored.
func (m *Monitor) Stop() {
	if !m.active {
		return
	}
	m.active = false
	m.source.Stop()
}

func (m *Monitor) Active() bool {
	return m.active
}

// Observe classifies a client event and records an alert when it is suspicious.
func (m *Monitor) Observe(ev ClientEvent) (models.PlagiarismAlert, bool) {
	sig, ok := Classify(ev)
	if !ok {
		return models.PlagiarismAlert{}, false
	}
	return m.raise(sig, models.AlertSourceClient)
}

func (m *Monitor) raise(sig Signal, source string) (models.PlagiarismAlert, bool) {
	if !m.active {
		return models.PlagiarismAlert{}, false
	}

	alert := models.PlagiarismAlert{
		ID:        m.newID(),
		Type:      sig.Type,
		Message:   sig.Message,
		Timestamp: m.sched.Now(),
		Severity:  sig.Severity,
		Source:    source,
	}
	m.alerts = append(m.alerts, alert)
	m.score = max(0, m.score-sig.Severity.Weight())

	var elapsed time.Duration
	if m.elapsed != nil {
		elapsed = m.elapsed()
	}
	m.misconduct = append(m.misconduct, fmt.Sprintf("%s at %s", sig.Message, FormatElapsed(elapsed)))

	m.logger.Info("Proctoring alert",
		zap.String("type", string(alert.Type)),
		zap.String("severity", string(alert.Severity)),
		zap.String("source", source),
		zap.Int("security_score", m.score))

	if m.onAlert != nil {
		m.onAlert(alert)
	}
	return alert, true
}

func (m *Monitor) Score() int {
	return m.score
}

func (m *Monitor) Alerts() []models.PlagiarismAlert {
	return append([]models.PlagiarismAlert(nil), m.alerts...)
}

func (m *Monitor) Misconduct() []string {
	return append([]string(nil), m.misconduct...)
}

// Counts returns the total number of alerts and how many were critical.
func (m *Monitor) Counts() (total, critical int) {
	for _, a := range m.alerts {
		if a.Severity == models.SeverityCritical {
			critical++
		}
	}
	return len(m.alerts), critical
}

// FormatElapsed renders a duration as MM:SS.
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
