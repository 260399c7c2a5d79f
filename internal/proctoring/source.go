package proctoring

import (
	"math/rand"
	"time"

	"vocalhire/interview/internal/clock"
	"vocalhire/interview/internal/models"
)

// SignalSource produces proctoring signals on its own schedule. report must be
// called from callbacks of sched so it runs on the session goroutine.
type SignalSource interface {
	Start(sched clock.Scheduler, report func(Signal))
	Stop()
}

// SimulatedCheck fires once at After and raises Signal with Probability.
type SimulatedCheck struct {
	After       time.Duration
	Probability float64
	Signal      Signal
}

// DefaultSimulatedChecks are placeholder detections with no real signal behind them.
func DefaultSimulatedChecks() []SimulatedCheck {
	return []SimulatedCheck{
		{15 * time.Second, 0.10, Signal{models.AlertSuspiciousActivity, "Eye movement pattern suggests looking away from screen", models.SeverityMedium}},
		{30 * time.Second, 0.15, Signal{models.AlertSuspiciousActivity, "Possible reference material detected in background", models.SeverityHigh}},
		{45 * time.Second, 0.05, Signal{models.AlertSuspiciousActivity, "Multiple faces detected in camera frame", models.SeverityCritical}},
	}
}

// SimulatedSource rolls each check once. It stands in for a real detector.
type SimulatedSource struct {
	rng    *rand.Rand
	checks []SimulatedCheck
	timers []clock.Timer
}

func NewSimulatedSource(rng *rand.Rand, checks []SimulatedCheck) *SimulatedSource {
	return &SimulatedSource{rng: rng, checks: checks}
}

func (s *SimulatedSource) Start(sched clock.Scheduler, report func(Signal)) {
	for _, check := range s.checks {
		check := check
		s.timers = append(s.timers, sched.AfterFunc(check.After, func() {
			if s.rng.Float64() < check.Probability {
				report(check.Signal)
			}
		}))
	}
}

func (s *SimulatedSource) Stop() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

// NoopSource never reports anything.
type NoopSource struct{}

func (NoopSource) Start(clock.Scheduler, func(Signal)) {}
func (NoopSource) Stop()                               {}
