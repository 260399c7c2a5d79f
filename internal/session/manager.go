package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vocalhire/interview/internal/catalog"
	"vocalhire/interview/internal/clock"
	"vocalhire/interview/internal/events"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/proctoring"
	"vocalhire/interview/internal/speech"
	"vocalhire/interview/internal/store"
)

const persistTimeout = 10 * time.Second

// Observer is told about session lifecycle and alerts, e.g. for metrics.
type Observer interface {
	SessionStarted(record models.InterviewRecord)
	SessionEnded(record models.InterviewRecord)
	AlertRaised(alert models.PlagiarismAlert)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(models.InterviewRecord) {}
func (nopObserver) SessionEnded(models.InterviewRecord)   {}
func (nopObserver) AlertRaised(models.PlagiarismAlert)    {}

// EndedFrame is sent to the browser once the session is over.
type EndedFrame struct {
	Reason string                 `json:"reason"`
	Record models.InterviewRecord `json:"record"`
}

// Manager keeps the live sessions and wires their completion into the store,
// the event publisher and the observer.
type Manager struct {
	store     store.Store
	catalog   *catalog.Catalog
	publisher events.Publisher
	observer  Observer
	logger    *zap.Logger
	signals   func(*rand.Rand) proctoring.SignalSource
	seed      func() int64

	mu       sync.RWMutex
	sessions map[string]*Runner
	wg       sync.WaitGroup
}

type ManagerOption func(*Manager)

func WithPublisher(p events.Publisher) ManagerOption {
	return func(m *Manager) { m.publisher = p }
}

func WithObserver(o Observer) ManagerOption {
	return func(m *Manager) { m.observer = o }
}

// WithSignalSource replaces the simulated proctoring checks.
func WithSignalSource(fn func(*rand.Rand) proctoring.SignalSource) ManagerOption {
	return func(m *Manager) { m.signals = fn }
}

// WithSeed fixes the per-session random seed.
func WithSeed(fn func() int64) ManagerOption {
	return func(m *Manager) { m.seed = fn }
}

func NewManager(st store.Store, cat *catalog.Catalog, logger *zap.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		store:     st,
		catalog:   cat,
		publisher: events.NoopPublisher{},
		observer:  nopObserver{},
		logger:    logger,
		signals: func(rng *rand.Rand) proctoring.SignalSource {
			return proctoring.NewSimulatedSource(rng, proctoring.DefaultSimulatedChecks())
		},
		seed:     func() int64 { return time.Now().UnixNano() },
		sessions: make(map[string]*Runner),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create persists an in-progress record for settings and starts its session
// loop. The session waits for the browser's start event.
func (m *Manager) Create(ctx context.Context, settings models.InterviewSettings) (*models.InterviewRecord, []string, error) {
	if settings.Category == "" {
		if category, ok := m.catalog.CategoryOf(settings.Role); ok {
			settings.Category = category
		}
	}
	questions := m.catalog.InterviewQuestions(settings)

	record := &models.InterviewRecord{
		ID:                uuid.NewString(),
		Role:              settings.Role,
		Category:          settings.Category,
		Duration:          settings.Duration,
		Difficulty:        settings.Difficulty,
		Date:              time.Now(),
		Status:            models.StatusInProgress,
		CameraEnabled:     settings.CameraEnabled,
		MicrophoneEnabled: settings.MicrophoneEnabled,
		QuestionsAsked:    []string{},
		DynamicQuestions:  []string{},
		Misconduct:        []string{},
		PlagiarismAlerts:  []models.PlagiarismAlert{},
		ResponseQuality:   []float64{},
	}
	if err := m.store.CreateInterview(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("failed to create interview: %w", err)
	}

	logger := m.logger.With(zap.String("interview_id", record.ID))
	r := newRunner(record.ID, logger)
	rng := rand.New(rand.NewSource(m.seed()))
	loop := clock.NewLoop(func(fn func()) { r.post(fn) })

	ctrl := NewController(Config{
		Record:    *record,
		Questions: questions,
		Scheduler: loop,
		Rand:      rng,
		Speech:    speech.NewAdapter(loop, r.transport, logger),
		Signals:   m.signals(rng),
		Logger:    logger,
		OnAlert:   m.observer.AlertRaised,
		OnEnd:     func(final models.InterviewRecord) { m.finish(r, final) },
	})
	r.bind(ctrl)
	r.onPanic = func() { m.abort(r) }

	m.mu.Lock()
	m.sessions[record.ID] = r
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		r.run()
	}()

	m.observer.SessionStarted(*record)
	logger.Info("Interview session created",
		zap.String("role", record.Role),
		zap.Int("duration", record.Duration),
		zap.Int("questions", len(questions)))
	return record, questions, nil
}

// finish runs on the session loop when the controller ends.
func (m *Manager) finish(r *Runner, record models.InterviewRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := m.store.UpdateInterview(ctx, &record); err != nil {
		r.logger.Error("Failed to persist completed interview", zap.Error(err))
	}
	if err := m.publisher.Publish(ctx, events.FromRecord(record, time.Now())); err != nil {
		r.logger.Warn("Failed to publish interview completed event", zap.Error(err))
	}
	m.observer.SessionEnded(record)

	_ = r.transport.Send(speech.Frame{Type: speech.CmdEnded, Data: EndedFrame{Reason: record.EndReason, Record: record}})
	_ = r.transport.Close()

	m.mu.Lock()
	delete(m.sessions, r.id)
	m.mu.Unlock()
	r.stop()
}

// abort ends a session whose loop panicked. The record is stored as completed
// with EndError so it never stays in progress.
func (m *Manager) abort(r *Runner) {
	record := r.ctrl.Abort(EndError)
	m.finish(r, record)
}

// Get returns the live session for id.
func (m *Manager) Get(id string) (*Runner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (m *Manager) Snapshot(id string) (Snapshot, error) {
	r, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return r.Snapshot(), nil
}

// Count is the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// End asks the session to finish and waits until it has been persisted.
func (m *Manager) End(ctx context.Context, id, reason, recordingURL string) error {
	r, err := m.Get(id)
	if err != nil {
		return err
	}
	if err := r.Send(EndRequested{Reason: reason, RecordingURL: recordingURL}); err != nil {
		return err
	}
	select {
	case <-r.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep ends sessions with no browser attached that have been idle longer than
// maxIdle. It returns how many were ended.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.RLock()
	var stale []*Runner
	for _, r := range m.sessions {
		if !r.Connected() && r.LastSeen().Before(cutoff) {
			stale = append(stale, r)
		}
	}
	m.mu.RUnlock()

	for _, r := range stale {
		r.logger.Info("Ending abandoned interview", zap.Time("last_seen", r.LastSeen()))
		_ = r.Send(EndRequested{Reason: EndAbandoned})
	}
	return len(stale)
}

// Shutdown ends every live session and waits for their loops to exit.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.RLock()
	runners := make([]*Runner, 0, len(m.sessions))
	for _, r := range m.sessions {
		runners = append(runners, r)
	}
	m.mu.RUnlock()

	for _, r := range runners {
		_ = r.Send(EndRequested{Reason: EndShutdown})
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
