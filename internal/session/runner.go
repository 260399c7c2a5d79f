package session

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"vocalhire/interview/internal/speech"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrEnded    = errors.New("session has ended")
)

const inboxSize = 64

// Runner owns a Controller and serializes every event, timer callback and
// snapshot onto one goroutine.
type Runner struct {
	id        string
	ctrl      *Controller
	transport *speech.Switchable
	logger    *zap.Logger
	onPanic   func()

	inbox    chan func()
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	snapshot Snapshot
	lastSeen time.Time
}

func newRunner(id string, logger *zap.Logger) *Runner {
	return &Runner{
		id:        id,
		transport: speech.NewSwitchable(),
		logger:    logger,
		inbox:     make(chan func(), inboxSize),
		done:      make(chan struct{}),
		lastSeen:  time.Now(),
	}
}

func (r *Runner) bind(ctrl *Controller) {
	r.ctrl = ctrl
	r.snapshot = ctrl.Snapshot()
}

func (r *Runner) ID() string { return r.id }

// post queues fn for the loop. It reports false once the runner stopped.
func (r *Runner) post(fn func()) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.inbox <- fn:
		return true
	case <-r.done:
		return false
	}
}

// Send delivers an event to the controller.
func (r *Runner) Send(ev Event) error {
	r.touch()
	if !r.post(func() { r.ctrl.Handle(ev) }) {
		return ErrEnded
	}
	return nil
}

func (r *Runner) run() {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Session loop panicked", zap.String("interview_id", r.id), zap.Any("panic", rec))
			r.recoverCleanup()
			r.stop()
		}
	}()
	for {
		select {
		case fn := <-r.inbox:
			fn()
			r.refresh()
		case <-r.done:
			return
		}
	}
}

// recoverCleanup runs the panic hook without letting a second panic escape
// the loop goroutine.
func (r *Runner) recoverCleanup() {
	if r.onPanic == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Session cleanup panicked", zap.String("interview_id", r.id), zap.Any("panic", rec))
		}
	}()
	r.onPanic()
}

func (r *Runner) refresh() {
	snap := r.ctrl.Snapshot()
	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()
}

func (r *Runner) stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Done is closed when the session loop exits.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Attach routes commands to t, replacing any earlier browser connection.
func (r *Runner) Attach(t speech.Transport) {
	r.touch()
	r.transport.Attach(t)
	r.post(func() {
		r.ctrl.speech.Notify(speech.Frame{Type: speech.CmdState, Data: r.ctrl.Snapshot()})
	})
}

func (r *Runner) Detach(t speech.Transport) {
	r.touch()
	r.transport.Detach(t)
}

// Connected reports whether a browser is attached.
func (r *Runner) Connected() bool {
	return r.transport.Connected()
}

func (r *Runner) touch() {
	r.mu.Lock()
	r.lastSeen = time.Now()
	r.mu.Unlock()
}

func (r *Runner) LastSeen() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastSeen
}
