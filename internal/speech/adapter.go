// Package speech drives the browser's speech synthesis and recognition through
// a Transport. It keeps only idle/listening/speaking state and reports upward.
package speech

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"vocalhire/interview/internal/clock"
)

type State string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
	StateSpeaking  State = "speaking"
)

const (
	QuestionLeadIn   = "Here's your next question: "
	Language         = "en-US"
	SpeechRate       = 0.85
	SpeechPitch      = 1.0
	SpeechVolume     = 0.9
	StartDelay       = 500 * time.Millisecond
	BackoffBase      = time.Second
	BackoffCap       = 10 * time.Second
	MaxRestartTrials = 5
)

// Backoff returns the delay before restart attempt n (0-based).
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := BackoffBase
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= BackoffCap {
			return BackoffCap
		}
	}
	return d
}

// Adapter is owned by a single session goroutine.
type Adapter struct {
	sched     clock.Scheduler
	transport Transport
	logger    *zap.Logger

	voices     []Voice
	muted      bool
	state      State
	utterance  int
	canListen  func() bool
	startTimer clock.Timer

	interim string
	finals  []string
}

func NewAdapter(sched clock.Scheduler, transport Transport, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		sched:     sched,
		transport: transport,
		logger:    logger,
		state:     StateIdle,
		canListen: func() bool { return true },
	}
}

// SetListenGuard is consulted again when a deferred start fires.
func (a *Adapter) SetListenGuard(fn func() bool) {
	a.canListen = fn
}

func (a *Adapter) SetVoices(voices []Voice) {
	a.voices = append([]Voice(nil), voices...)
}

func (a *Adapter) State() State {
	return a.state
}

func (a *Adapter) Muted() bool {
	return a.muted
}

// SetMuted silences synthesis. Muting cancels any utterance in flight.
func (a *Adapter) SetMuted(muted bool) {
	a.muted = muted
	if muted {
		a.CancelSpeech()
	}
}

// Speak asks a question. Follow-ups are spoken as-is, other questions get the
// lead-in. It reports false when nothing was sent because synthesis is muted.
func (a *Adapter) Speak(text string, isFollowUp bool) bool {
	if !isFollowUp {
		text = QuestionLeadIn + text
	}
	return a.Announce(text)
}

// Announce speaks text without a lead-in.
func (a *Adapter) Announce(text string) bool {
	if a.muted {
		a.logger.Debug("Speech synthesis muted, skipping utterance")
		return false
	}

	// recognition must not hear the synthesized voice
	a.StopListening()
	a.CancelSpeech()

	a.utterance++
	cmd := SpeakCommand{
		ID:     a.utterance,
		Text:   text,
		Lang:   Language,
		Rate:   SpeechRate,
		Pitch:  SpeechPitch,
		Volume: SpeechVolume,
	}
	if v, ok := ChooseVoice(a.voices); ok {
		cmd.Voice = v.Name
	}
	a.state = StateSpeaking
	a.send(Frame{Type: CmdSpeak, Data: cmd})
	return true
}

// CancelSpeech stops an utterance in flight.
func (a *Adapter) CancelSpeech() {
	if a.state != StateSpeaking {
		return
	}
	a.state = StateIdle
	a.send(Frame{Type: CmdCancelSpeech})
}

// SpeechFinished records that the browser finished (or abandoned) utterance id.
// It reports false for an utterance that has since been replaced. An id of 0
// means the current utterance.
func (a *Adapter) SpeechFinished(id int) bool {
	if id != 0 && id != a.utterance {
		return false
	}
	if a.state == StateSpeaking {
		a.state = StateIdle
	}
	return true
}

// Utterance is the id of the most recent speak command.
func (a *Adapter) Utterance() int {
	return a.utterance
}

// StartListening schedules recognition after StartDelay. Calling it while
// listening or while a start is pending does nothing.
func (a *Adapter) StartListening() {
	if a.state == StateListening || a.startTimer != nil {
		return
	}
	a.startTimer = a.sched.AfterFunc(StartDelay, func() {
		a.startTimer = nil
		if a.state != StateIdle || !a.canListen() {
			return
		}
		a.state = StateListening
		a.send(Frame{Type: CmdStartListening, Data: ListenCommand{
			Lang:            Language,
			Continuous:      true,
			InterimResults:  true,
			MaxAlternatives: 3,
		}})
	})
}

// StopListening cancels a pending start and stops active recognition.
func (a *Adapter) StopListening() {
	if a.startTimer != nil {
		a.startTimer.Stop()
		a.startTimer = nil
	}
	a.interim = ""
	if a.state != StateListening {
		return
	}
	a.state = StateIdle
	a.send(Frame{Type: CmdStopListening})
}

// RecognitionStopped records that the browser recognizer ended on its own.
func (a *Adapter) RecognitionStopped() {
	a.interim = ""
	if a.state == StateListening {
		a.state = StateIdle
	}
}

// RecognitionRunning records that the browser recognizer is live.
func (a *Adapter) RecognitionRunning() {
	if a.state == StateIdle {
		a.state = StateListening
	}
}

func (a *Adapter) SetInterim(text string) {
	a.interim = text
}

func (a *Adapter) Interim() string {
	return a.interim
}

// AddFinal appends a final transcript to the running buffer.
func (a *Adapter) AddFinal(text string) {
	a.interim = ""
	if text = strings.TrimSpace(text); text != "" {
		a.finals = append(a.finals, text)
	}
}

// Transcript is every final transcript so far, space separated.
func (a *Adapter) Transcript() string {
	return strings.Join(a.finals, " ")
}

func (a *Adapter) Status(msg string) {
	a.send(Frame{Type: CmdStatus, Data: StatusCommand{Message: msg}})
}

// Notify sends an arbitrary frame.
func (a *Adapter) Notify(frame Frame) {
	a.send(frame)
}

// Shutdown stops synthesis and recognition and cancels the pending start.
func (a *Adapter) Shutdown() {
	a.StopListening()
	a.CancelSpeech()
}

func (a *Adapter) send(frame Frame) {
	if a.transport == nil {
		return
	}
	if err := a.transport.Send(frame); err != nil {
		a.logger.Debug("Failed to send speech frame", zap.String("type", frame.Type), zap.Error(err))
	}
}
