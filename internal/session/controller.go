// Package session runs one interview: turn-taking between the synthesized
// interviewer and the candidate, the countdown, proctoring and the final record.
package session

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"vocalhire/interview/internal/analysis"
	"vocalhire/interview/internal/clock"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/proctoring"
	"vocalhire/interview/internal/speech"
)

type Phase string

const (
	PhaseIntro      Phase = "intro"
	PhaseMain       Phase = "main"
	PhaseFollowUp   Phase = "followup"
	PhaseConclusion Phase = "conclusion"
)

type Flow string

const (
	FlowGreeting    Flow = "greeting"
	FlowQuestioning Flow = "questioning"
	FlowFollowUp    Flow = "follow-up"
	FlowClosing     Flow = "closing"
)

type TurnState string

const (
	TurnIdle      TurnState = "idle"
	TurnSpeaking  TurnState = "speaking"
	TurnListening TurnState = "listening"
	TurnAnalyzing TurnState = "analyzing"
)

// end reasons
const (
	EndManual    = "manual"
	EndTimeout   = "timeout"
	EndCompleted = "completed"
	EndAbandoned = "abandoned"
	EndShutdown  = "shutdown"
	EndError     = "error"
)

const (
	tickInterval      = time.Second
	welcomeDelay      = time.Second
	listenSettleDelay = 1500 * time.Millisecond
	listenRetryDelay  = time.Second
	quietInterval     = 2500 * time.Millisecond
	nextQuestionDelay = 2 * time.Second

	defaultConfidence   = 0.8
	followUpConfidence  = 0.6
	empatheticThreshold = 0.5
	followUpMinLength   = 30
	minAnswerLength     = 5
	dynamicMinKeywords  = 2
)

const (
	welcomeTemplate  = "Welcome to your %s interview. This is an advanced AI interview with real-time speech recognition and adaptive questioning. I'll be asking you questions and listening to your responses. Please speak clearly and wait for me to finish before responding. Let's begin."
	closingLine      = "Thank you for your responses. Do you have any questions for us about the role or company?"
	empatheticPrefix = "I want to make sure I understand your response correctly. "
)

var followUpTemplates = []string{
	"Could you elaborate more on that point?",
	"Can you provide a specific example of what you mentioned?",
	"That's interesting. How did you handle the challenges in that situation?",
	"What was the outcome of that experience?",
	"How would you apply that knowledge in this role?",
	"What did you learn from that experience?",
	"Can you walk me through your thought process there?",
	"What would you do differently if you faced that situation again?",
}

func dynamicQuestion(keywords []string, pick int) string {
	first := keywords[0]
	second := first
	if len(keywords) > 1 {
		second = keywords[1]
	}
	templates := []string{
		"You mentioned " + first + ". How has your experience with " + first + " prepared you for this role?",
		"That's great that you have experience with " + first + ". What challenges did you face when working with " + second + "?",
		"I'd like to dive deeper into your " + first + " experience. Can you describe a specific project where you used these skills?",
		"How do you stay updated with the latest developments in " + first + "?",
		"What's your approach to learning new technologies like " + first + "?",
	}
	return templates[pick%len(templates)]
}

const dynamicTemplateCount = 5

// Config wires a Controller. Record is the in-progress record created at setup.
type Config struct {
	Record    models.InterviewRecord
	Questions []string
	Scheduler clock.Scheduler
	Rand      *rand.Rand
	Speech    *speech.Adapter
	Signals   proctoring.SignalSource
	Analyzer  analysis.UtteranceAnalyzer
	Logger    *zap.Logger

	// OnAlert observes every proctoring alert.
	OnAlert func(models.PlagiarismAlert)
	// OnEnd receives the completed record exactly once.
	OnEnd func(models.InterviewRecord)
}

// Controller is the interview state machine. Every method must be called from
// the goroutine that owns it; see Runner.
type Controller struct {
	record    models.InterviewRecord
	questions []string
	sched     clock.Scheduler
	rng       *rand.Rand
	speech    *speech.Adapter
	monitor   *proctoring.Monitor
	analyzer  analysis.UtteranceAnalyzer
	logger    *zap.Logger
	onAlert   func(models.PlagiarismAlert)
	onEnd     func(models.InterviewRecord)

	started bool
	active  bool
	ended   bool

	phase Phase
	flow  Flow
	turn  TurnState

	index           int
	current         string
	currentFollowUp bool
	asked           []string
	dynamic         []string
	responses       []models.UserResponse
	quality         []float64
	lastAnalysis    *models.AudioAnalysis

	timeRemaining int

	speechSupported     bool
	recognitionDisabled bool
	autoListen          bool
	micMuted            bool
	cameraOff           bool
	restartCount        int
	status              string
	recordingURL        string

	pendingText string
	pendingConf float64

	tickTimer    clock.Timer
	speakTimer   clock.Timer
	listenTimer  clock.Timer
	quietTimer   clock.Timer
	restartTimer clock.Timer
}

func NewController(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	analyzer := cfg.Analyzer
	if analyzer == nil {
		analyzer = analysis.NewHeuristicAnalyzer(rng)
	}
	adapter := cfg.Speech
	if adapter == nil {
		adapter = speech.NewAdapter(cfg.Scheduler, speech.Detached{}, logger)
	}

	c := &Controller{
		record:        cfg.Record,
		questions:     append([]string(nil), cfg.Questions...),
		sched:         cfg.Scheduler,
		rng:           rng,
		speech:        adapter,
		analyzer:      analyzer,
		logger:        logger.With(zap.String("interview_id", cfg.Record.ID)),
		onAlert:       cfg.OnAlert,
		onEnd:         cfg.OnEnd,
		phase:         PhaseIntro,
		flow:          FlowGreeting,
		turn:          TurnIdle,
		timeRemaining: cfg.Record.Duration * 60,
		asked:         []string{},
		dynamic:       []string{},
		quality:       []float64{},
	}
	c.monitor = proctoring.NewMonitor(cfg.Scheduler, cfg.Signals,
		proctoring.WithAlertHook(c.alertRaised),
		proctoring.WithLogger(c.logger))
	c.speech.SetListenGuard(func() bool { return c.autoListen && c.canListen() })
	return c
}

// Handle applies one event. Events after the session ended are ignored. Before
// Start only voice lists and end requests are accepted.
func (c *Controller) Handle(ev Event) {
	if c.ended {
		return
	}
	if !c.started {
		switch e := ev.(type) {
		case Start, EndRequested:
		case VoicesChanged:
			c.speech.SetVoices(e.Voices)
			return
		default:
			return
		}
	}

	switch e := ev.(type) {
	case Start:
		c.start(e)
	case VoicesChanged:
		c.speech.SetVoices(e.Voices)
	case UtteranceStarted:
		c.utteranceStarted(e.ID)
	case UtteranceEnded:
		c.utteranceEnded(e.ID)
	case UtteranceFailed:
		c.utteranceFailed(e)
	case RecognitionStarted:
		c.speech.RecognitionRunning()
		if c.turn != TurnSpeaking {
			c.turn = TurnListening
		}
		c.setStatus("Listening for speech...")
	case RecognitionEnded:
		c.recognitionEnded()
	case RecognitionError:
		c.recognitionError(e.Kind)
	case TranscriptInterim:
		c.speech.SetInterim(e.Text)
		if strings.TrimSpace(e.Text) != "" {
			c.setStatus("Processing speech...")
		}
	case TranscriptFinal:
		c.transcriptFinal(e)
	case ManualResponse:
		c.manualResponse(e.Text)
	case SkipQuestion:
		c.skipQuestion()
	case ListenToggled:
		c.listenToggled(e.On)
	case MicToggled:
		c.micToggled(e.Muted)
	case CameraToggled:
		c.cameraOff = e.Off
	case AIMuteToggled:
		c.aiMuteToggled(e.Muted)
	case ProctorSignal:
		if c.active {
			c.monitor.Observe(e.Event)
		}
	case EndRequested:
		if e.RecordingURL != "" {
			c.recordingURL = e.RecordingURL
		}
		reason := e.Reason
		if reason == "" {
			reason = EndManual
		}
		c.End(reason)
	}
}

func (c *Controller) start(e Start) {
	if c.started {
		return
	}
	c.started = true
	c.active = true
	c.speechSupported = e.SpeechSupported
	c.recognitionDisabled = !e.PermissionsGranted
	c.speech.SetVoices(e.Voices)

	if !e.PermissionsGranted {
		c.setStatus("Device permissions denied, continuing with manual input")
	} else if !e.SpeechSupported {
		c.setStatus("Speech recognition not supported")
	}

	c.tickTimer = c.sched.AfterFunc(tickInterval, c.tick)
	c.monitor.Start(c.elapsed)

	if len(c.questions) == 0 {
		c.logger.Warn("Interview started without questions")
		return
	}
	first := c.questions[0]
	c.index = 0
	c.current = first
	c.asked = append(c.asked, first)
	c.flow = FlowQuestioning

	welcome := fmt.Sprintf(welcomeTemplate, c.record.Role)
	c.speakTimer = c.sched.AfterFunc(welcomeDelay, func() {
		c.say(welcome+" "+first, true, true)
	})
	c.logger.Info("Interview started",
		zap.Int("questions", len(c.questions)),
		zap.Bool("speech_supported", c.speechSupported),
		zap.Bool("permissions_granted", e.PermissionsGranted))
}

func (c *Controller) tick() {
	if !c.active {
		return
	}
	if c.timeRemaining <= 1 {
		c.timeRemaining = 0
		c.End(EndTimeout)
		return
	}
	c.timeRemaining--
	c.tickTimer = c.sched.AfterFunc(tickInterval, c.tick)
	c.speech.Notify(speech.Frame{Type: speech.CmdState, Data: c.Snapshot()})
}

func (c *Controller) elapsed() time.Duration {
	return time.Duration(c.record.Duration*60-c.timeRemaining) * time.Second
}

// canListen is the precondition for any recognition start.
func (c *Controller) canListen() bool {
	return c.active &&
		c.record.MicrophoneEnabled &&
		!c.micMuted &&
		c.speechSupported &&
		!c.recognitionDisabled
}

// say speaks text. announce skips the question lead-in, followUp marks text as
// a follow-up. A muted interviewer counts as an utterance that ended at once.
func (c *Controller) say(text string, announce, followUp bool) {
	if !c.active {
		return
	}
	c.autoListen = false
	c.stopTimer(&c.restartTimer)
	c.stopTimer(&c.listenTimer)

	var sent bool
	if announce {
		sent = c.speech.Announce(text)
	} else {
		sent = c.speech.Speak(text, followUp)
	}
	if !sent {
		c.utteranceEnded(c.speech.Utterance())
		return
	}
	c.turn = TurnSpeaking
}

func (c *Controller) utteranceStarted(id int) {
	if id != 0 && id != c.speech.Utterance() {
		return
	}
	c.turn = TurnSpeaking
	c.autoListen = false
	c.setStatus("AI is speaking...")
}

func (c *Controller) utteranceEnded(id int) {
	if !c.speech.SpeechFinished(id) {
		return
	}
	if c.turn == TurnSpeaking {
		c.turn = TurnIdle
	}
	c.scheduleListen(listenSettleDelay)
}

func (c *Controller) utteranceFailed(e UtteranceFailed) {
	if !c.speech.SpeechFinished(e.ID) {
		return
	}
	if e.Reason == "interrupted" {
		c.setStatus("Speech interrupted")
	} else {
		c.logger.Warn("Speech synthesis error", zap.String("reason", e.Reason))
		c.setStatus("Speech synthesis error")
	}
	if c.turn == TurnSpeaking {
		c.turn = TurnIdle
	}
	c.scheduleListen(listenRetryDelay)
}

// scheduleListen starts a fresh listen cycle after delay.
func (c *Controller) scheduleListen(delay time.Duration) {
	c.stopTimer(&c.listenTimer)
	c.listenTimer = c.sched.AfterFunc(delay, func() {
		c.listenTimer = nil
		if !c.canListen() {
			return
		}
		c.autoListen = true
		c.restartCount = 0
		c.setStatus("Ready to listen for your response...")
		c.speech.StartListening()
	})
}

func (c *Controller) recognitionEnded() {
	c.speech.RecognitionStopped()
	if c.turn == TurnListening {
		c.turn = TurnIdle
	}
	if c.autoListen && c.canListen() && c.speech.State() != speech.StateSpeaking {
		c.scheduleRestart()
		return
	}
	c.setStatus("Speech recognition stopped")
}

func (c *Controller) recognitionError(kind string) {
	c.speech.RecognitionStopped()
	if c.turn == TurnListening {
		c.turn = TurnIdle
	}

	restart := false
	switch kind {
	case RecognitionNotAllowed:
		c.recognitionDisabled = true
		c.autoListen = false
		c.stopTimer(&c.restartTimer)
		c.setStatus("Microphone access denied")
	case RecognitionNoSpeech:
		c.setStatus("No speech detected, restarting...")
		restart = true
	case RecognitionNetwork:
		c.setStatus("Network error, restarting...")
		restart = true
	case RecognitionAudioCapture:
		c.setStatus("Audio capture error")
	case RecognitionAborted:
		c.setStatus("Speech recognition stopped")
	default:
		c.logger.Warn("Unknown speech recognition error", zap.String("kind", kind))
		c.setStatus("Error: " + kind)
		restart = true
	}
	if restart && c.autoListen && c.canListen() {
		c.scheduleRestart()
	}
}

func (c *Controller) scheduleRestart() {
	if c.restartCount >= speech.MaxRestartTrials {
		c.setStatus("Max restart attempts reached")
		return
	}
	c.stopTimer(&c.restartTimer)
	delay := speech.Backoff(c.restartCount)
	c.logger.Debug("Scheduling recognition restart",
		zap.Duration("delay", delay),
		zap.Int("attempt", c.restartCount+1))
	c.restartTimer = c.sched.AfterFunc(delay, func() {
		c.restartTimer = nil
		if !c.autoListen || !c.canListen() || c.speech.State() == speech.StateSpeaking {
			return
		}
		c.restartCount++
		c.speech.StartListening()
	})
}

func (c *Controller) transcriptFinal(e TranscriptFinal) {
	if !c.active {
		return
	}
	text := strings.TrimSpace(e.Text)
	if text == "" {
		return
	}
	conf := e.Confidence
	if conf <= 0 {
		conf = defaultConfidence
	}

	c.speech.AddFinal(text)
	c.pendingText += text + " "
	c.pendingConf = math.Max(c.pendingConf, conf)
	c.restartCount = 0

	// a newer final result replaces the pending quiet timer
	c.stopTimer(&c.quietTimer)
	c.quietTimer = c.sched.AfterFunc(quietInterval, func() {
		c.quietTimer = nil
		answer := strings.TrimSpace(c.pendingText)
		conf := c.pendingConf
		c.pendingText = ""
		c.pendingConf = 0
		if utf8.RuneCountInString(answer) > minAnswerLength {
			c.processAnswer(answer, conf)
		}
	})
}

func (c *Controller) manualResponse(text string) {
	text = strings.TrimSpace(text)
	if !c.active || text == "" || c.turn == TurnAnalyzing {
		return
	}
	c.stopTimer(&c.quietTimer)
	c.speech.AddFinal(text)
	answer := strings.TrimSpace(c.pendingText + text)
	conf := math.Max(c.pendingConf, defaultConfidence)
	c.pendingText = ""
	c.pendingConf = 0
	c.processAnswer(answer, conf)
}

// processAnswer runs the per-answer pipeline and queues the next question.
func (c *Controller) processAnswer(text string, confidence float64) {
	if !c.active {
		return
	}
	c.turn = TurnAnalyzing
	c.setStatus("Analyzing response...")

	a := c.analyzer.AnalyzeUtterance(text, confidence)
	c.lastAnalysis = &a
	c.quality = append(c.quality, a.Confidence*100)
	c.responses = append(c.responses, models.UserResponse{
		Question:  c.current,
		Response:  text,
		Analysis:  a,
		Timestamp: c.sched.Now(),
	})

	if c.phase == PhaseConclusion {
		c.turn = TurnIdle
		c.End(EndCompleted)
		return
	}

	next, followUp, announce := c.chooseNext(text, a)
	c.current = next
	c.currentFollowUp = followUp
	c.asked = append(c.asked, next)
	c.turn = TurnIdle

	c.stopTimer(&c.speakTimer)
	c.speakTimer = c.sched.AfterFunc(nextQuestionDelay, func() {
		c.speakTimer = nil
		c.say(next, announce, followUp)
	})
}

// chooseNext picks a follow-up, a dynamic question, the next catalog question
// or the closing line, and updates phase and flow accordingly.
func (c *Controller) chooseNext(text string, a models.AudioAnalysis) (next string, followUp, announce bool) {
	if c.speechSupported {
		if a.Confidence < followUpConfidence || utf8.RuneCountInString(text) < followUpMinLength {
			next = followUpTemplates[c.rng.Intn(len(followUpTemplates))]
			if a.Confidence < empatheticThreshold {
				next = empatheticPrefix + next
			}
			c.phase, c.flow = PhaseFollowUp, FlowFollowUp
			return next, true, false
		}
		if len(a.Keywords) > dynamicMinKeywords && c.rng.Float64() > 0.5 {
			next = dynamicQuestion(a.Keywords, c.rng.Intn(dynamicTemplateCount))
			c.dynamic = append(c.dynamic, next)
			c.phase, c.flow = PhaseMain, FlowQuestioning
			return next, false, false
		}
	}

	if c.index+1 < len(c.questions) {
		c.index++
		c.phase, c.flow = PhaseMain, FlowQuestioning
		return c.questions[c.index], false, false
	}
	c.phase, c.flow = PhaseConclusion, FlowClosing
	return closingLine, false, true
}

// skipQuestion moves to the next catalog question right away. It does nothing
// while the interviewer is speaking or on the last question.
func (c *Controller) skipQuestion() {
	if !c.active || c.turn == TurnSpeaking || c.turn == TurnAnalyzing || c.phase == PhaseConclusion {
		return
	}
	if c.index+1 >= len(c.questions) {
		return
	}
	c.stopTimer(&c.speakTimer)
	c.stopTimer(&c.quietTimer)
	c.pendingText = ""
	c.pendingConf = 0

	c.index++
	c.current = c.questions[c.index]
	c.currentFollowUp = false
	c.asked = append(c.asked, c.current)
	c.phase, c.flow = PhaseMain, FlowQuestioning
	c.say(c.current, false, false)
}

func (c *Controller) listenToggled(on bool) {
	if !c.active {
		return
	}
	if !on {
		c.autoListen = false
		c.stopTimer(&c.restartTimer)
		c.speech.StopListening()
		if c.turn == TurnListening {
			c.turn = TurnIdle
		}
		c.setStatus("Speech recognition stopped")
		return
	}
	if c.speech.State() == speech.StateSpeaking || !c.canListen() {
		return
	}
	c.autoListen = true
	c.speech.StartListening()
}

func (c *Controller) micToggled(muted bool) {
	c.micMuted = muted
	if muted {
		c.autoListen = false
		c.stopTimer(&c.restartTimer)
		c.stopTimer(&c.listenTimer)
		c.speech.StopListening()
		if c.turn == TurnListening {
			c.turn = TurnIdle
		}
		c.setStatus("Microphone muted")
		return
	}
	if c.active && c.record.MicrophoneEnabled && c.speech.State() != speech.StateSpeaking {
		c.autoListen = true
		c.setStatus("Microphone enabled, ready to listen")
		c.speech.StartListening()
	}
}

func (c *Controller) aiMuteToggled(muted bool) {
	c.speech.SetMuted(muted)
	if !muted {
		return
	}
	if c.turn == TurnSpeaking {
		c.turn = TurnIdle
	}
	if c.active && !c.micMuted && c.record.MicrophoneEnabled {
		c.autoListen = true
		c.speech.StartListening()
	}
}

func (c *Controller) alertRaised(alert models.PlagiarismAlert) {
	c.speech.Notify(speech.Frame{Type: speech.CmdAlert, Data: alert})
	if c.onAlert != nil {
		c.onAlert(alert)
	}
}

// End finishes the interview once. Later calls do nothing.
func (c *Controller) End(reason string) {
	if c.ended {
		return
	}
	c.ended = true
	c.active = false
	c.autoListen = false
	c.turn = TurnIdle
	c.phase, c.flow = PhaseConclusion, FlowClosing

	for _, t := range []*clock.Timer{&c.tickTimer, &c.speakTimer, &c.listenTimer, &c.quietTimer, &c.restartTimer} {
		c.stopTimer(t)
	}
	c.speech.Shutdown()
	c.monitor.Stop()

	record := c.buildRecord(reason)
	c.logger.Info("Interview ended",
		zap.String("reason", reason),
		zap.Int("questions_asked", len(record.QuestionsAsked)),
		zap.Int("responses", len(c.responses)),
		zap.Int("security_score", c.monitor.Score()))

	if c.onEnd != nil {
		c.onEnd(record)
	}
}

// Abort closes the controller after its loop failed. Each cleanup step runs
// on its own; the record falls back to the setup record when the live state
// cannot be read. OnEnd is not called.
func (c *Controller) Abort(reason string) models.InterviewRecord {
	c.ended = true
	c.active = false
	c.autoListen = false
	c.turn = TurnIdle

	record := c.record
	record.Status = models.StatusCompleted
	record.EndReason = reason
	c.guard(func() { record = c.buildRecord(reason) })
	c.guard(func() {
		for _, t := range []*clock.Timer{&c.tickTimer, &c.speakTimer, &c.listenTimer, &c.quietTimer, &c.restartTimer} {
			c.stopTimer(t)
		}
	})
	c.guard(c.speech.Shutdown)
	c.guard(c.monitor.Stop)
	return record
}

func (c *Controller) guard(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Warn("Cleanup step failed", zap.Any("panic", rec))
		}
	}()
	fn()
}

func (c *Controller) buildRecord(reason string) models.InterviewRecord {
	r := c.record
	r.Status = models.StatusCompleted
	r.EndReason = reason
	r.QuestionsAsked = append([]string{}, c.asked...)
	r.DynamicQuestions = append([]string{}, c.dynamic...)
	r.UserResponses = append([]models.UserResponse(nil), c.responses...)
	r.SpeechText = strings.TrimSpace(c.speech.Transcript())
	r.Misconduct = append([]string{}, c.monitor.Misconduct()...)
	r.PlagiarismAlerts = append([]models.PlagiarismAlert{}, c.monitor.Alerts()...)
	r.ResponseQuality = append([]float64{}, c.quality...)
	r.SecurityScore = models.IntPtr(c.monitor.Score())
	r.VideoRecording = c.recordingURL
	r.Score = meanScore(c.quality)

	total, critical := c.monitor.Counts()
	summary := &models.ProctoringSummary{
		TotalAlerts:           total,
		CriticalAlerts:        critical,
		SecurityScore:         c.monitor.Score(),
		AdaptiveQuestionsUsed: len(c.dynamic),
		TotalResponses:        len(c.responses),
	}
	if len(c.responses) > 0 {
		sum := 0
		for _, resp := range c.responses {
			sum += utf8.RuneCountInString(resp.Response)
		}
		summary.AverageResponseLength = int(math.Round(float64(sum) / float64(len(c.responses))))
	}
	r.ProctoringSummary = summary
	return r
}

// meanScore rounds the mean response quality, or nil when nothing was answered.
func meanScore(quality []float64) *int {
	if len(quality) == 0 {
		return nil
	}
	sum := 0.0
	for _, q := range quality {
		sum += q
	}
	return models.IntPtr(int(math.Round(sum / float64(len(quality)))))
}

func (c *Controller) setStatus(msg string) {
	if msg == c.status {
		return
	}
	c.status = msg
	c.speech.Status(msg)
}

func (c *Controller) stopTimer(t *clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

func (c *Controller) Active() bool { return c.active }
func (c *Controller) Ended() bool  { return c.ended }
