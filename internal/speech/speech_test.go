package speech

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"vocalhire/interview/internal/clock"
)

type frameCapture struct {
	frames []Frame
}

func (c *frameCapture) Send(frame Frame) error {
	c.frames = append(c.frames, frame)
	return nil
}

func (c *frameCapture) Close() error { return nil }

func (c *frameCapture) types() []string {
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		out = append(out, f.Type)
	}
	return out
}

func newTestAdapter() (*Adapter, *frameCapture, *clock.Fake) {
	fake := clock.NewFake(time.Unix(0, 0))
	capture := &frameCapture{}
	return NewAdapter(fake, capture, nil), capture, fake
}

func TestBackoff(t *testing.T) {
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}
	for attempt, w := range want {
		if got := Backoff(attempt); got != w {
			t.Fatalf("attempt %d: expected %v, got %v", attempt, w, got)
		}
	}
	if Backoff(-1) != time.Second {
		t.Fatal("expected negative attempts to use the base delay")
	}
}

func TestChooseVoice(t *testing.T) {
	tests := []struct {
		name   string
		voices []Voice
		want   string
		ok     bool
	}{
		{"vendor english", []Voice{{Name: "Amelie", Lang: "fr-FR"}, {Name: "Samantha", Lang: "en-US"}, {Name: "Google US English", Lang: "en-US"}}, "Google US English", true},
		{"vendor must be english", []Voice{{Name: "Google français", Lang: "fr-FR"}, {Name: "Samantha", Lang: "en-US"}}, "Samantha", true},
		{"first voice", []Voice{{Name: "Amelie", Lang: "fr-FR"}, {Name: "Anna", Lang: "de-DE"}}, "Amelie", true},
		{"none", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ChooseVoice(tt.voices)
			if ok != tt.ok || v.Name != tt.want {
				t.Fatalf("expected %q/%v, got %q/%v", tt.want, tt.ok, v.Name, ok)
			}
		})
	}
}

func TestSpeakStopsRecognitionFirst(t *testing.T) {
	a, capture, fake := newTestAdapter()
	a.SetVoices([]Voice{{Name: "Microsoft Zira", Lang: "en-US"}})
	a.StartListening()
	fake.Advance(StartDelay)
	if a.State() != StateListening {
		t.Fatalf("expected listening, got %s", a.State())
	}

	if !a.Speak("Tell me about yourself.", false) {
		t.Fatal("expected speech to be sent")
	}

	got := capture.types()
	want := []string{CmdStartListening, CmdStopListening, CmdSpeak}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected frames %v, got %v", want, got)
	}
	cmd := capture.frames[2].Data.(SpeakCommand)
	if cmd.Text != QuestionLeadIn+"Tell me about yourself." {
		t.Fatalf("unexpected text %q", cmd.Text)
	}
	if cmd.Voice != "Microsoft Zira" || cmd.Rate != 0.85 || cmd.Volume != 0.9 || cmd.Lang != "en-US" {
		t.Fatalf("unexpected speak command %+v", cmd)
	}
	if a.State() != StateSpeaking {
		t.Fatalf("expected speaking, got %s", a.State())
	}
}

func TestSpeakCancelsInFlightUtterance(t *testing.T) {
	a, capture, _ := newTestAdapter()
	a.Announce("first")
	a.Speak("second", true)

	got := strings.Join(capture.types(), ",")
	if got != "speak,cancel_speech,speak" {
		t.Fatalf("unexpected frames %s", got)
	}
	if text := capture.frames[2].Data.(SpeakCommand).Text; text != "second" {
		t.Fatalf("expected follow-up without lead-in, got %q", text)
	}
}

func TestMutedSpeakSendsNothing(t *testing.T) {
	a, capture, _ := newTestAdapter()
	a.SetMuted(true)
	if a.Speak("hello", false) {
		t.Fatal("expected muted speak to report false")
	}
	if len(capture.frames) != 0 {
		t.Fatalf("expected no frames, got %v", capture.types())
	}
}

func TestStartListeningIsIdempotent(t *testing.T) {
	a, capture, fake := newTestAdapter()
	a.StartListening()
	a.StartListening()
	fake.Advance(StartDelay)
	a.StartListening()
	fake.Advance(StartDelay)

	n := 0
	for _, typ := range capture.types() {
		if typ == CmdStartListening {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected one start, got %d", n)
	}
}

func TestDeferredStartRechecksGuard(t *testing.T) {
	a, capture, fake := newTestAdapter()
	allowed := true
	a.SetListenGuard(func() bool { return allowed })

	a.StartListening()
	allowed = false
	fake.Advance(StartDelay)

	if len(capture.frames) != 0 || a.State() != StateIdle {
		t.Fatalf("expected no start when guard fails, got %v", capture.types())
	}
}

func TestStopListeningCancelsPendingStart(t *testing.T) {
	a, capture, fake := newTestAdapter()
	a.StartListening()
	a.StopListening()
	fake.Advance(time.Second)

	if len(capture.frames) != 0 {
		t.Fatalf("expected no frames, got %v", capture.types())
	}
}

func TestTranscriptBuffer(t *testing.T) {
	a, _, _ := newTestAdapter()
	a.SetInterim("I am")
	a.AddFinal(" I am a developer ")
	a.AddFinal("")
	a.AddFinal("who loves Go")

	if a.Interim() != "" {
		t.Fatalf("expected interim cleared, got %q", a.Interim())
	}
	if got := a.Transcript(); got != "I am a developer who loves Go" {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestWSTransportWritesFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan InboundFrame, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var frame InboundFrame
		if err := conn.ReadJSON(&frame); err == nil {
			received <- frame
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}

	transport := NewWSTransport(conn)
	if err := transport.Send(Frame{Type: CmdStatus, Data: StatusCommand{Message: "ready"}}); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case frame := <-received:
		if frame.Type != CmdStatus || !strings.Contains(string(frame.Data), "ready") {
			t.Fatalf("unexpected frame: %#v", frame)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}

	if err := transport.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := transport.Send(Frame{Type: CmdStatus}); err != ErrTransportClosed {
		t.Fatalf("expected ErrTransportClosed, got %v", err)
	}
}

func TestSwitchableTransport(t *testing.T) {
	s := NewSwitchable()
	if err := s.Send(Frame{Type: CmdStatus}); err != nil {
		t.Fatalf("detached send should not fail: %v", err)
	}

	if s.Connected() {
		t.Fatal("expected a new switchable to start detached")
	}

	first := &frameCapture{}
	second := &frameCapture{}
	s.Attach(first)
	if !s.Connected() {
		t.Fatal("expected connected after attach")
	}
	_ = s.Send(Frame{Type: CmdSpeak})
	s.Attach(second)
	_ = s.Send(Frame{Type: CmdCancelSpeech})
	s.Detach(first)
	_ = s.Send(Frame{Type: CmdStatus})

	if len(first.frames) != 1 || len(second.frames) != 2 {
		t.Fatalf("unexpected routing: first=%v second=%v", first.types(), second.types())
	}
	s.Detach(second)
	_ = s.Send(Frame{Type: CmdStatus})
	if len(second.frames) != 2 {
		t.Fatal("expected detached transport to receive nothing")
	}
	if s.Connected() {
		t.Fatal("expected detached after the current transport left")
	}
}

func TestStaleUtteranceEventsAreIgnored(t *testing.T) {
	a, capture, _ := newTestAdapter()
	a.Announce("welcome")
	first := capture.frames[0].Data.(SpeakCommand).ID
	a.Announce("question")

	if a.SpeechFinished(first) {
		t.Fatal("expected replaced utterance to be reported stale")
	}
	if a.State() != StateSpeaking {
		t.Fatalf("expected still speaking, got %s", a.State())
	}
	if !a.SpeechFinished(a.Utterance()) {
		t.Fatal("expected current utterance to finish")
	}
	if a.State() != StateIdle {
		t.Fatalf("expected idle, got %s", a.State())
	}
}
