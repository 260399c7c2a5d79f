package session

import (
	"vocalhire/interview/internal/proctoring"
	"vocalhire/interview/internal/speech"
)

// Event is an input to Controller.Handle.
type Event interface {
	eventName() string
}

// Start begins the interview once device permissions are resolved, whether
// they were granted or not.
type Start struct {
	PermissionsGranted bool
	SpeechSupported    bool
	Voices             []speech.Voice
}

// VoicesChanged carries the synthesis voice list when it arrives late.
type VoicesChanged struct {
	Voices []speech.Voice
}

type UtteranceStarted struct {
	ID int
}

type UtteranceEnded struct {
	ID int
}

// UtteranceFailed covers synthesis errors, including "interrupted".
type UtteranceFailed struct {
	ID     int
	Reason string
}

type RecognitionStarted struct{}

type RecognitionEnded struct{}

// RecognitionError kinds reported by the browser recognizer.
const (
	RecognitionNotAllowed   = "not-allowed"
	RecognitionNoSpeech     = "no-speech"
	RecognitionNetwork      = "network"
	RecognitionAudioCapture = "audio-capture"
	RecognitionAborted      = "aborted"
)

type RecognitionError struct {
	Kind string
}

type TranscriptInterim struct {
	Text string
}

// TranscriptFinal is a final recognition result. Confidence 0 means the
// recognizer did not report one.
type TranscriptFinal struct {
	Text       string
	Confidence float64
}

// ManualResponse is a typed answer, used when speech is unavailable.
type ManualResponse struct {
	Text string
}

type SkipQuestion struct{}

// ListenToggled is the candidate pressing start/stop listening.
type ListenToggled struct {
	On bool
}

type MicToggled struct {
	Muted bool
}

type CameraToggled struct {
	Off bool
}

type AIMuteToggled struct {
	Muted bool
}

type ProctorSignal struct {
	Event proctoring.ClientEvent
}

type EndRequested struct {
	Reason       string
	RecordingURL string
}

func (Start) eventName() string              { return "start" }
func (VoicesChanged) eventName() string      { return "voices" }
func (UtteranceStarted) eventName() string   { return "utterance_started" }
func (UtteranceEnded) eventName() string     { return "utterance_ended" }
func (UtteranceFailed) eventName() string    { return "utterance_error" }
func (RecognitionStarted) eventName() string { return "recognition_started" }
func (RecognitionEnded) eventName() string   { return "recognition_ended" }
func (RecognitionError) eventName() string   { return "recognition_error" }
func (TranscriptInterim) eventName() string  { return "transcript_interim" }
func (TranscriptFinal) eventName() string    { return "transcript_final" }
func (ManualResponse) eventName() string     { return "manual_response" }
func (SkipQuestion) eventName() string       { return "skip" }
func (ListenToggled) eventName() string      { return "listen" }
func (MicToggled) eventName() string         { return "mic" }
func (CameraToggled) eventName() string      { return "camera" }
func (AIMuteToggled) eventName() string      { return "ai_audio" }
func (ProctorSignal) eventName() string      { return "proctor" }
func (EndRequested) eventName() string       { return "end" }
