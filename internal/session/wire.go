package session

import (
	"encoding/json"
	"fmt"

	"vocalhire/interview/internal/proctoring"
	"vocalhire/interview/internal/speech"
)

type startPayload struct {
	PermissionsGranted bool           `json:"permissionsGranted"`
	SpeechSupported    bool           `json:"speechSupported"`
	Voices             []speech.Voice `json:"voices"`
}

type utterancePayload struct {
	ID    int    `json:"id"`
	Error string `json:"error"`
}

type transcriptPayload struct {
	Text       string  `json:"text"`
	IsFinal    bool    `json:"isFinal"`
	Confidence float64 `json:"confidence"`
}

type togglePayload struct {
	On    bool `json:"on"`
	Muted bool `json:"muted"`
	Off   bool `json:"off"`
}

type endPayload struct {
	Reason       string `json:"reason"`
	RecordingURL string `json:"recordingUrl"`
}

// DecodeEvent turns a browser frame into a controller event.
func DecodeEvent(frame speech.InboundFrame) (Event, error) {
	switch frame.Type {
	case "start":
		var p startPayload
		if err := decode(frame, &p); err != nil {
			return nil, err
		}
		return Start{PermissionsGranted: p.PermissionsGranted, SpeechSupported: p.SpeechSupported, Voices: p.Voices}, nil
	case "voices":
		var p startPayload
		if err := decode(frame, &p); err != nil {
			return nil, err
		}
		return VoicesChanged{Voices: p.Voices}, nil
	case "utterance_started", "utterance_ended", "utterance_error":
		var p utterancePayload
		if err := decode(frame, &p); err != nil {
			return nil, err
		}
		switch frame.Type {
		case "utterance_started":
			return UtteranceStarted{ID: p.ID}, nil
		case "utterance_ended":
			return UtteranceEnded{ID: p.ID}, nil
		}
		return UtteranceFailed{ID: p.ID, Reason: p.Error}, nil
	case "recognition_started":
		return RecognitionStarted{}, nil
	case "recognition_ended":
		return RecognitionEnded{}, nil
	case "recognition_error":
		var p utterancePayload
		if err := decode(frame, &p); err != nil {
			return nil, err
		}
		return RecognitionError{Kind: p.Error}, nil
	case "transcript":
		var p transcriptPayload
		if err := decode(frame, &p); err != nil {
			return nil, err
		}
		if p.IsFinal {
			return TranscriptFinal{Text: p.Text, Confidence: p.Confidence}, nil
		}
		return TranscriptInterim{Text: p.Text}, nil
	case "manual_response":
		var p transcriptPayload
		if err := decode(frame, &p); err != nil {
			return nil, err
		}
		return ManualResponse{Text: p.Text}, nil
	case "skip":
		return SkipQuestion{}, nil
	case "listen", "mic", "camera", "ai_audio":
		var p togglePayload
		if err := decode(frame, &p); err != nil {
			return nil, err
		}
		switch frame.Type {
		case "listen":
			return ListenToggled{On: p.On}, nil
		case "mic":
			return MicToggled{Muted: p.Muted}, nil
		case "camera":
			return CameraToggled{Off: p.Off}, nil
		}
		return AIMuteToggled{Muted: p.Muted}, nil
	case "proctor":
		var p proctoring.ClientEvent
		if err := decode(frame, &p); err != nil {
			return nil, err
		}
		return ProctorSignal{Event: p}, nil
	case "end":
		var p endPayload
		if err := decode(frame, &p); err != nil {
			return nil, err
		}
		switch p.Reason {
		case "":
			p.Reason = EndManual
		case EndManual:
		default:
			return nil, fmt.Errorf("invalid end reason %q", p.Reason)
		}
		return EndRequested{Reason: p.Reason, RecordingURL: p.RecordingURL}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", frame.Type)
}

func decode(frame speech.InboundFrame, v any) error {
	if len(frame.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(frame.Data, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", frame.Type, err)
	}
	return nil
}
