package speech

import "encoding/json"

// commands sent to the browser
const (
	CmdSpeak          = "speak"
	CmdCancelSpeech   = "cancel_speech"
	CmdStartListening = "start_listening"
	CmdStopListening  = "stop_listening"
	CmdStatus         = "status"
	CmdState          = "state"
	CmdAlert          = "alert"
	CmdEnded          = "ended"
	CmdError          = "error"
)

// Frame is one websocket message in either direction.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// InboundFrame keeps the payload raw until the type is known.
type InboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type SpeakCommand struct {
	ID     int     `json:"id"`
	Text   string  `json:"text"`
	Voice  string  `json:"voice,omitempty"`
	Lang   string  `json:"lang"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

type ListenCommand struct {
	Lang            string `json:"lang"`
	Continuous      bool   `json:"continuous"`
	InterimResults  bool   `json:"interimResults"`
	MaxAlternatives int    `json:"maxAlternatives"`
}

type StatusCommand struct {
	Message string `json:"message"`
}
