package proctoring

import (
	"strings"
	"unicode/utf8"

	"vocalhire/interview/internal/models"
)

// client event kinds forwarded by the browser
const (
	EventVisibilityChange = "visibilitychange"
	EventCopy             = "copy"
	EventPaste            = "paste"
	EventKeyDown          = "keydown"
	EventContextMenu      = "contextmenu"
)

// ClientEvent is a DOM event reported by the browser while a session is active.
type ClientEvent struct {
	Kind   string `json:"kind"`
	Hidden bool   `json:"hidden,omitempty"`
	Text   string `json:"text,omitempty"`
	Key    string `json:"key,omitempty"`
	Ctrl   bool   `json:"ctrlKey,omitempty"`
	Meta   bool   `json:"metaKey,omitempty"`
	Alt    bool   `json:"altKey,omitempty"`
}

// Signal is a detected (or simulated) behavior before it becomes an alert.
type Signal struct {
	Type     models.AlertType
	Message  string
	Severity models.Severity
}

const minPasteLength = 10

// Classify maps a client event to a signal. Events that are not suspicious
// report false.
func Classify(ev ClientEvent) (Signal, bool) {
	switch ev.Kind {
	case EventVisibilityChange:
		if ev.Hidden {
			return Signal{models.AlertTabSwitch, "Candidate switched tabs or minimized window", models.SeverityHigh}, true
		}
	case EventCopy:
		return Signal{models.AlertCopyPaste, "Copy operation detected", models.SeverityMedium}, true
	case EventPaste:
		if utf8.RuneCountInString(ev.Text) > minPasteLength {
			return Signal{models.AlertCopyPaste, `Paste operation detected: "`+truncate(ev.Text, 50)+`"...`, models.SeverityHigh}, true
		}
	case EventKeyDown:
		if (ev.Ctrl || ev.Meta) && (ev.Key == "c" || ev.Key == "v" || ev.Key == "a") {
			modifier := "Cmd"
			if ev.Ctrl {
				modifier = "Ctrl"
			}
			return Signal{models.AlertCopyPaste, "Suspicious key combination: " + modifier + "+" + strings.ToUpper(ev.Key), models.SeverityMedium}, true
		}
		if ev.Alt && ev.Key == "Tab" {
			return Signal{models.AlertTabSwitch, "Alt+Tab detected - possible window switching", models.SeverityHigh}, true
		}
	case EventContextMenu:
		return Signal{models.AlertSuspiciousActivity, "Right-click menu access attempted", models.SeverityLow}, true
	}
	return Signal{}, false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
