package models

// interview difficulty levels (in lowercase)
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var ValidDifficulties = map[string]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

func ValidDifficultiesList() []string {
	return []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// interview record lifecycle
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// duration bounds in minutes, adjustable in steps of DurationStep
const (
	MinDuration     = 5
	MaxDuration     = 60
	DurationStep    = 5
	DefaultDuration = 30
)

// proctoring alert types
type AlertType string

const (
	AlertCopyPaste          AlertType = "copy-paste"
	AlertExternalSource     AlertType = "external-source"
	AlertTabSwitch          AlertType = "tab-switch"
	AlertMultipleWindows    AlertType = "multiple-windows"
	AlertScreenShare        AlertType = "screen-share"
	AlertSuspiciousActivity AlertType = "suspicious-activity"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Weight is the security score penalty for one alert of this severity.
func (s Severity) Weight() int {
	switch s {
	case SeverityLow:
		return 2
	case SeverityMedium:
		return 5
	case SeverityHigh:
		return 10
	case SeverityCritical:
		return 20
	}
	return 0
}

// where an alert came from
const (
	AlertSourceClient    = "client"
	AlertSourceSimulated = "simulated"
)

// emotion buckets for per-answer analysis
const (
	EmotionExcited   = "excited"
	EmotionNervous   = "nervous"
	EmotionConfident = "confident"
	EmotionCalm      = "calm"
	EmotionNeutral   = "neutral"
)

// improvement plan priorities
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// per-question feedback types
const (
	QuestionTypeStandard = "standard"
	QuestionTypeAdaptive = "adaptive"
)

// settings keys persisted by the store
const (
	SettingGeminiAPIKey  = "gemini_api_key"
	SettingVoice         = "voice_settings"
	SettingAI            = "ai_settings"
	SettingUserProfile   = "user_profile"
	SettingNotifications = "notification_settings"
	SettingSecurity      = "security_settings"
	SettingDevices       = "device_settings"
)

var ValidSettingKeys = map[string]bool{
	SettingGeminiAPIKey:  true,
	SettingVoice:         true,
	SettingAI:            true,
	SettingUserProfile:   true,
	SettingNotifications: true,
	SettingSecurity:      true,
	SettingDevices:       true,
}

// defaults applied when a record lacks a value
const (
	DefaultSecurityScore = 85
	DefaultOverallScore  = 75
)
