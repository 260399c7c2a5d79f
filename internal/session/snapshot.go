package session

import (
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/speech"
)

// Snapshot is the live view of a session sent to the browser and the API.
type Snapshot struct {
	InterviewID       string                `json:"interviewId"`
	Active            bool                  `json:"active"`
	Ended             bool                  `json:"ended"`
	Phase             Phase                 `json:"phase"`
	Flow              Flow                  `json:"conversationFlow"`
	Turn              TurnState             `json:"turn"`
	CurrentQuestion   string                `json:"currentQuestion"`
	IsFollowUp        bool                  `json:"isFollowUp"`
	QuestionIndex     int                   `json:"currentQuestionIndex"`
	TotalQuestions    int                   `json:"totalQuestions"`
	QuestionsAsked    int                   `json:"questionsAsked"`
	DynamicQuestions  int                   `json:"dynamicQuestions"`
	Responses         int                   `json:"responses"`
	TimeRemaining     int                   `json:"timeRemaining"`
	SecurityScore     int                   `json:"securityScore"`
	Alerts            int                   `json:"alerts"`
	Status            string                `json:"status"`
	Interim           string                `json:"interimTranscript,omitempty"`
	SpeechSupported   bool                  `json:"speechSupported"`
	MicMuted          bool                  `json:"micMuted"`
	CameraOff         bool                  `json:"cameraOff"`
	AIMuted           bool                  `json:"aiMuted"`
	LastAnalysis      *models.AudioAnalysis `json:"lastAnalysis,omitempty"`
	RestartAttempts   int                   `json:"restartAttempts"`
	RecognitionActive bool                  `json:"recognitionActive"`
}

func (c *Controller) Snapshot() Snapshot {
	total, _ := c.monitor.Counts()
	return Snapshot{
		InterviewID:       c.record.ID,
		Active:            c.active,
		Ended:             c.ended,
		Phase:             c.phase,
		Flow:              c.flow,
		Turn:              c.turn,
		CurrentQuestion:   c.current,
		IsFollowUp:        c.currentFollowUp,
		QuestionIndex:     c.index,
		TotalQuestions:    len(c.questions),
		QuestionsAsked:    len(c.asked),
		DynamicQuestions:  len(c.dynamic),
		Responses:         len(c.responses),
		TimeRemaining:     c.timeRemaining,
		SecurityScore:     c.monitor.Score(),
		Alerts:            total,
		Status:            c.status,
		Interim:           c.speech.Interim(),
		SpeechSupported:   c.speechSupported,
		MicMuted:          c.micMuted,
		CameraOff:         c.cameraOff,
		AIMuted:           c.speech.Muted(),
		LastAnalysis:      c.lastAnalysis,
		RestartAttempts:   c.restartCount,
		RecognitionActive: c.speech.State() == speech.StateListening,
	}
}
