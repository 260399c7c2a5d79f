// Package mentor builds career-mentor and interview-feedback prompts and sends
// them to the configured language model.
package mentor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vocalhire/interview/internal/llm"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/prompts"
)

const (
	historyTurns   = 6
	previewLength  = 500
	defaultVariant = "balanced"
)

type personality struct {
	name        string
	description string
}

var personalities = map[string]personality{
	"professional": {"Professional", "Formal, structured, business-focused"},
	"friendly":     {"Friendly", "Warm, approachable, encouraging"},
	"enthusiastic": {"Enthusiastic", "Energetic, motivating, inspiring"},
	"supportive":   {"Supportive", "Empathetic, understanding, nurturing"},
	"creative":     {"Creative", "Innovative, out-of-the-box thinking"},
	"analytical":   {"Analytical", "Data-driven, logical, systematic"},
}

var expertiseAreas = map[string]string{
	"general":    "General Career Guidance",
	"tech":       "Technology & Engineering",
	"business":   "Business & Management",
	"creative":   "Creative & Design",
	"healthcare": "Healthcare & Medical",
	"finance":    "Finance & Banking",
	"education":  "Education & Training",
	"marketing":  "Marketing & Sales",
	"legal":      "Legal & Compliance",
	"consulting": "Consulting & Strategy",
}

var languageNames = map[string]string{
	"en-US": "English (US)",
	"en-GB": "English (UK)",
	"es-ES": "Spanish (Spain)",
	"es-MX": "Spanish (Mexico)",
	"fr-FR": "French",
	"de-DE": "German",
	"it-IT": "Italian",
	"pt-BR": "Portuguese (Brazil)",
	"pt-PT": "Portuguese (Portugal)",
	"ru-RU": "Russian",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"ja-JP": "Japanese",
	"ko-KR": "Korean",
	"ar-SA": "Arabic",
	"hi-IN": "Hindi",
	"bn-IN": "Bengali",
	"ta-IN": "Tamil",
	"te-IN": "Telugu",
	"mr-IN": "Marathi",
	"gu-IN": "Gujarati",
	"kn-IN": "Kannada",
	"ml-IN": "Malayalam",
	"pa-IN": "Punjabi",
	"ur-PK": "Urdu",
}

// LanguageName returns the display name for a BCP 47 code, or the code itself.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

func personalityPrompt(id string) string {
	p, ok := personalities[id]
	if !ok {
		p = personalities["professional"]
	}
	return "Adopt a " + strings.ToLower(p.name) + " personality: " + p.description + "."
}

func expertisePrompt(id string) string {
	name, ok := expertiseAreas[id]
	if !ok {
		name = expertiseAreas["general"]
	}
	return "Focus your expertise on " + strings.ToLower(name) + " with specialized knowledge in this area."
}

func creativityPrompt(creativity float64) string {
	switch {
	case creativity >= 0.8:
		return "Be highly creative, innovative, and think outside the box with unique perspectives."
	case creativity >= 0.5:
		return "Balance creativity with practicality, offering both conventional and innovative solutions."
	}
	return "Focus on practical, proven approaches with structured, conventional advice."
}

func lengthVariant(length string) string {
	switch length {
	case "concise", "detailed":
		return length
	}
	return defaultVariant
}

// DescribeAttachment returns the text used as an attachment's content. Text
// files keep their content; documents that need parsing get a placeholder.
func DescribeAttachment(a models.Attachment) string {
	switch {
	case a.IsText():
		return a.Content
	case a.Type == "application/pdf":
		return "[PDF Document: " + a.Name + "] - Content extraction would be implemented here with a PDF parsing library."
	default:
		return "[Word Document: " + a.Name + "] - Content extraction would be implemented here with a document parsing library."
	}
}

func documentContext(attachments []models.Attachment) string {
	if len(attachments) == 0 {
		return ""
	}
	latest := attachments[len(attachments)-1]
	preview := []rune(DescribeAttachment(latest))
	if len(preview) > previewLength {
		preview = preview[:previewLength]
	}
	return fmt.Sprintf("Document Context: The user has uploaded %q (%s). Content preview: %s...", latest.Name, latest.Type, string(preview))
}

func historyContext(history []models.ChatTurn) string {
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	var lines []string
	for _, turn := range history {
		switch turn.Role {
		case "user":
			lines = append(lines, "User: "+turn.Content)
		case "mentor":
			lines = append(lines, "Mentor: "+turn.Content)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "Previous conversation context: " + strings.Join(lines, "\n")
}

// BuildChatPrompt renders the mentor prompt for one chat turn.
func BuildChatPrompt(pm *prompts.PromptManager, req models.ChatRequest) (string, error) {
	s := req.Settings
	guidance := strings.Join([]string{
		personalityPrompt(s.Personality),
		expertisePrompt(s.ExpertiseArea),
		creativityPrompt(s.Creativity),
	}, " ")
	return pm.BuildPrompt(prompts.ModeMentorChat, lengthVariant(s.ResponseLength), map[string]string{
		"Guidance": guidance,
		"Language": LanguageName(s.Language),
		"Document": documentContext(req.Attachments),
		"History":  historyContext(req.History),
		"Message":  req.Message,
	})
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

// BuildFeedbackPrompt renders the structured feedback prompt for a record.
func BuildFeedbackPrompt(pm *prompts.PromptManager, record models.InterviewRecord, speech models.SpeechAnalysis) (string, error) {
	transcript := record.SpeechText
	if strings.TrimSpace(transcript) == "" {
		transcript = "No speech transcript available"
	}
	return pm.BuildPrompt(prompts.ModeInterviewFeedback, "structured", map[string]string{
		"Role":             record.Role,
		"Category":         record.Category,
		"Duration":         strconv.Itoa(record.Duration),
		"Difficulty":       record.Difficulty,
		"QuestionsAsked":   joinOr(record.QuestionsAsked, "Standard questions"),
		"DynamicQuestions": joinOr(record.DynamicQuestions, "None"),
		"Transcript":       transcript,
		"WordCount":        strconv.Itoa(speech.WordCount),
		"SentenceCount":    strconv.Itoa(speech.SentenceCount),
		"TechnicalTerms":   strconv.Itoa(speech.TechnicalTermsUsed),
		"FillerWords":      strconv.Itoa(speech.FillerWordCount),
		"KeyTopics":        strings.Join(speech.KeyTopics, ", "),
		"SecurityScore":    strconv.Itoa(record.SecurityScoreOr(models.DefaultSecurityScore)),
		"Misconduct":       strconv.Itoa(len(record.Misconduct)),
		"Alerts":           strconv.Itoa(len(record.PlagiarismAlerts)),
	})
}

// Client talks to the language model on behalf of the mentor chat and the
// feedback generator.
type Client struct {
	provider llm.Provider
	prompts  *prompts.PromptManager
	logger   *zap.Logger
}

func NewClient(provider llm.Provider, pm *prompts.PromptManager, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{provider: provider, prompts: pm, logger: logger}
}

// Chat answers one mentor message. Provider failures are returned as
// *llm.ProviderError.
func (c *Client) Chat(ctx context.Context, req models.ChatRequest, apiKey string) (*models.ChatResponse, error) {
	prompt, err := BuildChatPrompt(c.prompts, req)
	if err != nil {
		return nil, err
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	opts := llm.ChatOptions()
	opts.APIKey = apiKey
	resp, err := c.provider.GenerateContent(ctx, prompt, requestID, opts)
	if err != nil {
		c.logger.Warn("Mentor chat failed", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	c.logger.Info("Mentor chat answered",
		zap.String("request_id", requestID),
		zap.String("personality", req.Settings.Personality),
		zap.Int("processing_ms", resp.Metadata.ProcessingTime))
	return &models.ChatResponse{
		Reply:     resp.Text,
		RequestID: requestID,
		Metadata:  resp.Metadata,
	}, nil
}

// InterviewFeedback asks the model for structured feedback and returns its raw text.
func (c *Client) InterviewFeedback(ctx context.Context, record models.InterviewRecord, speech models.SpeechAnalysis, apiKey string) (string, error) {
	prompt, err := BuildFeedbackPrompt(c.prompts, record, speech)
	if err != nil {
		return "", err
	}
	opts := llm.FeedbackOptions()
	opts.APIKey = apiKey
	resp, err := c.provider.GenerateContent(ctx, prompt, record.ID, opts)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
