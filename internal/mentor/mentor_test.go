package mentor

import (
	"context"
	"strings"
	"testing"

	"vocalhire/interview/internal/llm"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/prompts"
)

type mockProvider struct {
	generateFn func(ctx context.Context, prompt, requestID string, opts llm.GenerationOptions) (*models.GenerationResponse, error)
}

func (m *mockProvider) GenerateContent(ctx context.Context, prompt, requestID string, opts llm.GenerationOptions) (*models.GenerationResponse, error) {
	return m.generateFn(ctx, prompt, requestID, opts)
}

func (m *mockProvider) GetProviderName() string { return "mock" }

func newPromptManager(t *testing.T) *prompts.PromptManager {
	t.Helper()
	pm, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}
	return pm
}

func chatRequest() models.ChatRequest {
	return models.ChatRequest{
		Message: "How should I answer salary questions?",
		Settings: models.ChatSettings{
			Personality:    "supportive",
			Creativity:     0.6,
			ExpertiseArea:  "finance",
			ResponseLength: "detailed",
			Language:       "fr-FR",
		},
	}
}

func TestBuildChatPromptCombinesSettings(t *testing.T) {
	prompt, err := BuildChatPrompt(newPromptManager(t), chatRequest())
	if err != nil {
		t.Fatalf("BuildChatPrompt error: %v", err)
	}
	for _, want := range []string{
		"Adopt a supportive personality: Empathetic, understanding, nurturing.",
		"Focus your expertise on finance & banking with specialized knowledge in this area.",
		"Balance creativity with practicality",
		"(400-600 words)",
		"respond in French language",
		"User message: How should I answer salary questions?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "Previous conversation context") || strings.Contains(prompt, "Document Context") {
		t.Error("expected no history or document sections")
	}
}

func TestCreativityThresholds(t *testing.T) {
	tests := map[float64]string{
		0.8: "highly creative",
		0.5: "Balance creativity",
		0.2: "practical, proven approaches",
	}
	for level, want := range tests {
		if got := creativityPrompt(level); !strings.Contains(got, want) {
			t.Errorf("creativity %.1f: expected %q in %q", level, want, got)
		}
	}
}

func TestChatPromptKeepsLastSixTurns(t *testing.T) {
	req := chatRequest()
	for i := 0; i < 8; i++ {
		role := "user"
		if i%2 == 1 {
			role = "mentor"
		}
		req.History = append(req.History, models.ChatTurn{Role: role, Content: "turn-" + string(rune('a'+i))})
	}

	prompt, err := BuildChatPrompt(newPromptManager(t), req)
	if err != nil {
		t.Fatalf("BuildChatPrompt error: %v", err)
	}
	if strings.Contains(prompt, "turn-a") || strings.Contains(prompt, "turn-b") {
		t.Error("expected oldest turns to be dropped")
	}
	if !strings.Contains(prompt, "User: turn-c") || !strings.Contains(prompt, "Mentor: turn-h") {
		t.Errorf("expected recent turns in prompt: %s", prompt)
	}
}

func TestDocumentContextUsesLatestAttachment(t *testing.T) {
	req := chatRequest()
	req.Attachments = []models.Attachment{
		{Name: "old.txt", Type: "text/plain", Content: "old content"},
		{Name: "resume.txt", Type: "text/plain", Content: strings.Repeat("x", 600)},
	}
	prompt, err := BuildChatPrompt(newPromptManager(t), req)
	if err != nil {
		t.Fatalf("BuildChatPrompt error: %v", err)
	}
	if strings.Contains(prompt, "old content") {
		t.Error("expected only the latest attachment")
	}
	want := `Document Context: The user has uploaded "resume.txt" (text/plain). Content preview: ` + strings.Repeat("x", 500) + "..."
	if !strings.Contains(prompt, want) {
		t.Errorf("expected 500 character preview in prompt")
	}
}

func TestDescribeAttachment(t *testing.T) {
	pdf := DescribeAttachment(models.Attachment{Name: "cv.pdf", Type: "application/pdf"})
	if pdf != "[PDF Document: cv.pdf] - Content extraction would be implemented here with a PDF parsing library." {
		t.Fatalf("unexpected pdf description: %s", pdf)
	}
	doc := DescribeAttachment(models.Attachment{Name: "cv.docx", Type: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"})
	if !strings.HasPrefix(doc, "[Word Document: cv.docx]") {
		t.Fatalf("unexpected word description: %s", doc)
	}
	text := DescribeAttachment(models.Attachment{Name: "a.csv", Type: "text/csv", Content: "a,b"})
	if text != "a,b" {
		t.Fatalf("expected text content, got %s", text)
	}
}

func TestChatUsesChatOptionsAndKeyOverride(t *testing.T) {
	var gotOpts llm.GenerationOptions
	var gotID string
	provider := &mockProvider{
		generateFn: func(_ context.Context, prompt, requestID string, opts llm.GenerationOptions) (*models.GenerationResponse, error) {
			gotOpts, gotID = opts, requestID
			return &models.GenerationResponse{Text: "Use the STAR method.", RequestID: requestID}, nil
		},
	}
	client := NewClient(provider, newPromptManager(t), nil)

	req := chatRequest()
	req.RequestID = "req-7"
	resp, err := client.Chat(context.Background(), req, "user-key")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if resp.Reply != "Use the STAR method." || resp.RequestID != "req-7" || gotID != "req-7" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gotOpts.APIKey != "user-key" || gotOpts.Temperature != 0.9 || gotOpts.MaxOutputTokens != 2048 {
		t.Fatalf("unexpected options: %+v", gotOpts)
	}
}

func TestChatReturnsProviderError(t *testing.T) {
	provider := &mockProvider{
		generateFn: func(context.Context, string, string, llm.GenerationOptions) (*models.GenerationResponse, error) {
			return nil, &llm.ProviderError{Provider: "mock", Code: llm.ErrCodeRateLimit, Message: "slow down"}
		},
	}
	client := NewClient(provider, newPromptManager(t), nil)

	_, err := client.Chat(context.Background(), chatRequest(), "")
	perr, ok := err.(*llm.ProviderError)
	if !ok || perr.Code != llm.ErrCodeRateLimit {
		t.Fatalf("expected rate limit provider error, got %v", err)
	}
}

func TestInterviewFeedbackPrompt(t *testing.T) {
	var gotPrompt string
	var gotOpts llm.GenerationOptions
	provider := &mockProvider{
		generateFn: func(_ context.Context, prompt, _ string, opts llm.GenerationOptions) (*models.GenerationResponse, error) {
			gotPrompt, gotOpts = prompt, opts
			return &models.GenerationResponse{Text: `{"overallScore": 80}`}, nil
		},
	}
	client := NewClient(provider, newPromptManager(t), nil)

	record := models.InterviewRecord{
		ID:               "iv-1",
		Role:             "Product Manager",
		Category:         "Business",
		Duration:         20,
		Difficulty:       "hard",
		QuestionsAsked:   []string{"Q1", "Q2"},
		DynamicQuestions: nil,
		SpeechText:       "",
		Misconduct:       []string{"Copy operation detected at 01:00"},
	}
	speech := models.SpeechAnalysis{WordCount: 12, SentenceCount: 2, KeyTopics: []string{"roadmap", "users"}}

	text, err := client.InterviewFeedback(context.Background(), record, speech, "")
	if err != nil {
		t.Fatalf("InterviewFeedback error: %v", err)
	}
	if text != `{"overallScore": 80}` {
		t.Fatalf("expected raw text, got %s", text)
	}
	if gotOpts.Temperature != 0.7 || gotOpts.MaxOutputTokens != 3072 {
		t.Fatalf("expected feedback options, got %+v", gotOpts)
	}
	for _, want := range []string{
		"Product Manager position in Business",
		"Questions Asked: Q1, Q2",
		"Dynamic Questions: None",
		`"No speech transcript available"`,
		"Word Count: 12",
		"Key Topics: roadmap, users",
		"Security Score: 85%",
		"Misconduct Incidents: 1",
	} {
		if !strings.Contains(gotPrompt, want) {
			t.Errorf("feedback prompt missing %q", want)
		}
	}
}

func TestLanguageName(t *testing.T) {
	if LanguageName("ja-JP") != "Japanese" {
		t.Fatal("expected Japanese")
	}
	if LanguageName("xx-YY") != "xx-YY" {
		t.Fatal("expected unknown codes to pass through")
	}
}
