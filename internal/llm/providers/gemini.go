package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/shala-studio/shala/internal/common"
	ctxbuilder "github.com/shala-studio/shala/internal/context"
	"github.com/shala-studio/shala/internal/sqlite"
)

// GeminiProvider is the live language-model backend. The client is built
// per call from the stored credential; nothing is cached across turns.
type GeminiProvider struct {
	apiKey string
	model  string
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	model := os.Getenv("SHALA_GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Chat(ctx context.Context, history []Message, student *ctxbuilder.StudentContext) (string, error) {
	logger := common.Logger()
	if p.apiKey == "" {
		return "", fmt.Errorf("gemini api key required")
	}
	if len(history) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	if student == nil {
		return "", fmt.Errorf("student context required")
	}
	client, err := googleai.New(ctx, googleai.WithAPIKey(p.apiKey), googleai.WithDefaultModel(p.model))
	if err != nil {
		logger.Error("llm: gemini client init failed", "error", err)
		return "", fmt.Errorf("init gemini client: %w", err)
	}
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemInstruction(student)),
	}
	// Prior turns become conversation context; assistant maps to the
	// model role. The newest user message is the live turn.
	for _, msg := range history[:len(history)-1] {
		role := llms.ChatMessageTypeHuman
		if msg.Role == sqlite.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, history[len(history)-1].Content))

	logger.Debug("llm: sending gemini request", "model", p.model, "messages", len(messages))
	resp, err := client.GenerateContent(ctx, messages)
	if err != nil {
		logger.Error("llm: gemini request failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Content, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

// systemInstruction builds the single system preamble from the snapshot.
// Sections appear in fixed order and are omitted when their source data
// is absent.
func systemInstruction(student *ctxbuilder.StudentContext) string {
	lines := []string{
		"You are a helpful yoga teaching assistant. You help manage and plan yoga sessions for students.",
		fmt.Sprintf("Current student: %s", student.Student.Name),
	}
	if student.Student.Notes != nil && *student.Student.Notes != "" {
		lines = append(lines, fmt.Sprintf("Student notes: %s", *student.Student.Notes))
	}
	if student.Student.StartDate != nil && *student.Student.StartDate != "" {
		lines = append(lines, fmt.Sprintf("Started: %s", *student.Student.StartDate))
	}
	if len(student.RecentTimeline) > 0 {
		bullets := make([]string, 0, len(student.RecentTimeline))
		for _, event := range student.RecentTimeline {
			bullets = append(bullets, timelineBullet(event))
		}
		lines = append(lines, "Recent timeline:\n"+strings.Join(bullets, "\n"))
	}
	if len(student.ClassPlanNames) > 0 {
		lines = append(lines, fmt.Sprintf("Available class plans: %s", strings.Join(student.ClassPlanNames, ", ")))
	}
	return strings.Join(lines, "\n")
}

func timelineBullet(event ctxbuilder.TimelineEvent) string {
	detail := "no details"
	if event.Summary != nil && *event.Summary != "" {
		detail = *event.Summary
	} else if event.Content != nil && *event.Content != "" {
		detail = *event.Content
	}
	line := fmt.Sprintf("- [%s] %s: %s", event.Type, event.Date, detail)
	if event.Duration != nil && *event.Duration > 0 {
		line += fmt.Sprintf(" (%d min)", *event.Duration)
	}
	return line
}
