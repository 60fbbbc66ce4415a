package providers

import (
	"context"
	"fmt"
	"strings"

	ctxbuilder "github.com/shala-studio/shala/internal/context"
	"github.com/shala-studio/shala/internal/sqlite"
)

// Message is one conversation turn handed to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider answers a chat turn from the full conversation history and
// the student snapshot.
type Provider interface {
	Chat(ctx context.Context, history []Message, student *ctxbuilder.StudentContext) (string, error)
	Name() string
}

// OfflineProvider is the no-credential fallback. It derives a short
// deterministic digest from the snapshot alone and ignores the
// conversation content entirely.
type OfflineProvider struct{}

func NewOfflineProvider() *OfflineProvider {
	return &OfflineProvider{}
}

func (p *OfflineProvider) Chat(ctx context.Context, history []Message, student *ctxbuilder.StudentContext) (string, error) {
	if student == nil {
		return "", fmt.Errorf("student context required")
	}
	var parts []string
	if student.Student.StartDate != nil && *student.Student.StartDate != "" {
		parts = append(parts, fmt.Sprintf("Started on %s", *student.Student.StartDate))
	}
	if student.Student.Notes != nil && *student.Student.Notes != "" {
		parts = append(parts, fmt.Sprintf("Notes: %s", *student.Student.Notes))
	}
	var classCount, noteCount int
	for _, event := range student.RecentTimeline {
		switch event.Type {
		case sqlite.EntryClass:
			classCount++
		case sqlite.EntryNote:
			noteCount++
		}
	}
	if classCount > 0 {
		parts = append(parts, fmt.Sprintf("%d recent %s", classCount, plural(classCount, "class", "classes")))
	}
	if noteCount > 0 {
		parts = append(parts, fmt.Sprintf("%d recent %s", noteCount, plural(noteCount, "note", "notes")))
	}
	summary := "No history yet."
	if len(parts) > 0 {
		summary = strings.Join(parts, ". ") + "."
	}
	return fmt.Sprintf("AI chat coming soon. Here's what I know about %s: %s", student.Student.Name, summary), nil
}

func (p *OfflineProvider) Name() string {
	return "offline"
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
