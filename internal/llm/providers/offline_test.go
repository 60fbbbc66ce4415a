package providers

import (
	"context"
	"testing"

	ctxbuilder "github.com/shala-studio/shala/internal/context"
	"github.com/shala-studio/shala/internal/sqlite"
)

func strPtr(s string) *string { return &s }

func TestOfflineDigest(t *testing.T) {
	provider := NewOfflineProvider()
	snapshot := &ctxbuilder.StudentContext{
		Student: ctxbuilder.StudentProfile{
			ID:        1,
			Name:      "Ana",
			Notes:     strPtr("prefers morning sessions"),
			StartDate: strPtr("2024-01-15"),
		},
		RecentTimeline: []ctxbuilder.TimelineEvent{
			{Type: sqlite.EntryClass, Date: "2024-03-01"},
			{Type: sqlite.EntryClass, Date: "2024-02-20"},
			{Type: sqlite.EntryNote, Date: "2024-02-10"},
		},
	}
	reply, err := provider.Chat(context.Background(), []Message{{Role: sqlite.RoleUser, Content: "How is Ana doing?"}}, snapshot)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	want := "AI chat coming soon. Here's what I know about Ana: Started on 2024-01-15. Notes: prefers morning sessions. 2 recent classes. 1 recent note."
	if reply != want {
		t.Fatalf("digest = %q\nwant %q", reply, want)
	}
}

func TestOfflineDigestNoHistory(t *testing.T) {
	provider := NewOfflineProvider()
	snapshot := &ctxbuilder.StudentContext{
		Student: ctxbuilder.StudentProfile{ID: 2, Name: "Bo"},
	}
	reply, err := provider.Chat(context.Background(), nil, snapshot)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	want := "AI chat coming soon. Here's what I know about Bo: No history yet."
	if reply != want {
		t.Fatalf("digest = %q\nwant %q", reply, want)
	}
}

func TestOfflineDigestSingularClass(t *testing.T) {
	provider := NewOfflineProvider()
	snapshot := &ctxbuilder.StudentContext{
		Student: ctxbuilder.StudentProfile{ID: 3, Name: "Cam"},
		RecentTimeline: []ctxbuilder.TimelineEvent{
			{Type: sqlite.EntryClass, Date: "2024-03-01"},
		},
	}
	reply, err := provider.Chat(context.Background(), nil, snapshot)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	want := "AI chat coming soon. Here's what I know about Cam: 1 recent class."
	if reply != want {
		t.Fatalf("digest = %q\nwant %q", reply, want)
	}
}

func TestOfflineRequiresContext(t *testing.T) {
	provider := NewOfflineProvider()
	if _, err := provider.Chat(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error for nil snapshot")
	}
}
