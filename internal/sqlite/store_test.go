package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenWithConfig(Config{Path: filepath.Join(t.TempDir(), "shala_test.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedStudent(t *testing.T, store *Store, name string) *Student {
	t.Helper()
	student, err := store.InsertStudent(context.Background(), StudentDraft{Name: name}, "")
	if err != nil {
		t.Fatalf("insert student: %v", err)
	}
	return student
}

func TestStudentRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	draft := StudentDraft{
		Name:        "Ana",
		Email:       "ana@example.com",
		Phone:       "555-0101",
		Notes:       "prefers morning sessions",
		DateOfBirth: "1990-04-12",
		KnownIssues: "tight hamstrings",
		StartDate:   "2024-01-15",
	}
	created, err := store.InsertStudent(ctx, draft, "https://avatars.test/ana")
	if err != nil {
		t.Fatalf("insert student: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.CreatedAt == "" || created.UpdatedAt == "" {
		t.Fatal("expected writer-assigned timestamps")
	}

	fetched, err := store.GetStudent(ctx, created.ID)
	if err != nil {
		t.Fatalf("get student: %v", err)
	}
	if fetched.Name != draft.Name {
		t.Fatalf("name = %q, want %q", fetched.Name, draft.Name)
	}
	if fetched.Email == nil || *fetched.Email != draft.Email {
		t.Fatalf("email = %v, want %q", fetched.Email, draft.Email)
	}
	if fetched.KnownIssues == nil || *fetched.KnownIssues != draft.KnownIssues {
		t.Fatalf("knownIssues = %v, want %q", fetched.KnownIssues, draft.KnownIssues)
	}
	if fetched.AvatarURL == nil || *fetched.AvatarURL != "https://avatars.test/ana" {
		t.Fatalf("avatarUrl = %v", fetched.AvatarURL)
	}

	updated, err := store.UpdateStudent(ctx, created.ID, StudentDraft{Name: "Ana Maria", StartDate: "2024-02-01"})
	if err != nil {
		t.Fatalf("update student: %v", err)
	}
	if updated.Name != "Ana Maria" {
		t.Fatalf("name = %q after update", updated.Name)
	}
	if updated.Email != nil {
		t.Fatalf("email should be cleared, got %v", *updated.Email)
	}
	if updated.AvatarURL == nil {
		t.Fatal("avatar reference should survive edits")
	}

	if err := store.DeleteStudent(ctx, created.ID); err != nil {
		t.Fatalf("delete student: %v", err)
	}
	if _, err := store.GetStudent(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestEmptyStringsStoredAsNull(t *testing.T) {
	store := newTestStore(t)
	student, err := store.InsertStudent(context.Background(), StudentDraft{Name: "Bo", Email: "  "}, "")
	if err != nil {
		t.Fatalf("insert student: %v", err)
	}
	if student.Email != nil {
		t.Fatalf("blank email should persist as null, got %v", *student.Email)
	}
	if student.AvatarURL != nil {
		t.Fatalf("blank avatar should persist as null, got %v", *student.AvatarURL)
	}
}

func TestReplacePlanItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	plan, err := store.InsertPlan(ctx, PlanDraft{
		Title: "Morning Flow",
		Items: []PlanItemDraft{
			{PoseName: "Mountain", OrderIndex: 0, Duration: "2 min"},
			{PoseName: "Downward Dog", OrderIndex: 1},
			{PoseName: "Savasana", OrderIndex: 2, Notes: "close eyes"},
		},
	})
	if err != nil {
		t.Fatalf("insert plan: %v", err)
	}
	if len(plan.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(plan.Items))
	}

	replaced, err := store.ReplacePlan(ctx, plan.ID, PlanDraft{
		Title: "Morning Flow v2",
		Items: []PlanItemDraft{
			{PoseName: "Child's Pose", OrderIndex: 0},
			{PoseName: "Cobra", OrderIndex: 1},
		},
	})
	if err != nil {
		t.Fatalf("replace plan: %v", err)
	}
	if replaced.Title != "Morning Flow v2" {
		t.Fatalf("title = %q", replaced.Title)
	}
	if len(replaced.Items) != 2 {
		t.Fatalf("items = %d after replace, want 2", len(replaced.Items))
	}
	for i, item := range replaced.Items {
		if item.OrderIndex != int64(i) {
			t.Fatalf("item %d orderIndex = %d", i, item.OrderIndex)
		}
	}
	if replaced.Items[0].PoseName != "Child's Pose" || replaced.Items[1].PoseName != "Cobra" {
		t.Fatalf("unexpected item order: %q, %q", replaced.Items[0].PoseName, replaced.Items[1].PoseName)
	}

	// Replacing with an empty list leaves zero items.
	emptied, err := store.ReplacePlan(ctx, plan.ID, PlanDraft{Title: "Morning Flow v3"})
	if err != nil {
		t.Fatalf("replace plan with no items: %v", err)
	}
	if len(emptied.Items) != 0 {
		t.Fatalf("items = %d after emptying replace", len(emptied.Items))
	}
}

func TestDeleteStudentCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	student := seedStudent(t, store, "Cam")

	if _, err := store.InsertTimelineEntry(ctx, TimelineDraft{
		StudentID: student.ID, Type: EntryNote, Date: "2024-03-01", Content: "felt strong",
	}); err != nil {
		t.Fatalf("insert entry: %v", err)
	}
	if err := store.AppendTurn(ctx, student.ID, "hello", "hi there"); err != nil {
		t.Fatalf("append turn: %v", err)
	}

	if err := store.DeleteStudent(ctx, student.ID); err != nil {
		t.Fatalf("delete student: %v", err)
	}
	entries, err := store.ListTimeline(ctx, student.ID)
	if err != nil {
		t.Fatalf("list timeline: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("timeline entries = %d after cascade", len(entries))
	}
	messages, err := store.ListChat(ctx, student.ID)
	if err != nil {
		t.Fatalf("list chat: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("chat messages = %d after cascade", len(messages))
	}
}

func TestDeletePlanLeavesTimelineEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	student := seedStudent(t, store, "Dee")

	plan, err := store.InsertPlan(ctx, PlanDraft{
		Title: "Evening Wind Down",
		Items: []PlanItemDraft{{PoseName: "Savasana", OrderIndex: 0}},
	})
	if err != nil {
		t.Fatalf("insert plan: %v", err)
	}
	duration := int64(60)
	entry, err := store.InsertTimelineEntry(ctx, TimelineDraft{
		StudentID: student.ID, Type: EntryClass, Date: "2024-03-02",
		Duration: &duration, ClassPlanID: &plan.ID,
	})
	if err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	if err := store.DeletePlan(ctx, plan.ID); err != nil {
		t.Fatalf("delete plan: %v", err)
	}
	items, err := store.PlanItems(ctx, plan.ID)
	if err != nil {
		t.Fatalf("plan items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("plan items = %d after cascade", len(items))
	}

	entries, err := store.ListTimeline(ctx, student.ID)
	if err != nil {
		t.Fatalf("list timeline: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != entry.ID {
		t.Fatalf("timeline entry should survive plan deletion, got %d entries", len(entries))
	}
	if entries[0].ClassPlanID == nil || *entries[0].ClassPlanID != plan.ID {
		t.Fatal("weak plan reference should be preserved")
	}
}

func TestTimelineOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	student := seedStudent(t, store, "Eli")

	for _, date := range []string{"2024-01-02", "2024-03-01", "2024-02-10"} {
		if _, err := store.InsertTimelineEntry(ctx, TimelineDraft{
			StudentID: student.ID, Type: EntryNote, Date: date, Content: "note " + date,
		}); err != nil {
			t.Fatalf("insert entry: %v", err)
		}
	}
	entries, err := store.ListTimeline(ctx, student.ID)
	if err != nil {
		t.Fatalf("list timeline: %v", err)
	}
	want := []string{"2024-03-01", "2024-02-10", "2024-01-02"}
	for i, date := range want {
		if entries[i].Date != date {
			t.Fatalf("entry %d date = %q, want %q", i, entries[i].Date, date)
		}
	}

	recent, err := store.RecentTimeline(ctx, student.ID, 2)
	if err != nil {
		t.Fatalf("recent timeline: %v", err)
	}
	if len(recent) != 2 || recent[0].Date != "2024-03-01" {
		t.Fatalf("recent = %d entries, first %q", len(recent), recent[0].Date)
	}
}

func TestAppendTurnOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	student := seedStudent(t, store, "Flo")

	if err := store.AppendTurn(ctx, student.ID, "first question", "first answer"); err != nil {
		t.Fatalf("append turn: %v", err)
	}
	if err := store.AppendTurn(ctx, student.ID, "second question", "second answer"); err != nil {
		t.Fatalf("append turn: %v", err)
	}
	messages, err := store.ListChat(ctx, student.ID)
	if err != nil {
		t.Fatalf("list chat: %v", err)
	}
	if len(messages) != 4 {
		t.Fatalf("messages = %d, want 4", len(messages))
	}
	wantRoles := []string{RoleUser, RoleAssistant, RoleUser, RoleAssistant}
	for i, role := range wantRoles {
		if messages[i].Role != role {
			t.Fatalf("message %d role = %q, want %q", i, messages[i].Role, role)
		}
	}
	if messages[2].Content != "second question" {
		t.Fatalf("message 2 content = %q", messages[2].Content)
	}
}

func TestSettingsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	value, err := store.Setting(ctx, "gemini_api_key")
	if err != nil {
		t.Fatalf("get missing setting: %v", err)
	}
	if value != "" {
		t.Fatalf("missing setting = %q, want empty", value)
	}

	if err := store.UpsertSetting(ctx, "gemini_api_key", "abcd1234"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.UpsertSetting(ctx, "gemini_api_key", "wxyz9876"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, err = store.Setting(ctx, "gemini_api_key")
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if value != "wxyz9876" {
		t.Fatalf("setting = %q, want overwritten value", value)
	}
}

func TestImportAcceptsDanglingPlanReference(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	planID := int64(7)
	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: Now(),
		Students: []Student{{
			ID: 1, Name: "Ana", CreatedAt: Now(), UpdatedAt: Now(),
		}},
		TimelineEntries: []TimelineEntry{{
			ID: 1, StudentID: 1, Type: EntryClass, Date: "2024-03-02",
			ClassPlanID: &planID, CreatedAt: Now(), UpdatedAt: Now(),
		}},
	}
	if err := store.Import(ctx, snap); err != nil {
		t.Fatalf("import with dangling plan reference: %v", err)
	}
	entries, err := store.ListTimeline(ctx, 1)
	if err != nil {
		t.Fatalf("list timeline: %v", err)
	}
	if len(entries) != 1 || entries[0].ClassPlanID == nil || *entries[0].ClassPlanID != planID {
		t.Fatalf("dangling reference not preserved: %+v", entries)
	}
}

func TestImportRestoresSnapshotAndResetsSequence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	student := seedStudent(t, store, "Gia")
	if _, err := store.InsertTimelineEntry(ctx, TimelineDraft{
		StudentID: student.ID, Type: EntryNote, Date: "2024-04-01", Content: "imported note",
	}); err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	snap, err := store.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if snap.Version != SnapshotVersion || len(snap.Students) != 1 || len(snap.TimelineEntries) != 1 {
		t.Fatalf("unexpected snapshot shape: %+v", snap)
	}

	// Restore into a fresh store and verify ids survive.
	fresh := newTestStore(t)
	if err := fresh.Import(ctx, snap); err != nil {
		t.Fatalf("import: %v", err)
	}
	restored, err := fresh.GetStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("get restored student: %v", err)
	}
	if restored.Name != "Gia" {
		t.Fatalf("restored name = %q", restored.Name)
	}

	// The sequence was reset, so the next insert continues past the
	// restored max id instead of colliding.
	next, err := fresh.InsertStudent(ctx, StudentDraft{Name: "Hal"}, "")
	if err != nil {
		t.Fatalf("insert after import: %v", err)
	}
	if next.ID <= student.ID {
		t.Fatalf("next id = %d, want > %d", next.ID, student.ID)
	}
}
