// Package validate holds the schema contracts for every mutable entity.
// Each contract returns a field-level error map; an empty map means the
// input is acceptable and may reach the store.
package validate

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/shala-studio/shala/internal/sqlite"
)

// Fields maps a field name to the validation messages raised for it.
type Fields map[string][]string

// OK reports whether the contract passed.
func (f Fields) OK() bool { return len(f) == 0 }

func (f Fields) add(field, message string) {
	f[field] = append(f[field], message)
}

// Student checks a student draft. Name is required; email, when present,
// must be a syntactically valid address. Everything else is optional.
func Student(draft sqlite.StudentDraft) Fields {
	fields := Fields{}
	if strings.TrimSpace(draft.Name) == "" {
		fields.add("name", "Name is required")
	}
	if email := strings.TrimSpace(draft.Email); email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			fields.add("email", "Invalid email address")
		}
	}
	return fields
}

// TimelineEntry checks a timeline draft against the variant contract.
func TimelineEntry(draft sqlite.TimelineDraft) Fields {
	fields := Fields{}
	if draft.StudentID <= 0 {
		fields.add("studentId", "Student id must be a positive integer")
	}
	switch draft.Type {
	case sqlite.EntryNote, sqlite.EntryClass, sqlite.EntryPlanAttachment:
	default:
		fields.add("type", "Type must be one of note, class, plan_attachment")
	}
	if strings.TrimSpace(draft.Date) == "" {
		fields.add("date", "Date is required")
	}
	if draft.Duration != nil && *draft.Duration <= 0 {
		fields.add("duration", "Duration must be a positive integer")
	}
	if draft.ClassPlanID != nil && *draft.ClassPlanID <= 0 {
		fields.add("classPlanId", "Class plan id must be a positive integer")
	}
	return fields
}

// ClassPlan checks a plan draft, including every submitted item.
func ClassPlan(draft sqlite.PlanDraft) Fields {
	fields := Fields{}
	if strings.TrimSpace(draft.Title) == "" {
		fields.add("title", "Title is required")
	}
	for i, item := range draft.Items {
		if strings.TrimSpace(item.PoseName) == "" {
			fields.add(fmt.Sprintf("items[%d].poseName", i), "Pose name is required")
		}
		if item.OrderIndex < 0 {
			fields.add(fmt.Sprintf("items[%d].orderIndex", i), "Order index must be zero or greater")
		}
	}
	return fields
}

// ChatMessage checks an inbound chat turn.
func ChatMessage(draft sqlite.ChatDraft) Fields {
	fields := Fields{}
	if draft.StudentID <= 0 {
		fields.add("studentId", "Student id must be a positive integer")
	}
	if strings.TrimSpace(draft.Content) == "" {
		fields.add("content", "Message is required")
	}
	return fields
}

// Setting checks a settings upsert. An empty value is allowed; writing
// one clears the stored credential.
func Setting(draft sqlite.SettingDraft) Fields {
	fields := Fields{}
	if strings.TrimSpace(draft.Key) == "" {
		fields.add("key", "Key is required")
	}
	return fields
}
