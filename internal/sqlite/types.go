package sqlite

// Student is one student row. Optional profile fields are pointers so a
// missing value round-trips as JSON null, matching the export format.
type Student struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Email       *string `db:"email" json:"email"`
	Phone       *string `db:"phone" json:"phone"`
	Notes       *string `db:"notes" json:"notes"`
	DateOfBirth *string `db:"date_of_birth" json:"dateOfBirth"`
	KnownIssues *string `db:"known_issues" json:"knownIssues"`
	AvatarURL   *string `db:"avatar_url" json:"avatarUrl"`
	StartDate   *string `db:"start_date" json:"startDate"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt"`
}

// ClassPlan is a reusable, ordered sequence of poses. Items are loaded
// separately and attached on the detail paths.
type ClassPlan struct {
	ID          int64           `db:"id" json:"id"`
	Title       string          `db:"title" json:"title"`
	Description *string         `db:"description" json:"description"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	UpdatedAt   string          `db:"updated_at" json:"updatedAt"`
	Items       []ClassPlanItem `db:"-" json:"items,omitempty"`
}

type ClassPlanItem struct {
	ID         int64   `db:"id" json:"id"`
	PlanID     int64   `db:"plan_id" json:"planId"`
	OrderIndex int64   `db:"order_index" json:"orderIndex"`
	PoseName   string  `db:"pose_name" json:"poseName"`
	Duration   *string `db:"duration" json:"duration"`
	Notes      *string `db:"notes" json:"notes"`
}

// TimelineEntry is one dated record in a student's history. Content is
// meaningful for note and plan_attachment entries; duration, summary and
// the plan reference are meaningful for class entries. The plan reference
// is weak: deleting a plan leaves referencing entries in place.
type TimelineEntry struct {
	ID          int64   `db:"id" json:"id"`
	StudentID   int64   `db:"student_id" json:"studentId"`
	Type        string  `db:"type" json:"type"`
	Date        string  `db:"date" json:"date"`
	Content     *string `db:"content" json:"content"`
	Duration    *int64  `db:"duration" json:"duration"`
	ClassPlanID *int64  `db:"class_plan_id" json:"classPlanId"`
	Summary     *string `db:"summary" json:"summary"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt"`
}

// Timeline entry kinds.
const (
	EntryNote           = "note"
	EntryClass          = "class"
	EntryPlanAttachment = "plan_attachment"
)

// ChatMessage is one turn in a student's conversation. Append-only.
type ChatMessage struct {
	ID        int64  `db:"id" json:"id"`
	StudentID int64  `db:"student_id" json:"studentId"`
	Role      string `db:"role" json:"role"`
	Content   string `db:"content" json:"content"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Setting struct {
	Key       string `db:"key" json:"key"`
	Value     string `db:"value" json:"value"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

// StudentDraft carries the mutable student fields submitted by a caller.
// Empty strings are treated as absent and stored as NULL.
type StudentDraft struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes"`
	DateOfBirth string `json:"dateOfBirth"`
	KnownIssues string `json:"knownIssues"`
	StartDate   string `json:"startDate"`
}

type PlanItemDraft struct {
	PoseName   string `json:"poseName"`
	Duration   string `json:"duration"`
	Notes      string `json:"notes"`
	OrderIndex int64  `json:"orderIndex"`
}

type PlanDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Items       []PlanItemDraft `json:"items"`
}

type TimelineDraft struct {
	StudentID   int64  `json:"studentId"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Content     string `json:"content"`
	Duration    *int64 `json:"duration"`
	ClassPlanID *int64 `json:"classPlanId"`
	Summary     string `json:"summary"`
}

type ChatDraft struct {
	StudentID int64  `json:"studentId"`
	Content   string `json:"content"`
}

type SettingDraft struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
