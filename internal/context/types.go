package context

// StudentProfile is the core identity slice of the snapshot.
type StudentProfile struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Notes     *string `json:"notes"`
	StartDate *string `json:"startDate"`
}

// TimelineEvent is a timeline entry reduced to the raw fields a provider
// may see. Enrichment fields never travel into the context.
type TimelineEvent struct {
	Type     string  `json:"type"`
	Date     string  `json:"date"`
	Content  *string `json:"content"`
	Summary  *string `json:"summary"`
	Duration *int64  `json:"duration"`
}

// StudentContext is the bounded snapshot handed to an AI provider for
// one chat turn: profile, the most recent timeline entries and the full
// set of known class-plan titles.
type StudentContext struct {
	Student        StudentProfile  `json:"student"`
	RecentTimeline []TimelineEvent `json:"recentTimeline"`
	ClassPlanNames []string        `json:"classPlanNames"`
}
