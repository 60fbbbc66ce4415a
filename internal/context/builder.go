// Package context assembles the bounded student snapshot used as
// conversational grounding for the AI providers.
package context

import (
	"context"
	"errors"
	"fmt"

	"github.com/shala-studio/shala/internal/sqlite"
)

// RecentEntryLimit caps how many timeline entries enter the snapshot.
// The cap is deliberate and not configurable per call; it bounds prompt
// size and cost.
const RecentEntryLimit = 20

// Source is the slice of the store the builder reads from.
type Source interface {
	RecentTimeline(ctx context.Context, studentID int64, limit int) ([]sqlite.TimelineEntry, error)
	ListPlanTitles(ctx context.Context) ([]string, error)
}

// Builder produces StudentContext snapshots. It performs no mutation and
// no caching: every chat turn recomputes the snapshot so the provider
// sees current state.
type Builder struct {
	source Source
}

func NewBuilder(source Source) (*Builder, error) {
	if source == nil {
		return nil, errors.New("context source required")
	}
	return &Builder{source: source}, nil
}

// Build assembles the snapshot for one student. Plan titles are the full
// set known to the studio, not scoped to the student.
func (b *Builder) Build(ctx context.Context, student *sqlite.Student) (*StudentContext, error) {
	if student == nil {
		return nil, errors.New("student required")
	}
	entries, err := b.source.RecentTimeline(ctx, student.ID, RecentEntryLimit)
	if err != nil {
		return nil, fmt.Errorf("recent timeline: %w", err)
	}
	titles, err := b.source.ListPlanTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan titles: %w", err)
	}
	events := make([]TimelineEvent, 0, len(entries))
	for _, entry := range entries {
		events = append(events, TimelineEvent{
			Type:     entry.Type,
			Date:     entry.Date,
			Content:  entry.Content,
			Summary:  entry.Summary,
			Duration: entry.Duration,
		})
	}
	return &StudentContext{
		Student: StudentProfile{
			ID:        student.ID,
			Name:      student.Name,
			Notes:     student.Notes,
			StartDate: student.StartDate,
		},
		RecentTimeline: events,
		ClassPlanNames: titles,
	}, nil
}
