package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListTimeline returns a student's timeline entries ordered by date
// descending, then creation time descending.
func (s *Store) ListTimeline(ctx context.Context, studentID int64) ([]TimelineEntry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	entries := []TimelineEntry{}
	if err := s.db.SelectContext(ctx, &entries, `SELECT * FROM timeline_entries
                WHERE student_id = ? ORDER BY date DESC, created_at DESC, id DESC`, studentID); err != nil {
		return nil, fmt.Errorf("select timeline: %w", err)
	}
	return entries, nil
}

// RecentTimeline returns the newest entries for a student by date
// descending, capped at limit.
func (s *Store) RecentTimeline(ctx context.Context, studentID int64, limit int) ([]TimelineEntry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	entries := []TimelineEntry{}
	if err := s.db.SelectContext(ctx, &entries, `SELECT * FROM timeline_entries
                WHERE student_id = ? ORDER BY date DESC, created_at DESC, id DESC LIMIT ?`, studentID, limit); err != nil {
		return nil, fmt.Errorf("select recent timeline: %w", err)
	}
	return entries, nil
}

// InsertTimelineEntry creates one entry and returns the stored row.
func (s *Store) InsertTimelineEntry(ctx context.Context, draft TimelineDraft) (*TimelineEntry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	now := Now()
	res, err := s.db.ExecContext(ctx, `INSERT INTO timeline_entries
                (student_id, type, date, content, duration, class_plan_id, summary, created_at, updated_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.StudentID, draft.Type, draft.Date,
		nullIfEmpty(draft.Content), draft.Duration, draft.ClassPlanID, nullIfEmpty(draft.Summary),
		now, now)
	if err != nil {
		return nil, fmt.Errorf("insert timeline entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("timeline entry id: %w", err)
	}
	return s.getTimelineEntry(ctx, id)
}

// UpdateTimelineEntry replaces the mutable fields of an entry.
func (s *Store) UpdateTimelineEntry(ctx context.Context, id int64, draft TimelineDraft) (*TimelineEntry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE timeline_entries SET
                type = ?, date = ?, content = ?, duration = ?, class_plan_id = ?, summary = ?, updated_at = ?
                WHERE id = ?`,
		draft.Type, draft.Date,
		nullIfEmpty(draft.Content), draft.Duration, draft.ClassPlanID, nullIfEmpty(draft.Summary),
		Now(), id)
	if err != nil {
		return nil, fmt.Errorf("update timeline entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update timeline rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.getTimelineEntry(ctx, id)
}

// DeleteTimelineEntry removes one entry.
func (s *Store) DeleteTimelineEntry(ctx context.Context, id int64) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM timeline_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete timeline entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete timeline rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) getTimelineEntry(ctx context.Context, id int64) (*TimelineEntry, error) {
	var entry TimelineEntry
	if err := s.db.GetContext(ctx, &entry, `SELECT * FROM timeline_entries WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select timeline entry: %w", err)
	}
	return &entry, nil
}
