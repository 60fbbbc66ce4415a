package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// SnapshotVersion identifies the export file format.
const SnapshotVersion = 1

// Snapshot is a full dump of the studio data. Settings are deliberately
// excluded so the stored credential never leaves the database.
type Snapshot struct {
	Version         int             `json:"version"`
	ExportedAt      string          `json:"exportedAt"`
	Students        []Student       `json:"students"`
	ClassPlans      []ClassPlan     `json:"classPlans"`
	ClassPlanItems  []ClassPlanItem `json:"classPlanItems"`
	TimelineEntries []TimelineEntry `json:"timelineEntries"`
	ChatMessages    []ChatMessage   `json:"chatMessages"`
}

// Export dumps every table into a Snapshot.
func (s *Store) Export(ctx context.Context) (*Snapshot, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	snap := &Snapshot{Version: SnapshotVersion, ExportedAt: Now()}
	if err := s.db.SelectContext(ctx, &snap.Students, `SELECT * FROM students ORDER BY id`); err != nil {
		return nil, fmt.Errorf("export students: %w", err)
	}
	if err := s.db.SelectContext(ctx, &snap.ClassPlans, `SELECT * FROM class_plans ORDER BY id`); err != nil {
		return nil, fmt.Errorf("export plans: %w", err)
	}
	if err := s.db.SelectContext(ctx, &snap.ClassPlanItems, `SELECT * FROM class_plan_items ORDER BY id`); err != nil {
		return nil, fmt.Errorf("export plan items: %w", err)
	}
	if err := s.db.SelectContext(ctx, &snap.TimelineEntries, `SELECT * FROM timeline_entries ORDER BY id`); err != nil {
		return nil, fmt.Errorf("export timeline: %w", err)
	}
	if err := s.db.SelectContext(ctx, &snap.ChatMessages, `SELECT * FROM chat_messages ORDER BY id`); err != nil {
		return nil, fmt.Errorf("export chat: %w", err)
	}
	return snap, nil
}

// Import wipes the current data and restores the snapshot, preserving the
// exported row ids. The autoincrement sequence is reset so new ids do not
// collide with restored ones.
func (s *Store) Import(ctx context.Context, snap *Snapshot) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	if snap == nil {
		return errors.New("snapshot required")
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		// Delete child tables first to respect foreign keys.
		for _, table := range []string{"chat_messages", "timeline_entries", "class_plan_items", "class_plans", "students"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for _, student := range snap.Students {
			if _, err := tx.ExecContext(ctx, `INSERT INTO students
                                (id, name, email, phone, notes, date_of_birth, known_issues, avatar_url, start_date, created_at, updated_at)
                                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				student.ID, student.Name, student.Email, student.Phone, student.Notes,
				student.DateOfBirth, student.KnownIssues, student.AvatarURL, student.StartDate,
				student.CreatedAt, student.UpdatedAt); err != nil {
				return fmt.Errorf("restore student %d: %w", student.ID, err)
			}
		}
		for _, plan := range snap.ClassPlans {
			if _, err := tx.ExecContext(ctx, `INSERT INTO class_plans (id, title, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
				plan.ID, plan.Title, plan.Description, plan.CreatedAt, plan.UpdatedAt); err != nil {
				return fmt.Errorf("restore plan %d: %w", plan.ID, err)
			}
		}
		for _, item := range snap.ClassPlanItems {
			if _, err := tx.ExecContext(ctx, `INSERT INTO class_plan_items (id, plan_id, order_index, pose_name, duration, notes) VALUES (?, ?, ?, ?, ?, ?)`,
				item.ID, item.PlanID, item.OrderIndex, item.PoseName, item.Duration, item.Notes); err != nil {
				return fmt.Errorf("restore plan item %d: %w", item.ID, err)
			}
		}
		for _, entry := range snap.TimelineEntries {
			if _, err := tx.ExecContext(ctx, `INSERT INTO timeline_entries
                                (id, student_id, type, date, content, duration, class_plan_id, summary, created_at, updated_at)
                                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				entry.ID, entry.StudentID, entry.Type, entry.Date, entry.Content, entry.Duration,
				entry.ClassPlanID, entry.Summary, entry.CreatedAt, entry.UpdatedAt); err != nil {
				return fmt.Errorf("restore timeline entry %d: %w", entry.ID, err)
			}
		}
		for _, msg := range snap.ChatMessages {
			if _, err := tx.ExecContext(ctx, `INSERT INTO chat_messages (id, student_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
				msg.ID, msg.StudentID, msg.Role, msg.Content, msg.CreatedAt); err != nil {
				return fmt.Errorf("restore chat message %d: %w", msg.ID, err)
			}
		}
		// sqlite_sequence only exists once an autoincrement insert has
		// happened; a restore into a fresh database has nothing to reset.
		if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence`); err != nil && !strings.Contains(err.Error(), "no such table") {
			return fmt.Errorf("reset sequence: %w", err)
		}
		return nil
	})
}
