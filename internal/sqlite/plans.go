package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ListPlans returns every class plan, newest first, without items.
func (s *Store) ListPlans(ctx context.Context) ([]ClassPlan, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	plans := []ClassPlan{}
	if err := s.db.SelectContext(ctx, &plans, `SELECT * FROM class_plans ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("select plans: %w", err)
	}
	return plans, nil
}

// ListPlanTitles returns the distinct titles of every class plan.
func (s *Store) ListPlanTitles(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	titles := []string{}
	if err := s.db.SelectContext(ctx, &titles, `SELECT DISTINCT title FROM class_plans ORDER BY title`); err != nil {
		return nil, fmt.Errorf("select plan titles: %w", err)
	}
	return titles, nil
}

// GetPlan retrieves a plan with its items ordered by order_index.
func (s *Store) GetPlan(ctx context.Context, id int64) (*ClassPlan, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var plan ClassPlan
	if err := s.db.GetContext(ctx, &plan, `SELECT * FROM class_plans WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select plan: %w", err)
	}
	items, err := s.PlanItems(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Items = items
	return &plan, nil
}

// PlanItems returns the items of a plan sorted by order_index ascending.
func (s *Store) PlanItems(ctx context.Context, planID int64) ([]ClassPlanItem, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	items := []ClassPlanItem{}
	if err := s.db.SelectContext(ctx, &items, `SELECT * FROM class_plan_items WHERE plan_id = ? ORDER BY order_index, id`, planID); err != nil {
		return nil, fmt.Errorf("select plan items: %w", err)
	}
	return items, nil
}

// InsertPlan creates a plan and its items in one transaction and returns
// the stored plan with items attached.
func (s *Store) InsertPlan(ctx context.Context, draft PlanDraft) (*ClassPlan, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var planID int64
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		now := Now()
		res, err := tx.ExecContext(ctx, `INSERT INTO class_plans (title, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			draft.Title, nullIfEmpty(draft.Description), now, now)
		if err != nil {
			return fmt.Errorf("insert plan: %w", err)
		}
		planID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("plan id: %w", err)
		}
		return insertPlanItems(ctx, tx, planID, draft.Items)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPlan(ctx, planID)
}

// ReplacePlan updates a plan's fields and replaces its entire item list
// in a single transaction, so a reader never observes a transiently
// empty list. Item ids are re-derived on every replace.
func (s *Store) ReplacePlan(ctx context.Context, id int64, draft PlanDraft) (*ClassPlan, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE class_plans SET title = ?, description = ?, updated_at = ? WHERE id = ?`,
			draft.Title, nullIfEmpty(draft.Description), Now(), id)
		if err != nil {
			return fmt.Errorf("update plan: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update plan rows: %w", err)
		}
		if affected == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM class_plan_items WHERE plan_id = ?`, id); err != nil {
			return fmt.Errorf("clear plan items: %w", err)
		}
		return insertPlanItems(ctx, tx, id, draft.Items)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPlan(ctx, id)
}

// DeletePlan removes a plan. Its items cascade; timeline entries that
// reference the plan are left untouched.
func (s *Store) DeletePlan(ctx context.Context, id int64) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM class_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete plan rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func insertPlanItems(ctx context.Context, tx *sqlx.Tx, planID int64, items []PlanItemDraft) error {
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `INSERT INTO class_plan_items (plan_id, order_index, pose_name, duration, notes) VALUES (?, ?, ?, ?, ?)`,
			planID, item.OrderIndex, item.PoseName, nullIfEmpty(item.Duration), nullIfEmpty(item.Notes)); err != nil {
			return fmt.Errorf("insert plan item: %w", err)
		}
	}
	return nil
}
