package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListStudents returns every student, newest first.
func (s *Store) ListStudents(ctx context.Context) ([]Student, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	students := []Student{}
	if err := s.db.SelectContext(ctx, &students, `SELECT * FROM students ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("select students: %w", err)
	}
	return students, nil
}

// GetStudent retrieves a single student by id.
func (s *Store) GetStudent(ctx context.Context, id int64) (*Student, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var student Student
	if err := s.db.GetContext(ctx, &student, `SELECT * FROM students WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select student: %w", err)
	}
	return &student, nil
}

// InsertStudent creates a student and returns the stored row.
func (s *Store) InsertStudent(ctx context.Context, draft StudentDraft, avatarURL string) (*Student, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	now := Now()
	res, err := s.db.ExecContext(ctx, `INSERT INTO students
                (name, email, phone, notes, date_of_birth, known_issues, avatar_url, start_date, created_at, updated_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.Name,
		nullIfEmpty(draft.Email),
		nullIfEmpty(draft.Phone),
		nullIfEmpty(draft.Notes),
		nullIfEmpty(draft.DateOfBirth),
		nullIfEmpty(draft.KnownIssues),
		nullIfEmpty(avatarURL),
		nullIfEmpty(draft.StartDate),
		now, now)
	if err != nil {
		return nil, fmt.Errorf("insert student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("student id: %w", err)
	}
	return s.GetStudent(ctx, id)
}

// UpdateStudent replaces the mutable fields of a student. The generated
// avatar reference is preserved.
func (s *Store) UpdateStudent(ctx context.Context, id int64, draft StudentDraft) (*Student, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE students SET
                name = ?, email = ?, phone = ?, notes = ?, date_of_birth = ?, known_issues = ?, start_date = ?, updated_at = ?
                WHERE id = ?`,
		draft.Name,
		nullIfEmpty(draft.Email),
		nullIfEmpty(draft.Phone),
		nullIfEmpty(draft.Notes),
		nullIfEmpty(draft.DateOfBirth),
		nullIfEmpty(draft.KnownIssues),
		nullIfEmpty(draft.StartDate),
		Now(), id)
	if err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update student rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetStudent(ctx, id)
}

// DeleteStudent removes a student. Timeline entries and chat messages
// cascade at the schema level.
func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
