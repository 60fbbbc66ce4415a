package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ListChat returns a student's conversation ordered by creation time.
func (s *Store) ListChat(ctx context.Context, studentID int64) ([]ChatMessage, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	messages := []ChatMessage{}
	if err := s.db.SelectContext(ctx, &messages, `SELECT * FROM chat_messages
                WHERE student_id = ? ORDER BY created_at, id`, studentID); err != nil {
		return nil, fmt.Errorf("select chat messages: %w", err)
	}
	return messages, nil
}

// AppendTurn persists a user message and the assistant reply in that
// order within one transaction. A chat turn is only written once the
// provider call has succeeded, so a failed call leaves no orphaned user
// message behind.
func (s *Store) AppendTurn(ctx context.Context, studentID int64, userContent, assistantContent string) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		now := Now()
		if _, err := tx.ExecContext(ctx, `INSERT INTO chat_messages (student_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
			studentID, RoleUser, userContent, now); err != nil {
			return fmt.Errorf("insert user message: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO chat_messages (student_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
			studentID, RoleAssistant, assistantContent, now); err != nil {
			return fmt.Errorf("insert assistant message: %w", err)
		}
		return nil
	})
}
