package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/atomiclibrary/atom/src/tutor"
)

// maxSessions caps how many sessions survive a save. Older sessions are
// pruned by updated_at.
const maxSessions = 50

// Store persists sessions through a sqlite DB.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// SaveSession upserts the session row and replaces its turns, then prunes
// sessions beyond the retention cap.
func (s *Store) SaveSession(ctx context.Context, session *tutor.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	session.UpdatedAt = time.Now()

	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO sessions (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`
	if _, err := tx.ExecContext(ctx, query, session.ID, session.Title, session.CreatedAt, session.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}

	for i, turn := range session.Turns {
		if turn.ID == "" {
			turn.ID = uuid.New().String()
			session.Turns[i].ID = turn.ID
		}
		if turn.CreatedAt.IsZero() {
			turn.CreatedAt = time.Now()
			session.Turns[i].CreatedAt = turn.CreatedAt
		}
		insert := `INSERT INTO turns (id, session_id, role, content, image, position, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, insert, turn.ID, session.ID, string(turn.Role), turn.Content, turn.Image, i, turn.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}
	}

	if err := pruneSessions(ctx, tx, session.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// ListSessions returns the retained sessions most recently updated first,
// each with its turns in order.
func (s *Store) ListSessions(ctx context.Context) ([]*tutor.Session, error) {
	query := `SELECT id, title, created_at, updated_at FROM sessions ORDER BY updated_at DESC LIMIT ?`
	var rows []sessionRow
	if err := sqlscan.Select(ctx, s.db.db, &rows, query, maxSessions); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*tutor.Session, 0, len(rows))
	for _, row := range rows {
		turns, err := s.sessionTurns(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, &tutor.Session{
			ID:        row.ID,
			Title:     row.Title,
			Turns:     turns,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return sessions, nil
}

// DeleteSession removes a session and its turns. Deleting an unknown id is
// not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete turns: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return tx.Commit()
}

func (s *Store) sessionTurns(ctx context.Context, sessionID string) ([]tutor.Turn, error) {
	query := `SELECT id, session_id, role, content, image, position, created_at FROM turns WHERE session_id = ? ORDER BY position`
	var rows []turnRow
	if err := sqlscan.Select(ctx, s.db.db, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}

	turns := make([]tutor.Turn, 0, len(rows))
	for _, row := range rows {
		turns = append(turns, tutor.Turn{
			ID:        row.ID,
			Content:   row.Content,
			Role:      tutor.TurnRole(row.Role),
			CreatedAt: row.CreatedAt,
			Image:     row.Image,
		})
	}
	return turns, nil
}

// pruneSessions keeps the session just saved plus the newest maxSessions-1
// others, so a save can never evict its own session even when older rows
// carry later updated_at stamps.
func pruneSessions(ctx context.Context, tx Execer, currentID string) error {
	keep := `SELECT id FROM sessions WHERE id != ? ORDER BY updated_at DESC LIMIT ?`
	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE session_id != ? AND session_id NOT IN (`+keep+`)`, currentID, currentID, maxSessions-1); err != nil {
		return fmt.Errorf("failed to prune turns: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id != ? AND id NOT IN (`+keep+`)`, currentID, currentID, maxSessions-1); err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}
	return nil
}
