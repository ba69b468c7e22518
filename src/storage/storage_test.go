package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomiclibrary/atom/src/tutor"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndListSession(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	session := tutor.NewSession()
	session.Turns = append(session.Turns, tutor.Turn{
		Content: "পানির সংকেত কী?",
		Role:    tutor.RoleUser,
		Image:   "data:image/png;base64,abc",
	})
	require.NoError(t, store.SaveSession(ctx, session))

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	got := sessions[0]
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.Title, got.Title)
	require.Len(t, got.Turns, 2)
	assert.Equal(t, tutor.RoleAssistant, got.Turns[0].Role)
	assert.Equal(t, "পানির সংকেত কী?", got.Turns[1].Content)
	assert.Equal(t, "data:image/png;base64,abc", got.Turns[1].Image)
	assert.NotEmpty(t, got.Turns[1].ID)
}

func TestSaveSessionReplacesTurns(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	session := tutor.NewSession()
	require.NoError(t, store.SaveSession(ctx, session))

	session.Title = "পানির সংকেত কী?..."
	session.Turns = append(session.Turns,
		tutor.Turn{Content: "পানির সংকেত কী?", Role: tutor.RoleUser},
		tutor.Turn{Content: "H2O", Role: tutor.RoleAssistant},
	)
	require.NoError(t, store.SaveSession(ctx, session))

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "পানির সংকেত কী?...", sessions[0].Title)
	require.Len(t, sessions[0].Turns, 3)
	assert.Equal(t, "H2O", sessions[0].Turns[2].Content)
}

func TestListSessionsOrderAndCap(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	var last *tutor.Session
	for i := 0; i < maxSessions+5; i++ {
		session := tutor.NewSession()
		session.Title = fmt.Sprintf("session %d", i)
		require.NoError(t, store.SaveSession(ctx, session))
		// keep updated_at strictly increasing across rows
		session.UpdatedAt = time.Now().Add(time.Duration(i) * time.Second)
		_, err := store.db.db.ExecContext(ctx,
			`UPDATE sessions SET updated_at = ? WHERE id = ?`, session.UpdatedAt, session.ID)
		require.NoError(t, err)
		last = session
	}

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, maxSessions)
	assert.Equal(t, last.ID, sessions[0].ID)
	for i := 1; i < len(sessions); i++ {
		assert.False(t, sessions[i].UpdatedAt.After(sessions[i-1].UpdatedAt))
	}
}

func TestSavePrunesOldestSessions(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	oldest := tutor.NewSession()
	require.NoError(t, store.SaveSession(ctx, oldest))
	_, err := store.db.db.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ? WHERE id = ?`,
		time.Now().Add(-time.Hour), oldest.ID)
	require.NoError(t, err)

	for i := 0; i < maxSessions; i++ {
		require.NoError(t, store.SaveSession(ctx, tutor.NewSession()))
	}

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, maxSessions)
	for _, s := range sessions {
		assert.NotEqual(t, oldest.ID, s.ID)
	}

	var orphans int
	row := store.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns WHERE session_id = ?`, oldest.ID)
	require.NoError(t, row.Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestSaveSurvivesNewerSessions(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	// Fill the store with sessions stamped ahead of wall clock, so every
	// one of them outranks a fresh save by updated_at.
	for i := 0; i < maxSessions; i++ {
		session := tutor.NewSession()
		require.NoError(t, store.SaveSession(ctx, session))
		_, err := store.db.db.ExecContext(ctx,
			`UPDATE sessions SET updated_at = ? WHERE id = ?`,
			time.Now().Add(time.Hour+time.Duration(i)*time.Second), session.ID)
		require.NoError(t, err)
	}

	saved := tutor.NewSession()
	require.NoError(t, store.SaveSession(ctx, saved))

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, maxSessions)

	found := false
	for _, s := range sessions {
		if s.ID == saved.ID {
			found = true
		}
	}
	assert.True(t, found, "the session just saved must survive pruning")

	var turns int
	row := store.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns WHERE session_id = ?`, saved.ID)
	require.NoError(t, row.Scan(&turns))
	assert.Equal(t, 1, turns)
}

func TestDeleteSession(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	session := tutor.NewSession()
	require.NoError(t, store.SaveSession(ctx, session))
	require.NoError(t, store.DeleteSession(ctx, session.ID))

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	assert.NoError(t, store.DeleteSession(ctx, "missing"))
}

func TestSessionsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.db")

	db, err := Open(path)
	require.NoError(t, err)
	store := NewStore(db)

	session := tutor.NewSession()
	session.Turns = append(session.Turns, tutor.Turn{Content: "hello", Role: tutor.RoleUser})
	require.NoError(t, store.SaveSession(context.Background(), session))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	sessions, err := NewStore(db).ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Turns, 2)
	assert.Equal(t, "hello", sessions[0].Turns[1].Content)
}
