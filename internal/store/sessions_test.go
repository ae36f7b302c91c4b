package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazraati/assistant-platform/internal/model"
)

func TestSessionCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	sess := &model.Session{
		UserID:      "user-1",
		Audience:    model.AudienceInvestor,
		CurrentPage: "portfolio",
		Language:    "ar",
	}
	require.NoError(t, repo.Create(ctx, sess))
	require.NotEmpty(t, sess.ID)
	assert.True(t, sess.Active)

	got, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, model.AudienceInvestor, got.Audience)
	assert.Equal(t, "portfolio", got.CurrentPage)
	assert.True(t, got.Active)
}

func TestSessionGetNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	_, err := repo.Get(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionFindByFingerprintMostRecentActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	old := &model.Session{Fingerprint: "anon-abc", Audience: model.AudienceVisitor}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Deactivate(ctx, old.ID))

	current := &model.Session{Fingerprint: "anon-abc", Audience: model.AudienceVisitor}
	require.NoError(t, repo.Create(ctx, current))

	got, err := repo.FindByFingerprint(ctx, "anon-abc")
	require.NoError(t, err)
	assert.Equal(t, current.ID, got.ID)

	_, err = repo.FindByFingerprint(ctx, "anon-unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionTouchUpdatesActivityAndPage(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	sess := &model.Session{Fingerprint: "anon-x", Audience: model.AudienceVisitor, CurrentPage: "home"}
	require.NoError(t, repo.Create(ctx, sess))

	require.NoError(t, repo.Touch(ctx, sess.ID, "farms"))

	got, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "farms", got.CurrentPage)
	assert.False(t, got.LastActivityAt.Before(sess.LastActivityAt))
}

func TestSessionDeactivatePreservesRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	sess := &model.Session{Fingerprint: "anon-y", Audience: model.AudienceVisitor}
	require.NoError(t, repo.Create(ctx, sess))
	require.NoError(t, repo.Deactivate(ctx, sess.ID))

	got, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}
