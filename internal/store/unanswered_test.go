package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazraati/assistant-platform/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUnansweredRecordDedup(t *testing.T) {
	db := newTestDB(t)
	repo := NewUnansweredRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "سؤال بدون إجابة", model.AudienceVisitor, "home"))
	require.NoError(t, repo.Record(ctx, "سؤال بدون إجابة", model.AudienceVisitor, "farms"))
	require.NoError(t, repo.Record(ctx, "سؤال مختلف تماما", model.AudienceVisitor, "home"))

	backlog, err := repo.ListByStatus(ctx, model.UnansweredStatusNew, 10)
	require.NoError(t, err)
	require.Len(t, backlog, 2)

	// Most frequent first.
	assert.Equal(t, "سؤال بدون إجابة", backlog[0].Question)
	assert.Equal(t, int64(2), backlog[0].Frequency)
	assert.Equal(t, int64(1), backlog[1].Frequency)
}

func TestUnansweredDedupIgnoresNonNewRecords(t *testing.T) {
	db := newTestDB(t)
	repo := NewUnansweredRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "repeated question", model.AudienceVisitor, ""))

	// Once triaged, the same question starts a fresh backlog entry.
	_, err := db.ExecContext(ctx, `UPDATE unanswered_questions SET status = ?`, model.UnansweredStatusReviewed)
	require.NoError(t, err)

	require.NoError(t, repo.Record(ctx, "repeated question", model.AudienceVisitor, ""))

	fresh, err := repo.ListByStatus(ctx, model.UnansweredStatusNew, 10)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, int64(1), fresh[0].Frequency)
}

func TestUnansweredCountCreatedOn(t *testing.T) {
	db := newTestDB(t)
	repo := NewUnansweredRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "q one", model.AudienceVisitor, ""))
	require.NoError(t, repo.Record(ctx, "q two", model.AudienceVisitor, ""))
	// A frequency bump on an existing topic is not a new topic.
	require.NoError(t, repo.Record(ctx, "q one", model.AudienceVisitor, ""))

	today := time.Now().UTC().Format("2006-01-02")
	count, err := repo.CountCreatedOn(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
