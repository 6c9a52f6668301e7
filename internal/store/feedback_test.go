package store

import (
	"context"
	"testing"

	"feedback_board/internal/domain"
	"feedback_board/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackStore_CreateAndList(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	feedback := NewFeedbackStore(conn)
	ctx := context.Background()
	testutil.CreateTestUser(t, conn, "alice", "alice@x.com", "pw1")

	fb, err := feedback.Create(ctx, "Great", "Loved it", "alice")
	require.NoError(t, err)
	assert.NotZero(t, fb.ID)

	list, err := feedback.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fb.ID, list[0].ID)
	assert.Equal(t, "Great", list[0].Title)
	assert.Equal(t, "Loved it", list[0].Content)
	assert.Equal(t, "alice", list[0].Username)
}

func TestFeedbackStore_ListInsertionOrderAndOwnerOnly(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	feedback := NewFeedbackStore(conn)
	ctx := context.Background()
	testutil.CreateTestUser(t, conn, "alice", "alice@x.com", "pw1")
	testutil.CreateTestUser(t, conn, "bob", "bob@x.com", "pw2")

	for _, title := range []string{"first", "second", "third"} {
		_, err := feedback.Create(ctx, title, "body", "alice")
		require.NoError(t, err)
	}
	_, err := feedback.Create(ctx, "bob's", "body", "bob")
	require.NoError(t, err)

	list, err := feedback.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, title := range []string{"first", "second", "third"} {
		assert.Equal(t, title, list[i].Title)
	}

	empty, err := feedback.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFeedbackStore_CreateRequiresExistingOwner(t *testing.T) {
	feedback := NewFeedbackStore(testutil.SetupTestDB(t))

	_, err := feedback.Create(context.Background(), "Orphan", "body", "ghost")
	assert.Error(t, err)
}

func TestFeedbackStore_UpdateKeepsIDAndOwner(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	feedback := NewFeedbackStore(conn)
	ctx := context.Background()
	testutil.CreateTestUser(t, conn, "alice", "alice@x.com", "pw1")
	original := testutil.CreateTestFeedback(t, conn, "alice", "Old", "old body")

	updated, err := feedback.Update(ctx, original.ID, "New", "new body")
	require.NoError(t, err)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "alice", updated.Username)

	stored, err := feedback.FindByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Feedback{ID: original.ID, Title: "New", Content: "new body", Username: "alice"}, stored)
}

func TestFeedbackStore_UpdateUnchangedValues(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	feedback := NewFeedbackStore(conn)
	testutil.CreateTestUser(t, conn, "alice", "alice@x.com", "pw1")
	fb := testutil.CreateTestFeedback(t, conn, "alice", "Same", "same")

	_, err := feedback.Update(context.Background(), fb.ID, "Same", "same")
	assert.NoError(t, err)
}

func TestFeedbackStore_NotFound(t *testing.T) {
	feedback := NewFeedbackStore(testutil.SetupTestDB(t))
	ctx := context.Background()

	_, err := feedback.FindByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = feedback.Update(ctx, 42, "t", "c")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, feedback.Delete(ctx, 42), domain.ErrNotFound)
}

func TestFeedbackStore_Delete(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	feedback := NewFeedbackStore(conn)
	ctx := context.Background()
	testutil.CreateTestUser(t, conn, "alice", "alice@x.com", "pw1")
	fb := testutil.CreateTestFeedback(t, conn, "alice", "Bye", "bye")

	require.NoError(t, feedback.Delete(ctx, fb.ID))

	_, err := feedback.FindByID(ctx, fb.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
