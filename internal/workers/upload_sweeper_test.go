package workers

import (
	"context"
	"errors"
	"minisocial/internal/adapters/database"
	"minisocial/internal/core/post"
	"minisocial/internal/core/user"
	"minisocial/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newSweeper(t *testing.T, batch int) (*UploadSweeper, *testutil.MockStorage, *database.PostRepositoryDatabase) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	users := database.NewUserRepositoryDatabase(db)
	posts := database.NewPostRepositoryDatabase(db)

	owner, err := users.Create(ctx, &user.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	p, err := posts.Create(ctx, &post.Post{UserID: owner.ID, Content: "pic", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	require.NoError(t, posts.UpdateImage(ctx, p.ID, "/uploads/kept.png", now))

	store := testutil.NewMockStorage()
	w := NewUploadSweeper(store, posts, time.Minute, 15*time.Minute, batch, zap.NewNop())
	w.now = func() time.Time { return now }
	return w, store, posts
}

func TestUploadSweeper_RemovesOnlyOldOrphans(t *testing.T) {
	for _, batch := range []int{1, 100} {
		w, store, _ := newSweeper(t, batch)
		old := now.Add(-time.Hour)
		store.PutAt("/uploads/kept.png", []byte("k"), old)
		store.PutAt("/uploads/orphan1.png", []byte("o"), old)
		store.PutAt("/uploads/orphan2.png", []byte("o"), old)
		store.PutAt("/uploads/fresh.png", []byte("f"), now.Add(-time.Minute))

		removed, err := w.Sweep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, removed, "batch %d", batch)
		assert.True(t, store.Has("/uploads/kept.png"))
		assert.True(t, store.Has("/uploads/fresh.png"), "files inside the grace period survive")
		assert.False(t, store.Has("/uploads/orphan1.png"))
		assert.False(t, store.Has("/uploads/orphan2.png"))
	}
}

func TestUploadSweeper_DeleteFailureIsNotFatal(t *testing.T) {
	w, store, _ := newSweeper(t, 10)
	store.PutAt("/uploads/orphan.png", []byte("o"), now.Add(-time.Hour))
	store.DeleteErr = errors.New("disk busy")

	removed, err := w.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.True(t, store.Has("/uploads/orphan.png"))
}

func TestUploadSweeper_RunStopsOnCancel(t *testing.T) {
	w, _, _ := newSweeper(t, 10)
	w.Interval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
