package database_test

import (
	"context"
	"minisocial/internal/adapters/database"
	"minisocial/internal/apperror"
	"minisocial/internal/core/comment"
	"minisocial/internal/core/feed"
	"minisocial/internal/core/like"
	"minisocial/internal/core/post"
	"minisocial/internal/core/user"
	"minisocial/internal/testutil"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	users    *database.UserRepositoryDatabase
	posts    *database.PostRepositoryDatabase
	comments *database.CommentRepositoryDatabase
	likes    *database.LikeRepositoryDatabase
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewTestDB(t)
	return &fixture{
		db:       db,
		users:    database.NewUserRepositoryDatabase(db),
		posts:    database.NewPostRepositoryDatabase(db),
		comments: database.NewCommentRepositoryDatabase(db),
		likes:    database.NewLikeRepositoryDatabase(db),
	}
}

func (f *fixture) user(t *testing.T, name string) *user.User {
	u, err := f.users.Create(context.Background(), &user.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, owner *user.User, content string, at time.Time) *post.Post {
	p, err := f.posts.Create(context.Background(), &post.Post{
		UserID:    owner.ID,
		Content:   content,
		CreatedAt: at,
		UpdatedAt: at,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) like(t *testing.T, p *post.Post, u *user.User) {
	created, err := f.likes.Insert(context.Background(), &like.Like{PostID: p.ID, UserID: u.ID})
	require.NoError(t, err)
	require.True(t, created)
}

func (f *fixture) comment(t *testing.T, p *post.Post, u *user.User, content string, at time.Time) *comment.Comment {
	c, err := f.comments.Create(context.Background(), &comment.Comment{
		PostID:    p.ID,
		UserID:    u.ID,
		Content:   content,
		CreatedAt: at,
	})
	require.NoError(t, err)
	return c
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestUserRepository_Lookups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	assert.NotEqual(t, uuid.Nil, alice.ID)

	byID, err := f.users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byEmail, err := f.users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	byName, err := f.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	_, err = f.users.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.users.FindByID(ctx, uuid.Must(uuid.NewV4()))
	assert.True(t, apperror.IsNotFound(err))
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice")

	_, err := f.users.Create(context.Background(), &user.User{
		Username:     "alice2",
		Email:        "alice@example.com",
		PasswordHash: "x",
	})
	assert.Error(t, err)
}

func TestPostRepository_ListPageOrderAndScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	first := f.post(t, alice, "first", base)
	second := f.post(t, bob, "second", base.Add(time.Minute))
	third := f.post(t, alice, "third", base.Add(2*time.Minute))

	rows, err := f.posts.ListPage(ctx, feed.Global(), 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []uuid.UUID{third.ID, second.ID, first.ID}, []uuid.UUID{rows[0].ID, rows[1].ID, rows[2].ID})
	assert.Equal(t, "bob", rows[1].Username)

	rows, err = f.posts.ListPage(ctx, feed.Global(), 1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, second.ID, rows[0].ID)

	rows, err = f.posts.ListPage(ctx, feed.ByUser(alice.ID), 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, third.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)

	rows, err = f.posts.ListPage(ctx, feed.Global(), 10, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPostRepository_ListPageTieBreaksOnID(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	a := f.post(t, alice, "a", base)
	b := f.post(t, alice, "b", base)

	rows, err := f.posts.ListPage(context.Background(), feed.Global(), 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	want := []uuid.UUID{a.ID, b.ID}
	if a.ID.String() < b.ID.String() {
		want = []uuid.UUID{b.ID, a.ID}
	}
	assert.Equal(t, want, []uuid.UUID{rows[0].ID, rows[1].ID})
}

func TestPostRepository_UpdatesAndRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	p := f.post(t, alice, "draft", base)

	require.NoError(t, f.posts.UpdateContent(ctx, p.ID, "final", base.Add(time.Hour)))
	require.NoError(t, f.posts.UpdateImage(ctx, p.ID, "/uploads/a.png", base.Add(2*time.Hour)))

	row, err := f.posts.FindRowByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", row.Content)
	require.NotNil(t, row.ImagePath)
	assert.Equal(t, "/uploads/a.png", *row.ImagePath)
	assert.Equal(t, "alice", row.Username)
	assert.True(t, row.UpdatedAt.Equal(base.Add(2*time.Hour)))
	assert.True(t, row.CreatedAt.Equal(base))

	_, err = f.posts.FindRowByID(ctx, uuid.Must(uuid.NewV4()))
	assert.True(t, apperror.IsNotFound(err))

	paths, err := f.posts.ImagePathsByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.png"}, paths)

	paths, err = f.posts.ReferencedImagePaths(ctx, []string{"/uploads/a.png", "/uploads/gone.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.png"}, paths)

	paths, err = f.posts.ReferencedImagePaths(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	doomed := f.post(t, alice, "doomed", base)
	kept := f.post(t, alice, "kept", base.Add(time.Minute))
	f.like(t, doomed, bob)
	f.like(t, kept, bob)
	f.comment(t, doomed, bob, "bye", base)
	f.comment(t, kept, bob, "hi", base)

	require.NoError(t, f.posts.Delete(ctx, doomed.ID))

	_, err := f.posts.FindByID(ctx, doomed.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, int64(1), count(t, f.db, &like.Like{}))
	assert.Equal(t, int64(1), count(t, f.db, &comment.Comment{}))

	assert.True(t, apperror.IsNotFound(f.posts.Delete(ctx, doomed.ID)))
}

func TestLikeRepository_InsertIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	p := f.post(t, alice, "hello", base)

	created, err := f.likes.Insert(ctx, &like.Like{PostID: p.ID, UserID: alice.ID})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.likes.Insert(ctx, &like.Like{PostID: p.ID, UserID: alice.ID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(1), count(t, f.db, &like.Like{}))

	deleted, err := f.likes.DeleteByPostAndUser(ctx, p.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.likes.DeleteByPostAndUser(ctx, p.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p1 := f.post(t, alice, "one", base)
	p2 := f.post(t, alice, "two", base)
	p3 := f.post(t, bob, "three", base)
	f.like(t, p1, alice)
	f.like(t, p1, bob)
	f.like(t, p2, bob)
	f.comment(t, p1, bob, "c1", base)
	f.comment(t, p3, alice, "c2", base)
	f.comment(t, p3, bob, "c3", base)

	ids := []uuid.UUID{p1.ID, p2.ID, p3.ID}

	likes, err := f.likes.CountByPostIDs(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{p1.ID: 2, p2.ID: 1}, likes)

	comments, err := f.comments.CountByPostIDs(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{p1.ID: 1, p3.ID: 2}, comments)

	liked, err := f.likes.LikedPostIDs(ctx, alice.ID, ids)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]bool{p1.ID: true}, liked)

	empty, err := f.likes.CountByPostIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommentRepository_ListAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	p := f.post(t, alice, "hello", base)
	later := f.comment(t, p, alice, "later", base.Add(time.Minute))
	earlier := f.comment(t, p, alice, "earlier", base)

	list, err := f.comments.ListByPostID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, earlier.ID, list[0].ID)
	assert.Equal(t, later.ID, list[1].ID)

	require.NoError(t, f.comments.Delete(ctx, earlier.ID))
	_, err = f.comments.FindByID(ctx, earlier.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(f.comments.Delete(ctx, earlier.ID)))
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	ap := f.post(t, alice, "alice post", base)
	bp := f.post(t, bob, "bob post", base)
	f.like(t, ap, bob)
	f.like(t, bp, alice)
	f.like(t, bp, bob)
	f.comment(t, ap, bob, "on alice", base)
	f.comment(t, bp, alice, "by alice", base)
	f.comment(t, bp, bob, "by bob", base)

	require.NoError(t, f.users.Delete(ctx, alice.ID))

	_, err := f.users.FindByID(ctx, alice.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, int64(1), count(t, f.db, &post.Post{}))
	assert.Equal(t, int64(1), count(t, f.db, &like.Like{}))
	assert.Equal(t, int64(1), count(t, f.db, &comment.Comment{}))

	rows, err := f.posts.ListPage(ctx, feed.Global(), 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, bp.ID, rows[0].ID)

	assert.True(t, apperror.IsNotFound(f.users.Delete(ctx, alice.ID)))
}
