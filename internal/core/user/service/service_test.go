package userapp

import (
	"context"
	"fmt"
	"minisocial/internal/adapters/database"
	"minisocial/internal/adapters/security"
	"minisocial/internal/adapters/token"
	"minisocial/internal/apperror"
	authapp "minisocial/internal/core/auth/service"
	"minisocial/internal/core/comment"
	"minisocial/internal/core/like"
	"minisocial/internal/core/post"
	userEntity "minisocial/internal/core/user"
	userPort "minisocial/internal/ports/user"
	"minisocial/internal/testutil"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type harness struct {
	db      *gorm.DB
	svc     *UserService
	auth    *authapp.AuthService
	users   *database.UserRepositoryDatabase
	posts   *database.PostRepositoryDatabase
	storage *testutil.MockStorage
}

func newHarness(t *testing.T) *harness {
	db := testutil.NewTestDB(t)
	users := database.NewUserRepositoryDatabase(db)
	posts := database.NewPostRepositoryDatabase(db)
	tokens, err := token.NewJWTTokenService("secret", "HS256", time.Hour)
	require.NoError(t, err)
	auth := authapp.NewAuthService(users, tokens, zap.NewNop())
	storage := testutil.NewMockStorage()

	return &harness{
		db:      db,
		svc:     NewUserService(users, posts, security.NewBcryptHasher(bcrypt.MinCost), auth, storage, zap.NewNop()),
		auth:    auth,
		users:   users,
		posts:   posts,
		storage: storage,
	}
}

func (h *harness) register(t *testing.T, name string) *userEntity.User {
	ctx := context.Background()
	_, err := h.svc.RegisterUser(ctx, name, name+"@example.com", "secret123")
	require.NoError(t, err)
	u, err := h.svc.FindByEmail(ctx, name+"@example.com")
	require.NoError(t, err)
	return u
}

func TestRegisterUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tok, err := h.svc.RegisterUser(ctx, " alice ", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	u, err := h.svc.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	authed, err := h.auth.Authenticate(ctx, "Bearer "+tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, authed.ID)
}

func TestRegisterUser_Duplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice")

	_, err := h.svc.RegisterUser(ctx, "alice2", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, apperror.KindDuplicate, apperror.KindOf(err))

	_, err = h.svc.RegisterUser(ctx, "alice", "other@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, apperror.KindDuplicate, apperror.KindOf(err))
}

type racingRepo struct {
	userPort.UserRepository
}

func (racingRepo) FindByEmail(context.Context, string) (*userEntity.User, error) {
	return nil, apperror.ErrRecordNotFound
}

func (racingRepo) FindByUsername(context.Context, string) (*userEntity.User, error) {
	return nil, apperror.ErrRecordNotFound
}

func (racingRepo) Create(context.Context, *userEntity.User) (*userEntity.User, error) {
	return nil, fmt.Errorf("%w: Error 1062", apperror.ErrDuplicateKey)
}

func TestRegisterUser_ConstraintIsAuthoritative(t *testing.T) {
	h := newHarness(t)
	h.svc.UserRepository = racingRepo{}

	_, err := h.svc.RegisterUser(context.Background(), "alice", "alice@example.com", "secret123")
	assert.Equal(t, apperror.KindDuplicate, apperror.KindOf(err))
}

func TestRegisterUser_Validation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name, username, email, password string
	}{
		{"blank username", "   ", "a@example.com", "secret123"},
		{"long username", strings.Repeat("a", 51), "a@example.com", "secret123"},
		{"bad email", "alice", "not-an-email", "secret123"},
		{"short password", "alice", "a@example.com", "123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.RegisterUser(context.Background(), tt.username, tt.email, tt.password)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}
}

func TestRegisterUser_EmailIsCaseInsensitive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.RegisterUser(ctx, "alice", " Alice@Example.COM ", "secret123")
	require.NoError(t, err)

	u, err := h.users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = h.svc.RegisterUser(ctx, "alice2", "ALICE@example.com", "secret123")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = h.svc.LoginUser(ctx, "ALICE@EXAMPLE.COM", "secret123")
	assert.NoError(t, err)

	found, err := h.svc.FindByEmail(ctx, "Alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestLoginUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice")

	tok, err := h.svc.LoginUser(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	authed, err := h.auth.Authenticate(ctx, "Bearer "+tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, authed.ID)

	_, err = h.svc.LoginUser(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = h.svc.LoginUser(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfiles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice")

	pub, err := h.svc.GetPublicProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, &userPort.UserPublic{ID: alice.ID.String(), Username: "alice"}, pub)

	owner := h.svc.OwnerView(alice)
	assert.Equal(t, "alice@example.com", owner.Email)

	_, err = h.svc.GetPublicProfile(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteAccount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice")
	bob := h.register(t, "bob")

	withImage, err := h.posts.Create(ctx, &post.Post{UserID: alice.ID, Content: "pic"})
	require.NoError(t, err)
	require.NoError(t, h.posts.UpdateImage(ctx, withImage.ID, "/uploads/a.png", time.Now().UTC()))
	h.storage.Put("/uploads/a.png", []byte("png"))

	bobPost, err := h.posts.Create(ctx, &post.Post{UserID: bob.ID, Content: "bob"})
	require.NoError(t, err)
	likes := database.NewLikeRepositoryDatabase(h.db)
	comments := database.NewCommentRepositoryDatabase(h.db)
	_, err = likes.Insert(ctx, &like.Like{PostID: bobPost.ID, UserID: alice.ID})
	require.NoError(t, err)
	_, err = comments.Create(ctx, &comment.Comment{PostID: bobPost.ID, UserID: alice.ID, Content: "hi"})
	require.NoError(t, err)
	_, err = comments.Create(ctx, &comment.Comment{PostID: withImage.ID, UserID: bob.ID, Content: "nice"})
	require.NoError(t, err)

	require.NoError(t, h.svc.DeleteAccount(ctx, alice))

	_, err = h.svc.FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, h.storage.Has("/uploads/a.png"))

	var n int64
	require.NoError(t, h.db.Model(&like.Like{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, h.db.Model(&comment.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, h.db.Model(&post.Post{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	_, err = h.svc.LoginUser(ctx, "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteAccount_StorageFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice")

	p, err := h.posts.Create(ctx, &post.Post{UserID: alice.ID, Content: "pic"})
	require.NoError(t, err)
	require.NoError(t, h.posts.UpdateImage(ctx, p.ID, "/uploads/a.png", time.Now().UTC()))
	h.storage.DeleteErr = fmt.Errorf("disk gone")

	require.NoError(t, h.svc.DeleteAccount(ctx, alice))
	_, err = h.svc.FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
