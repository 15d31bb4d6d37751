package httpapi

import (
	"context"
	"minisocial/internal/adapters/httpapi/middleware"
	"minisocial/internal/core/comment"
	"minisocial/internal/core/feed"
	"minisocial/internal/core/like"
	postapp "minisocial/internal/core/post/service"
	"minisocial/internal/core/user"
	"minisocial/internal/metrics"
	"minisocial/internal/ports/ratelimit"
	userPort "minisocial/internal/ports/user"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Inbound ports used by the controllers.

type AuthUseCase interface {
	Authenticate(ctx context.Context, header string) (*user.User, error)
}

type UserUseCase interface {
	RegisterUser(ctx context.Context, username, email, password string) (*userPort.AuthToken, error)
	LoginUser(ctx context.Context, email, password string) (*userPort.AuthToken, error)
	GetPublicProfile(ctx context.Context, id uuid.UUID) (*userPort.UserPublic, error)
	OwnerView(u *user.User) *userPort.UserOwner
	DeleteAccount(ctx context.Context, u *user.User) error
}

type FeedUseCase interface {
	ListFeed(ctx context.Context, q feed.Query, viewer *user.User) ([]*feed.EnrichedPost, error)
	GetPost(ctx context.Context, postID uuid.UUID, viewer *user.User) (*feed.EnrichedPost, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, owner *user.User, content string) (*feed.EnrichedPost, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, owner *user.User, content string) (*feed.EnrichedPost, error)
	DeletePost(ctx context.Context, postID uuid.UUID, owner *user.User) error
	AttachImage(ctx context.Context, postID uuid.UUID, owner *user.User, img postapp.Upload) (*feed.EnrichedPost, error)
	LikePost(ctx context.Context, postID uuid.UUID, viewer *user.User) (like.Status, error)
	UnlikePost(ctx context.Context, postID uuid.UUID, viewer *user.User) (like.Status, error)
	AddComment(ctx context.Context, postID uuid.UUID, author *user.User, content string) (*comment.Comment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID, requester *user.User) error
	ListComments(ctx context.Context, postID uuid.UUID) ([]*comment.Comment, error)
}

// Options carries the non use-case dependencies of the router.
type Options struct {
	UploadDir      string
	MaxUploadBytes int64
	Limiter        ratelimit.Limiter
	// TrustedProxies may set X-Forwarded-For / X-Real-IP. With none, the
	// client IP is always the peer address.
	TrustedProxies []string
	Logger         *zap.Logger
}

// SetupRoutes only wires routes; the use cases are injected.
func SetupRoutes(
	authUC AuthUseCase,
	userUC UserUseCase,
	feedUC FeedUseCase,
	postUC PostUseCase,
	opts Options,
) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		logger.Error("Invalid trusted proxies, ignoring forwarding headers", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), metrics.Middleware())

	uc := NewUserController(userUC)
	fc := NewFeedController(feedUC)
	pc := NewPostController(postUC, opts.MaxUploadBytes)
	cc := NewCommentController(postUC)

	requireAuth := middleware.JWTAuthMiddleware(authUC)
	optionalAuth := middleware.OptionalAuthMiddleware(authUC)
	limit := middleware.RateLimitMiddleware(opts.Limiter, logger)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	auth := r.Group("/auth")
	auth.POST("/register", limit, uc.RegisterUser)
	auth.POST("/login", limit, uc.LoginUser)
	auth.GET("/me", requireAuth, uc.Me)

	users := r.Group("/users")
	users.GET("/me", requireAuth, uc.MePublic)
	users.DELETE("/me", requireAuth, limit, uc.DeleteAccount)
	users.GET("/:id", uc.GetPublicProfile)
	users.GET("/:id/posts", optionalAuth, fc.UserFeed)

	posts := r.Group("/posts")
	posts.GET("", optionalAuth, fc.GlobalFeed)
	posts.GET("/me-feed", requireAuth, fc.GlobalFeed)
	posts.GET("/:id", optionalAuth, fc.GetPost)
	posts.POST("", requireAuth, limit, pc.CreatePost)
	posts.PUT("/:id", requireAuth, limit, pc.UpdatePost)
	posts.DELETE("/:id", requireAuth, limit, pc.DeletePost)
	posts.POST("/:id/image", requireAuth, limit, pc.AttachImage)
	posts.POST("/:id/like", requireAuth, limit, pc.LikePost)
	posts.DELETE("/:id/like", requireAuth, limit, pc.UnlikePost)
	posts.GET("/:id/comments", cc.ListComments)
	posts.POST("/:id/comments", requireAuth, limit, cc.AddComment)
	posts.DELETE("/comments/:comment_id", requireAuth, limit, cc.DeleteComment)

	return r
}
