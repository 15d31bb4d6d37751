// Seed populates the configured database with demo users, posts, likes and
// comments. Everything goes through the services, so the data obeys the same
// rules as data created over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"minisocial/internal/adapters/database"
	"minisocial/internal/adapters/filestore"
	"minisocial/internal/adapters/security"
	"minisocial/internal/adapters/token"
	"minisocial/internal/config"
	authapp "minisocial/internal/core/auth/service"
	feedapp "minisocial/internal/core/feed/service"
	postapp "minisocial/internal/core/post/service"
	"minisocial/internal/core/user"
	userapp "minisocial/internal/core/user/service"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type options struct {
	users        int
	postsPerUser int
	likeRatio    float64
	commentRatio float64
	password     string
}

func main() {
	var opts options
	flag.IntVar(&opts.users, "users", 20, "number of users")
	flag.IntVar(&opts.postsPerUser, "posts", 5, "posts per user")
	flag.Float64Var(&opts.likeRatio, "likes", 0.3, "probability that a user likes a given post")
	flag.Float64Var(&opts.commentRatio, "comments", 0.1, "probability that a user comments on a given post")
	flag.StringVar(&opts.password, "password", "password123", "password of every seeded user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := config.OpenDB(cfg, logger)
	if err != nil {
		logger.Fatal("Error connecting to the database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Error during migrations", zap.Error(err))
	}

	tokens, err := token.NewJWTTokenService(cfg.JWTSecret, cfg.JWTAlg, cfg.AccessTokenTTL)
	if err != nil {
		logger.Fatal("Invalid token configuration", zap.Error(err))
	}
	storage, err := filestore.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		logger.Fatal("Upload directory unavailable", zap.Error(err))
	}

	s := newSeeder(db, tokens, security.NewBcryptHasher(cfg.BcryptCost), storage, cfg, logger)
	start := time.Now()
	st, err := s.run(context.Background(), rand.New(rand.NewSource(time.Now().UnixNano())), opts)
	if err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
	logger.Info("Seeding completed",
		zap.Int("users", st.users),
		zap.Int("posts", st.posts),
		zap.Int("likes", st.likes),
		zap.Int("comments", st.comments),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)),
	)
}

type seeder struct {
	users  *userapp.UserService
	posts  *postapp.PostService
	logger *zap.Logger
}

type stats struct {
	users, posts, likes, comments int
}

type feedPost struct {
	post  uuid.UUID
	owner *user.User
}

func newSeeder(db *gorm.DB, tokens *token.JWTTokenService, hasher *security.BcryptHasher, storage *filestore.LocalStorage, cfg *config.Config, logger *zap.Logger) *seeder {
	userRepo := database.NewUserRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)
	commentRepo := database.NewCommentRepositoryDatabase(db)
	likeRepo := database.NewLikeRepositoryDatabase(db)

	authSvc := authapp.NewAuthService(userRepo, tokens, logger)
	feedSvc := feedapp.NewFeedService(postRepo, userRepo, likeRepo, commentRepo, logger)
	return &seeder{
		users: userapp.NewUserService(userRepo, postRepo, hasher, authSvc, storage, logger),
		posts: postapp.NewPostService(postRepo, commentRepo, likeRepo, feedSvc, storage, postapp.UploadPolicy{
			AllowedExt: cfg.AllowedUploadExt,
			MaxBytes:   cfg.MaxUploadBytes,
		}, logger),
		logger: logger,
	}
}

// run creates the users, then their posts, then lets every user like and
// comment on other users' posts at random. Users that already exist (from an
// earlier run) are reused.
func (s *seeder) run(ctx context.Context, r *rand.Rand, opts options) (stats, error) {
	var st stats

	users := make([]*user.User, 0, opts.users)
	for i := 0; i < opts.users; i++ {
		username := fmt.Sprintf("demo%d", i)
		email := username + "@example.com"
		if _, err := s.users.RegisterUser(ctx, username, email, opts.password); err != nil {
			s.logger.Debug("Register skipped", zap.String("username", username), zap.Error(err))
		} else {
			st.users++
		}
		u, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return st, fmt.Errorf("load %s: %w", email, err)
		}
		users = append(users, u)
	}
	s.logger.Info("Users ready", zap.Int("created", st.users), zap.Int("total", len(users)))

	var created []*feedPost
	for _, u := range users {
		for p := 1; p <= opts.postsPerUser; p++ {
			post, err := s.posts.CreatePost(ctx, u, fmt.Sprintf("Post %d by %s", p, u.Username))
			if err != nil {
				return st, fmt.Errorf("create post for %s: %w", u.Username, err)
			}
			created = append(created, &feedPost{post: post.ID, owner: u})
			st.posts++
		}
	}
	s.logger.Info("Posts created", zap.Int("count", st.posts))

	for _, u := range users {
		for _, p := range created {
			if p.owner.ID == u.ID {
				continue
			}
			if r.Float64() < opts.likeRatio {
				if _, err := s.posts.LikePost(ctx, p.post, u); err != nil {
					return st, fmt.Errorf("like: %w", err)
				}
				st.likes++
			}
			if r.Float64() < opts.commentRatio {
				if _, err := s.posts.AddComment(ctx, p.post, u, "Nice post, "+p.owner.Username+"!"); err != nil {
					return st, fmt.Errorf("comment: %w", err)
				}
				st.comments++
			}
		}
	}
	return st, nil
}
