package postapp

import (
	"context"
	"minisocial/internal/apperror"
	"minisocial/internal/core/feed"
	postEntity "minisocial/internal/core/post"
	"minisocial/internal/core/user"
	"minisocial/internal/core/validation"
	commentPort "minisocial/internal/ports/comment"
	likePort "minisocial/internal/ports/like"
	mediaPort "minisocial/internal/ports/media"
	postPort "minisocial/internal/ports/post"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

var (
	ErrPostNotFound = apperror.NotFound("post not found")
	ErrNotPostOwner = apperror.Forbidden("not the owner of this post")
)

// PostReader returns the enriched view of a post after a mutation.
type PostReader interface {
	GetPost(ctx context.Context, postID uuid.UUID, viewer *user.User) (*feed.EnrichedPost, error)
}

type contentInput struct {
	Content string `validate:"required,notblank,max=2000"`
}

// PostService handles every mutation on posts, likes and comments. Existence
// and ownership are always checked before anything is written.
type PostService struct {
	PostRepository    postPort.PostRepository
	CommentRepository commentPort.CommentRepository
	LikeRepository    likePort.LikeRepository
	reader            PostReader
	storage           mediaPort.Storage
	uploads           UploadPolicy
	now               func() time.Time
	logger            *zap.Logger
}

func NewPostService(
	posts postPort.PostRepository,
	comments commentPort.CommentRepository,
	likes likePort.LikeRepository,
	reader PostReader,
	storage mediaPort.Storage,
	uploads UploadPolicy,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository:    posts,
		CommentRepository: comments,
		LikeRepository:    likes,
		reader:            reader,
		storage:           storage,
		uploads:           uploads,
		now:               func() time.Time { return time.Now().UTC() },
		logger:            logger,
	}
}

// WithClock replaces the time source used for created_at / updated_at.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

// CreatePost stores a new text post owned by owner.
func (s *PostService) CreatePost(ctx context.Context, owner *user.User, content string) (*feed.EnrichedPost, error) {
	if err := validation.Struct(contentInput{Content: content}); err != nil {
		return nil, err
	}

	now := s.now()
	p, err := s.PostRepository.Create(ctx, &postEntity.Post{
		UserID:    owner.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error("Failed to create post", zap.String("userID", owner.ID.String()), zap.Error(err))
		return nil, apperror.Internal("could not create post", err)
	}
	s.logger.Info("Created post", zap.String("postID", p.ID.String()), zap.String("userID", owner.ID.String()))
	return s.reader.GetPost(ctx, p.ID, owner)
}

// UpdatePost replaces the content of an owned post.
func (s *PostService) UpdatePost(ctx context.Context, postID uuid.UUID, owner *user.User, content string) (*feed.EnrichedPost, error) {
	if _, err := s.ownedPost(ctx, postID, owner); err != nil {
		return nil, err
	}
	if err := validation.Struct(contentInput{Content: content}); err != nil {
		return nil, err
	}

	if err := s.PostRepository.UpdateContent(ctx, postID, content, s.now()); err != nil {
		return nil, apperror.Internal("could not update post", err)
	}
	return s.reader.GetPost(ctx, postID, owner)
}

// DeletePost removes an owned post with its comments and likes. The image
// goes first; if it cannot be removed the post is kept.
func (s *PostService) DeletePost(ctx context.Context, postID uuid.UUID, owner *user.User) error {
	p, err := s.ownedPost(ctx, postID, owner)
	if err != nil {
		return err
	}

	if p.ImagePath != nil {
		if err := s.storage.Delete(ctx, *p.ImagePath); err != nil {
			s.logger.Error("Error deleting post image", zap.String("postID", postID.String()), zap.Error(err))
			return apperror.Internal("could not delete post image", err)
		}
	}

	if err := s.PostRepository.Delete(ctx, postID); err != nil {
		if apperror.IsNotFound(err) {
			return ErrPostNotFound
		}
		return apperror.Internal("could not delete post", err)
	}
	s.logger.Info("Deleted post", zap.String("postID", postID.String()))
	return nil
}

func (s *PostService) findPost(ctx context.Context, postID uuid.UUID) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, apperror.Internal("could not load post", err)
	}
	return p, nil
}

func (s *PostService) ownedPost(ctx context.Context, postID uuid.UUID, owner *user.User) (*postEntity.Post, error) {
	p, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(owner.ID) {
		return nil, ErrNotPostOwner
	}
	return p, nil
}
