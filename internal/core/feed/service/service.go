package feedapp

import (
	"context"
	"minisocial/internal/apperror"
	"minisocial/internal/core/feed"
	"minisocial/internal/core/user"
	"minisocial/internal/core/validation"
	commentPort "minisocial/internal/ports/comment"
	likePort "minisocial/internal/ports/like"
	postPort "minisocial/internal/ports/post"
	userPort "minisocial/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

var (
	ErrPostNotFound = apperror.NotFound("post not found")
	ErrUserNotFound = apperror.NotFound("user not found")
)

// FeedService assembles enriched posts. A page costs a fixed number of
// queries: the page itself, like counts, comment counts and, with a viewer,
// the viewer's likes.
type FeedService struct {
	PostRepository    postPort.PostRepository
	UserRepository    userPort.UserRepository
	LikeRepository    likePort.LikeRepository
	CommentRepository commentPort.CommentRepository
	logger            *zap.Logger
}

func NewFeedService(
	posts postPort.PostRepository,
	users userPort.UserRepository,
	likes likePort.LikeRepository,
	comments commentPort.CommentRepository,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		PostRepository:    posts,
		UserRepository:    users,
		LikeRepository:    likes,
		CommentRepository: comments,
		logger:            logger,
	}
}

// ListFeed returns one page of the scope, newest first. viewer may be nil.
func (s *FeedService) ListFeed(ctx context.Context, q feed.Query, viewer *user.User) ([]*feed.EnrichedPost, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}

	if q.Scope.Kind == feed.ScopeUser {
		if _, err := s.UserRepository.FindByID(ctx, q.Scope.UserID); err != nil {
			if apperror.IsNotFound(err) {
				return nil, ErrUserNotFound
			}
			return nil, apperror.Internal("could not load user", err)
		}
	}

	rows, err := s.PostRepository.ListPage(ctx, q.Scope, q.Limit, q.Offset)
	if err != nil {
		s.logger.Error("Error loading feed page", zap.Error(err))
		return nil, apperror.Internal("could not load feed", err)
	}
	return s.enrich(ctx, rows, viewer)
}

// GetPost returns a single post with the same enrichment as a feed item.
func (s *FeedService) GetPost(ctx context.Context, postID uuid.UUID, viewer *user.User) (*feed.EnrichedPost, error) {
	row, err := s.PostRepository.FindRowByID(ctx, postID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, apperror.Internal("could not load post", err)
	}

	posts, err := s.enrich(ctx, []*feed.PostRow{row}, viewer)
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

func (s *FeedService) enrich(ctx context.Context, rows []*feed.PostRow, viewer *user.User) ([]*feed.EnrichedPost, error) {
	out := make([]*feed.EnrichedPost, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	likes, err := s.LikeRepository.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal("could not count likes", err)
	}
	comments, err := s.CommentRepository.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal("could not count comments", err)
	}
	liked := map[uuid.UUID]bool{}
	if viewer != nil {
		liked, err = s.LikeRepository.LikedPostIDs(ctx, viewer.ID, ids)
		if err != nil {
			return nil, apperror.Internal("could not load viewer likes", err)
		}
	}

	for _, r := range rows {
		out = append(out, &feed.EnrichedPost{
			ID:            r.ID,
			UserID:        r.UserID,
			Content:       r.Content,
			ImagePath:     r.ImagePath,
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
			Username:      r.Username,
			LikesCount:    likes[r.ID],
			CommentsCount: comments[r.ID],
			LikedByMe:     liked[r.ID],
		})
	}
	return out, nil
}
