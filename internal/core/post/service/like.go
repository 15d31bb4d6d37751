package postapp

import (
	"context"
	"minisocial/internal/apperror"
	likeEntity "minisocial/internal/core/like"
	"minisocial/internal/core/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// LikePost is idempotent: a second call reports already_liked.
func (s *PostService) LikePost(ctx context.Context, postID uuid.UUID, viewer *user.User) (likeEntity.Status, error) {
	if _, err := s.findPost(ctx, postID); err != nil {
		return "", err
	}

	created, err := s.LikeRepository.Insert(ctx, &likeEntity.Like{
		PostID:    postID,
		UserID:    viewer.ID,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.logger.Error("Error liking post", zap.String("postID", postID.String()), zap.Error(err))
		return "", apperror.Internal("could not like post", err)
	}
	if !created {
		return likeEntity.StatusAlreadyLiked, nil
	}
	return likeEntity.StatusLiked, nil
}

// UnlikePost removes the viewer's own like only.
func (s *PostService) UnlikePost(ctx context.Context, postID uuid.UUID, viewer *user.User) (likeEntity.Status, error) {
	if _, err := s.findPost(ctx, postID); err != nil {
		return "", err
	}

	deleted, err := s.LikeRepository.DeleteByPostAndUser(ctx, postID, viewer.ID)
	if err != nil {
		return "", apperror.Internal("could not unlike post", err)
	}
	if !deleted {
		return likeEntity.StatusNotLiked, nil
	}
	return likeEntity.StatusUnliked, nil
}
