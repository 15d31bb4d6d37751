package postapp

import (
	"context"
	"minisocial/internal/apperror"
	commentEntity "minisocial/internal/core/comment"
	"minisocial/internal/core/user"
	"minisocial/internal/core/validation"

	"github.com/gofrs/uuid"
)

var (
	ErrCommentNotFound  = apperror.NotFound("comment not found")
	ErrNotCommentAuthor = apperror.Forbidden("not the author of this comment")
)

func (s *PostService) AddComment(ctx context.Context, postID uuid.UUID, author *user.User, content string) (*commentEntity.Comment, error) {
	if _, err := s.findPost(ctx, postID); err != nil {
		return nil, err
	}
	if err := validation.Struct(contentInput{Content: content}); err != nil {
		return nil, err
	}

	c, err := s.CommentRepository.Create(ctx, &commentEntity.Comment{
		PostID:    postID,
		UserID:    author.ID,
		Content:   content,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, apperror.Internal("could not create comment", err)
	}
	return c, nil
}

// DeleteComment lets only the author remove a comment.
func (s *PostService) DeleteComment(ctx context.Context, commentID uuid.UUID, requester *user.User) error {
	c, err := s.CommentRepository.FindByID(ctx, commentID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return ErrCommentNotFound
		}
		return apperror.Internal("could not load comment", err)
	}
	if c.UserID != requester.ID {
		return ErrNotCommentAuthor
	}

	if err := s.CommentRepository.Delete(ctx, commentID); err != nil {
		if apperror.IsNotFound(err) {
			return ErrCommentNotFound
		}
		return apperror.Internal("could not delete comment", err)
	}
	return nil
}

// ListComments returns the comments of a post oldest first.
func (s *PostService) ListComments(ctx context.Context, postID uuid.UUID) ([]*commentEntity.Comment, error) {
	if _, err := s.findPost(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.CommentRepository.ListByPostID(ctx, postID)
	if err != nil {
		return nil, apperror.Internal("could not list comments", err)
	}
	return comments, nil
}
