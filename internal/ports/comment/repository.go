package comment

import (
	"context"
	"minisocial/internal/core/comment"
	"time"

	"github.com/gofrs/uuid"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *comment.Comment) (*comment.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPostID(ctx context.Context, postID uuid.UUID) ([]*comment.Comment, error)
	// CountByPostIDs returns one grouped count per post; posts without
	// comments are absent from the map.
	CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type CommentDTO struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDTO(c *comment.Comment) *CommentDTO {
	return &CommentDTO{
		ID:        c.ID.String(),
		PostID:    c.PostID.String(),
		UserID:    c.UserID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
