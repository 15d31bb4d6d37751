package post

import (
	"context"
	"minisocial/internal/core/feed"
	"minisocial/internal/core/post"
	"time"

	"github.com/gofrs/uuid"
)

// PostRepository is the port to the posts table and the feed page query.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string, updatedAt time.Time) error
	UpdateImage(ctx context.Context, id uuid.UUID, imagePath string, updatedAt time.Time) error
	// Delete removes the post with its comments and likes in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	ImagePathsByUserID(ctx context.Context, userID uuid.UUID) ([]string, error)
	// ReferencedImagePaths returns the subset of paths still set on some post.
	ReferencedImagePaths(ctx context.Context, paths []string) ([]string, error)

	// ListPage returns posts of the scope joined with the owner's username,
	// newest first (created_at DESC, id DESC).
	ListPage(ctx context.Context, scope feed.Scope, limit, offset int) ([]*feed.PostRow, error)
	FindRowByID(ctx context.Context, id uuid.UUID) (*feed.PostRow, error)
}

// PostDTO is the outward shape of an enriched post.
type PostDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Content       string    `json:"content"`
	ImagePath     *string   `json:"image_path"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Username      string    `json:"username"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	LikedByMe     bool      `json:"liked_by_me"`
}

func ToDTO(p *feed.EnrichedPost) *PostDTO {
	return &PostDTO{
		ID:            p.ID.String(),
		UserID:        p.UserID.String(),
		Content:       p.Content,
		ImagePath:     p.ImagePath,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Username:      p.Username,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		LikedByMe:     p.LikedByMe,
	}
}

func ToDTOs(posts []*feed.EnrichedPost) []*PostDTO {
	out := make([]*PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToDTO(p))
	}
	return out
}
