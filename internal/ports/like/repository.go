package like

import (
	"context"
	"minisocial/internal/core/like"

	"github.com/gofrs/uuid"
)

type LikeRepository interface {
	// Insert stores the like unless one already exists for (post, user).
	// created is false when the unique index rejected it.
	Insert(ctx context.Context, like *like.Like) (created bool, err error)
	// DeleteByPostAndUser removes the caller's own like. deleted is false when
	// there was none.
	DeleteByPostAndUser(ctx context.Context, postID, userID uuid.UUID) (deleted bool, err error)
	CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	// LikedPostIDs returns the subset of postIDs liked by userID.
	LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type LikeStatusDTO struct {
	Status like.Status `json:"status"`
}
