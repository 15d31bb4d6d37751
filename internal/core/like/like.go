package like

import (
	"minisocial/internal/core/post"
	"minisocial/internal/core/user"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Like is unique per (post, user); the index is the guard against concurrent
// double likes.
type Like struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uq_like_post_user,priority:1"`
	Post      post.Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uq_like_post_user,priority:2;index"`
	User      user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		l.ID = id
	}
	return nil
}

// Status is the outcome of an idempotent like/unlike call.
type Status string

const (
	StatusLiked        Status = "liked"
	StatusAlreadyLiked Status = "already_liked"
	StatusUnliked      Status = "unliked"
	StatusNotLiked     Status = "not_liked"
)
