package comment

import (
	"minisocial/internal/core/post"
	"minisocial/internal/core/user"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const MaxContentLength = 2000

// Comment is immutable once written; it can only be deleted by its author.
type Comment struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Post      post.Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	User      user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // author
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		c.ID = id
	}
	return nil
}
