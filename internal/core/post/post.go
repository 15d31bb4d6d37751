package post

import (
	"minisocial/internal/core/user"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const MaxContentLength = 2000

type Post struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	User      user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // owner
	Content   string    `gorm:"type:text;not null"`
	ImagePath *string   `gorm:"type:varchar(500)"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		p.ID = id
	}
	return nil
}

// IsOwnedBy reports whether userID owns the post.
func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}
