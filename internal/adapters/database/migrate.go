package database

import (
	"errors"
	"fmt"
	"minisocial/internal/apperror"
	"minisocial/internal/core/comment"
	"minisocial/internal/core/like"
	"minisocial/internal/core/post"
	"minisocial/internal/core/user"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema. Parents come first so the cascade
// foreign keys can be declared.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&post.Post{},
		&comment.Comment{},
		&like.Like{},
	)
}

// translateError maps gorm errors onto the repository sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", apperror.ErrDuplicateKey, err)
	}
	return err
}
