package database

import (
	"context"
	"minisocial/internal/core/comment"
	"minisocial/internal/core/feed"
	"minisocial/internal/core/like"
	"minisocial/internal/core/post"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const postRowColumns = "posts.id, posts.user_id, posts.content, posts.image_path, " +
	"posts.created_at, posts.updated_at, users.username"

type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, post *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, translateError(err)
	}
	return post, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) UpdateContent(ctx context.Context, id uuid.UUID, content string, updatedAt time.Time) error {
	return repo.update(ctx, id, map[string]interface{}{
		"content":    content,
		"updated_at": updatedAt,
	})
}

func (repo *PostRepositoryDatabase) UpdateImage(ctx context.Context, id uuid.UUID, imagePath string, updatedAt time.Time) error {
	return repo.update(ctx, id, map[string]interface{}{
		"image_path": imagePath,
		"updated_at": updatedAt,
	})
}

func (repo *PostRepositoryDatabase) update(ctx context.Context, id uuid.UUID, values map[string]interface{}) error {
	err := repo.db.WithContext(ctx).Model(&post.Post{}).Where("id = ?", id).Updates(values).Error
	return translateError(err)
}

// Delete removes the post. Likes and comments go first in the same
// transaction so the result does not depend on the driver enforcing the
// foreign keys.
func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&like.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&comment.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&post.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translateError(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (repo *PostRepositoryDatabase) ImagePathsByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var paths []string
	err := repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("user_id = ? AND image_path IS NOT NULL", userID).
		Pluck("image_path", &paths).Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (repo *PostRepositoryDatabase) ReferencedImagePaths(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	var found []string
	err := repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("image_path IN ?", paths).
		Distinct().
		Pluck("image_path", &found).Error
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListPage runs the single page query of a feed. Ties on created_at are
// broken by id so pages stay stable.
func (repo *PostRepositoryDatabase) ListPage(ctx context.Context, scope feed.Scope, limit, offset int) ([]*feed.PostRow, error) {
	q := repo.db.WithContext(ctx).
		Table("posts").
		Select(postRowColumns).
		Joins("JOIN users ON users.id = posts.user_id")
	if scope.Kind == feed.ScopeUser {
		q = q.Where("posts.user_id = ?", scope.UserID)
	}

	rows := make([]*feed.PostRow, 0, limit)
	err := q.Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo *PostRepositoryDatabase) FindRowByID(ctx context.Context, id uuid.UUID) (*feed.PostRow, error) {
	var rows []*feed.PostRow
	err := repo.db.WithContext(ctx).
		Table("posts").
		Select(postRowColumns).
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, translateError(gorm.ErrRecordNotFound)
	}
	return rows[0], nil
}
