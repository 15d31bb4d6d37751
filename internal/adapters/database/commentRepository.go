package database

import (
	"context"
	"minisocial/internal/core/comment"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepositoryDatabase struct {
	db *gorm.DB
}

func NewCommentRepositoryDatabase(db *gorm.DB) *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{db: db}
}

func (repo *CommentRepositoryDatabase) Create(ctx context.Context, comment *comment.Comment) (*comment.Comment, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, translateError(err)
	}
	return comment, nil
}

func (repo *CommentRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	var c comment.Comment
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (repo *CommentRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&comment.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// ListByPostID returns the comments of a post oldest first.
func (repo *CommentRepositoryDatabase) ListByPostID(ctx context.Context, postID uuid.UUID) ([]*comment.Comment, error) {
	comments := make([]*comment.Comment, 0)
	err := repo.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (repo *CommentRepositoryDatabase) CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return countByPost(ctx, repo.db, &comment.Comment{}, postIDs)
}

type postCount struct {
	PostID uuid.UUID
	Total  int64
}

// countByPost runs one grouped COUNT over model for the given posts.
func countByPost(ctx context.Context, db *gorm.DB, model interface{}, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []postCount
	err := db.WithContext(ctx).
		Model(model).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.PostID] = r.Total
	}
	return counts, nil
}
