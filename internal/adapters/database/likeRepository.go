package database

import (
	"context"
	"minisocial/internal/core/like"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepositoryDatabase struct {
	db *gorm.DB
}

func NewLikeRepositoryDatabase(db *gorm.DB) *LikeRepositoryDatabase {
	return &LikeRepositoryDatabase{db: db}
}

// Insert relies on the (post_id, user_id) unique index. A concurrent
// duplicate is dropped by the database instead of surfacing as an error.
func (repo *LikeRepositoryDatabase) Insert(ctx context.Context, like *like.Like) (bool, error) {
	res := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(like)
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (repo *LikeRepositoryDatabase) DeleteByPostAndUser(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	res := repo.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&like.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (repo *LikeRepositoryDatabase) CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return countByPost(ctx, repo.db, &like.Like{}, postIDs)
}

func (repo *LikeRepositoryDatabase) LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool)
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []uuid.UUID
	err := repo.db.WithContext(ctx).
		Model(&like.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
