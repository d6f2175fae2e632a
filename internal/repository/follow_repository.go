package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/hint/internal/model"
)

type FollowRepository interface {
	// Create 幂等建立关注；返回是否真的新建了一行（计数器只对新建加一）
	Create(ctx context.Context, followerID, followeeID string) (bool, error)
	// Delete 取消关注，返回是否真的删掉了一行
	Delete(ctx context.Context, followerID, followeeID string) (bool, error)
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowing(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error)
	ListFollowers(ctx context.Context, followeeID string, offset, limit int) ([]*model.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) (bool, error) {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FolloweeID: followeeID}
	// 幂等：重复关注不报错
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).Where("follower_id = ?", followerID).Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowers(ctx context.Context, followeeID string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).Where("followee_id = ?", followeeID).Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}
