package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/hint/internal/model"
)

type LikeRepository interface {
	// Insert 插入点赞；并发下已有同 (post, user) 记录时返回 false 且不报错
	Insert(ctx context.Context, postID, userID string) (bool, error)
	// Delete 删除点赞，返回是否真的删掉了一行
	Delete(ctx context.Context, postID, userID string) (bool, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
	ListLikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error)
	ListUsers(ctx context.Context, postID string, limit int) ([]model.UserBrief, error)
	Count(ctx context.Context) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Insert(ctx context.Context, postID, userID string) (bool, error) {
	l := &model.Like{ID: uuid.New().String(), PostID: postID, UserID: userID, CreatedAt: time.Now()}
	// 唯一键兜底并发：冲突即别人先点了，RowsAffected 为 0
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}

// CountByPostIDs 按 post_id 分组计数；调用方保证 postIDs 非空
func (r *likeRepository) CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	var rows []struct {
		PostID string
		Cnt    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Select("post_id, COUNT(*) AS cnt").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make(map[string]int64, len(rows))
	for _, row := range rows {
		res[row.PostID] = row.Cnt
	}
	return res, nil
}

// ListLikedPostIDs 返回 postIDs 中被 userID 点过赞的子集
func (r *likeRepository) ListLikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	return ids, err
}

func (r *likeRepository) ListUsers(ctx context.Context, postID string, limit int) ([]model.UserBrief, error) {
	var res []model.UserBrief
	err := r.db.WithContext(ctx).
		Table("likes").
		Select("users.id, users.username, users.display_name, users.profile_pic_url").
		Joins("JOIN users ON users.id = likes.user_id").
		Where("likes.post_id = ?", postID).
		Limit(limit).
		Scan(&res).Error
	return res, err
}

func (r *likeRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Count(&cnt).Error
	return cnt, err
}
