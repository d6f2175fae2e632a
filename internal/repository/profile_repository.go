package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/hint/internal/model"
)

type ProfileRepository interface {
	// EnsureExists 为用户补建空 profile（注册/首次登录时调用，幂等）
	EnsureExists(ctx context.Context, userID string) error
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	// ApplyDelta 对冗余计数做原子增减（异步计数器的落地路径）
	ApplyDelta(ctx context.Context, userID string, followersDelta, followingDelta int64) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepository{db: db} }

func (r *profileRepository) EnsureExists(ctx context.Context, userID string) error {
	p := &model.Profile{ID: uuid.New().String(), UserID: userID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(p).Error
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) ApplyDelta(ctx context.Context, userID string, followersDelta, followingDelta int64) error {
	updates := map[string]any{}
	if followersDelta != 0 {
		updates["followers_count"] = gorm.Expr("followers_count + ?", followersDelta)
	}
	if followingDelta != 0 {
		updates["following_count"] = gorm.Expr("following_count + ?", followingDelta)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}
