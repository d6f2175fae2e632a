package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/hint/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfileFields(ctx context.Context, id, displayName, bio, profilePicURL string) (*model.User, error)
	Search(ctx context.Context, query string, limit int) ([]model.UserBrief, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, offset, limit int) ([]*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UpdateProfileFields(ctx context.Context, id, displayName, bio, profilePicURL string) (*model.User, error) {
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]any{
			"display_name":    displayName,
			"bio":             bio,
			"profile_pic_url": profilePicURL,
		}).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Search 用户名/昵称大小写不敏感的包含匹配（LOWER LIKE，postgres/sqlite 通用）
func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]model.UserBrief, error) {
	var res []model.UserBrief
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id, username, display_name, profile_pic_url, bio").
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?)", pattern, pattern).
		Limit(limit).
		Scan(&res).Error
	return res, err
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&cnt).Error
	return cnt, err
}

func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	var res []*model.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}
