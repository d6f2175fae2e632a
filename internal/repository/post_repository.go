package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/hint/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, userID, content, imageURL string) (string, error)
	Exists(ctx context.Context, id string) (bool, error)
	GetView(ctx context.Context, id string) (*model.PostView, error)
	ListFeed(ctx context.Context, offset, limit int) ([]model.PostView, error)
	ListByAuthor(ctx context.Context, userID string, offset, limit int) ([]model.PostView, error)
	Search(ctx context.Context, query string, limit int) ([]model.PostView, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

// postViewColumns 连表作者信息的统一投影
const postViewColumns = "posts.id, posts.content, posts.image_url, posts.created_at, posts.user_id, " +
	"users.username, users.display_name, users.profile_pic_url"

func (r *postRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select(postViewColumns).
		Joins("JOIN users ON users.id = posts.user_id")
}

func (r *postRepository) Create(ctx context.Context, userID, content, imageURL string) (string, error) {
	p := &model.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return "", err
	}
	return p.ID, nil
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *postRepository) GetView(ctx context.Context, id string) (*model.PostView, error) {
	var v model.PostView
	err := r.viewQuery(ctx).Where("posts.id = ?", id).Scan(&v).Error
	if err != nil {
		return nil, err
	}
	// Scan 查不到不会报 ErrRecordNotFound，用零值 ID 判断
	if v.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *postRepository) ListFeed(ctx context.Context, offset, limit int) ([]model.PostView, error) {
	var res []model.PostView
	err := r.viewQuery(ctx).
		Order("posts.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&res).Error
	return res, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, userID string, offset, limit int) ([]model.PostView, error) {
	var res []model.PostView
	err := r.viewQuery(ctx).
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&res).Error
	return res, err
}

func (r *postRepository) Search(ctx context.Context, query string, limit int) ([]model.PostView, error) {
	var res []model.PostView
	err := r.viewQuery(ctx).
		Where("LOWER(posts.content) LIKE LOWER(?)", "%"+query+"%").
		Order("posts.created_at DESC").
		Limit(limit).
		Scan(&res).Error
	return res, err
}

func (r *postRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&cnt).Error
	return cnt, err
}
