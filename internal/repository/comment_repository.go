package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/hint/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, postID, userID, content string) (string, error)
	GetView(ctx context.Context, id string) (*model.CommentView, error)
	ListViewsByPost(ctx context.Context, postID string) ([]model.CommentView, error)
	CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
	Count(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

const commentViewColumns = "comments.id, comments.post_id, comments.content, comments.created_at, " +
	"comments.user_id, users.username, users.display_name, users.profile_pic_url"

func (r *commentRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments").
		Select(commentViewColumns).
		Joins("JOIN users ON users.id = comments.user_id")
}

func (r *commentRepository) Create(ctx context.Context, postID, userID, content string) (string, error) {
	c := &model.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return "", err
	}
	return c.ID, nil
}

func (r *commentRepository) GetView(ctx context.Context, id string) (*model.CommentView, error) {
	var v model.CommentView
	if err := r.viewQuery(ctx).Where("comments.id = ?", id).Scan(&v).Error; err != nil {
		return nil, err
	}
	if v.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *commentRepository) ListViewsByPost(ctx context.Context, postID string) ([]model.CommentView, error) {
	var res []model.CommentView
	err := r.viewQuery(ctx).
		Where("comments.post_id = ?", postID).
		Order("comments.created_at DESC").
		Scan(&res).Error
	return res, err
}

// CountByPostIDs 按 post_id 分组计数；调用方保证 postIDs 非空
func (r *commentRepository) CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	var rows []struct {
		PostID string
		Cnt    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
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

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Count(&cnt).Error
	return cnt, err
}
