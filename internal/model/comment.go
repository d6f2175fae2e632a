package model

import "time"

// Comment 评论，只追加不修改
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"postId" gorm:"type:varchar(36);index:idx_comment_post;not null"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null"`
	Content   string    `json:"content" gorm:"type:varchar(280);not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Comment) TableName() string { return "comments" }
