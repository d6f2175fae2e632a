package model

import "time"

// Post 内容主体（发布后不可修改，无编辑/删除路径）
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);index:idx_post_author;not null"`
	Content   string    `json:"content" gorm:"type:varchar(280);not null"`
	ImageURL  string    `json:"imageUrl,omitempty" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_post_created"`
}

func (Post) TableName() string { return "posts" }
