package model

import "time"

// Profile 冗余的关注计数（由异步计数器落地，读路径只读）
type Profile struct {
	ID             string    `json:"-" gorm:"primaryKey;type:varchar(36)"`
	UserID         string    `json:"userId" gorm:"type:varchar(36);uniqueIndex;not null"`
	FollowersCount int64     `json:"followersCount" gorm:"not null;default:0"`
	FollowingCount int64     `json:"followingCount" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (Profile) TableName() string { return "profiles" }
