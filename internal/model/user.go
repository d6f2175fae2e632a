package model

import "time"

// User 用户主体；Password 存 bcrypt 哈希，永不序列化
type User struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username      string    `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	Email         string    `json:"email" gorm:"type:varchar(255);not null"`
	Password      string    `json:"-" gorm:"type:varchar(255);not null"`
	DisplayName   string    `json:"displayName,omitempty" gorm:"type:varchar(64)"`
	Bio           string    `json:"bio,omitempty" gorm:"type:varchar(280)"`
	ProfilePicURL string    `json:"profilePicUrl,omitempty" gorm:"type:varchar(255)"`
	Country       string    `json:"country" gorm:"type:varchar(64);not null"`
	Age           int       `json:"age" gorm:"not null"`
	Phone         string    `json:"phone" gorm:"type:varchar(32);not null"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"-"`
}

func (User) TableName() string { return "users" }
