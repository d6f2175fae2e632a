package model

import "time"

// 视图结构：post/comment 连表作者信息后的对外形态。
// 计数字段（commentCount/likeCount/isLiked）不落库，由聚合层按需填充。

// PostView 帖子 + 作者信息
type PostView struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName,omitempty"`
	ProfilePicURL string    `json:"profilePicUrl,omitempty"`
}

// FeedItem feed 里的富化帖子视图
type FeedItem struct {
	PostView
	CommentCount int64 `json:"commentCount"`
	LikeCount    int64 `json:"likeCount"`
	IsLiked      bool  `json:"isLiked"`
}

// CommentView 评论 + 作者信息
type CommentView struct {
	ID            string    `json:"id"`
	PostID        string    `json:"postId"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName,omitempty"`
	ProfilePicURL string    `json:"profilePicUrl,omitempty"`
}

// PostDetail 单帖详情：帖子 + 全量评论 + 点赞状态
type PostDetail struct {
	PostView
	Comments  []CommentView `json:"comments"`
	LikeCount int64         `json:"likeCount"`
	IsLiked   bool          `json:"isLiked"`
}

// UserBrief 点赞列表/搜索里的用户摘要
type UserBrief struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	DisplayName   string `json:"displayName,omitempty"`
	ProfilePicURL string `json:"profilePicUrl,omitempty"`
	Bio           string `json:"bio,omitempty"`
}

// LikeSummary GET /api/likes/:postId 响应
type LikeSummary struct {
	Count int64       `json:"count"`
	Users []UserBrief `json:"users"`
}

// ProfileView 个人主页：用户信息 + 冗余计数 + 发帖数
type ProfileView struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"displayName,omitempty"`
	Email          string    `json:"email"`
	ProfilePicURL  string    `json:"profilePicUrl,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Country        string    `json:"country"`
	Age            int       `json:"age"`
	CreatedAt      time.Time `json:"createdAt"`
	FollowersCount int64     `json:"followersCount"`
	FollowingCount int64     `json:"followingCount"`
	PostCount      int64     `json:"postCount"`
}

// SearchResults GET /api/search 响应
type SearchResults struct {
	Users []UserBrief `json:"users,omitempty"`
	Posts []PostView  `json:"posts,omitempty"`
}
