package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/pkg/database"
)

// newTestDB 内存 sqlite；写连接收敛到 1 条，避免并发测试撞 database is locked
func newTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(tb, err)
	require.NoError(tb, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(tb, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func seedUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(tb, err)
	u := &model.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Country:  "US",
		Age:      30,
		Phone:    "+10000000000",
	}
	require.NoError(tb, db.Create(u).Error)
	return u
}

// seedPost 直接落库，时间可控，排序断言才稳定
func seedPost(tb testing.TB, db *gorm.DB, userID, content string, createdAt time.Time) string {
	tb.Helper()
	p := &model.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: createdAt,
	}
	require.NoError(tb, db.Create(p).Error)
	return p.ID
}

func seedComment(tb testing.TB, db *gorm.DB, postID, userID, content string, createdAt time.Time) string {
	tb.Helper()
	c := &model.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: createdAt,
	}
	require.NoError(tb, db.Create(c).Error)
	return c.ID
}

func seedLike(tb testing.TB, db *gorm.DB, postID, userID string) {
	tb.Helper()
	l := &model.Like{ID: uuid.New().String(), PostID: postID, UserID: userID, CreatedAt: time.Now()}
	require.NoError(tb, db.Create(l).Error)
}

func likeRows(tb testing.TB, db *gorm.DB, postID, userID string) int64 {
	tb.Helper()
	var cnt int64
	require.NoError(tb, db.Model(&model.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&cnt).Error)
	return cnt
}

func testCtx() context.Context { return context.Background() }
