package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/hint/config"
	"github.com/d60-Lab/hint/internal/relay"
	"github.com/d60-Lab/hint/internal/repository"
	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/database"
)

// newTestRouter 组装完整应用：内存 sqlite + miniredis + 真 hub
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	adminHash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Auth: config.AuthConfig{SessionTTL: time.Hour, CookieName: "hint_session"},
		Admin: config.AdminConfig{
			Username:     "admin",
			PasswordHash: string(adminHash),
			JWTSecret:    "test-secret",
			TokenTTL:     time.Minute,
		},
		Upload:    config.UploadConfig{Dir: t.TempDir(), MaxSize: 5 << 20},
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	hub := relay.NewHub()
	go hub.Run()

	replicator := service.NewCounterReplicator(profileRepo, 128)
	stop := replicator.Start(2)
	t.Cleanup(func() { _ = stop(context.Background()) })

	profileSvc := service.NewProfileService(userRepo, postRepo, profileRepo, rdb, time.Minute)
	svcs := Services{
		Auth:    service.NewAuthService(userRepo, profileRepo, rdb, cfg.Auth.SessionTTL),
		Feed:    service.NewFeedService(userRepo, postRepo, commentRepo, likeRepo),
		Post:    service.NewPostService(postRepo, hub),
		Comment: service.NewCommentService(postRepo, commentRepo, hub),
		Like:    service.NewLikeService(postRepo, likeRepo),
		Profile: profileSvc,
		Follow:  service.NewFollowService(userRepo, followRepo, replicator, profileSvc),
		Search:  service.NewSearchService(userRepo, postRepo),
		Admin:   service.NewAdminService(cfg.Admin, userRepo, postRepo, commentRepo, likeRepo),
	}

	r := gin.New()
	New(cfg, svcs, hub).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// signup 注册并返回会话 token
func signup(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/signup", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"country":  "US",
		"age":      28,
		"phone":    "+10000000000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestSignupFlow(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "alice")

	// 重复用户名 409
	w := doJSON(t, r, http.MethodPost, "/api/signup", "", gin.H{
		"username": "alice", "email": "a@example.com", "password": "secret123",
		"country": "US", "age": 28, "phone": "+10000000000",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	var errBody struct {
		Message string `json:"message"`
	}
	decode(t, w, &errBody)
	require.Equal(t, "username already exists", errBody.Message)

	// 会话可用
	w = doJSON(t, r, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user struct {
		Username string `json:"username"`
	}
	decode(t, w, &user)
	require.Equal(t, "alice", user.Username)
	// 密码哈希绝不下发
	require.NotContains(t, w.Body.String(), "password")

	// 登录
	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// 登出后会话失效
	w = doJSON(t, r, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthStatus(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/auth/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username"`
	}
	decode(t, w, &status)
	require.False(t, status.Authenticated)

	token := signup(t, r, "alice")
	w = doJSON(t, r, http.MethodGet, "/api/auth/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &status)
	require.True(t, status.Authenticated)
	require.Equal(t, "alice", status.Username)
}

func TestPostCommentLikeFeedFlow(t *testing.T) {
	r := newTestRouter(t)
	aliceToken := signup(t, r, "alice")
	bobToken := signup(t, r, "bob")

	// 发帖
	w := doJSON(t, r, http.MethodPost, "/api/posts", aliceToken, gin.H{"content": "hello world"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	decode(t, w, &post)
	require.NotEmpty(t, post.ID)
	require.Equal(t, "alice", post.Username)

	// 评论 + 点赞
	w = doJSON(t, r, http.MethodPost, "/api/comments", bobToken, gin.H{"postId": post.ID, "content": "nice"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/likes", bobToken, gin.H{"postId": post.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var toggle struct {
		Liked bool `json:"liked"`
	}
	decode(t, w, &toggle)
	require.True(t, toggle.Liked)

	// bob 看 feed：计数齐全，isLiked=true；裸数组，无包装层
	w = doJSON(t, r, http.MethodGet, "/api/feed", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []struct {
		ID           string `json:"id"`
		CommentCount int64  `json:"commentCount"`
		LikeCount    int64  `json:"likeCount"`
		IsLiked      bool   `json:"isLiked"`
	}
	decode(t, w, &feed)
	require.Len(t, feed, 1)
	require.Equal(t, post.ID, feed[0].ID)
	require.EqualValues(t, 1, feed[0].CommentCount)
	require.EqualValues(t, 1, feed[0].LikeCount)
	require.True(t, feed[0].IsLiked)

	// 匿名看同一条：isLiked=false
	w = doJSON(t, r, http.MethodGet, "/api/feed", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &feed)
	require.False(t, feed[0].IsLiked)

	// 帖子详情带全部评论
	w = doJSON(t, r, http.MethodGet, "/api/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Comments []struct {
			Content  string `json:"content"`
			Username string `json:"username"`
		} `json:"comments"`
		LikeCount int64 `json:"likeCount"`
	}
	decode(t, w, &detail)
	require.Len(t, detail.Comments, 1)
	require.Equal(t, "nice", detail.Comments[0].Content)
	require.Equal(t, "bob", detail.Comments[0].Username)
	require.EqualValues(t, 1, detail.LikeCount)

	// 点赞概览
	w = doJSON(t, r, http.MethodGet, "/api/likes/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var likes struct {
		Count int64 `json:"count"`
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	}
	decode(t, w, &likes)
	require.EqualValues(t, 1, likes.Count)
	require.Len(t, likes.Users, 1)
	require.Equal(t, "bob", likes.Users[0].Username)

	// 作者 feed 与查无此人
	w = doJSON(t, r, http.MethodGet, "/api/feed/alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &feed)
	require.Len(t, feed, 1)

	w = doJSON(t, r, http.MethodGet, "/api/feed/nobody", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	var errBody struct {
		Message string `json:"message"`
	}
	decode(t, w, &errBody)
	require.Equal(t, "user not found", errBody.Message)
}

func TestWriteEndpointsRequireSession(t *testing.T) {
	r := newTestRouter(t)

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/posts", gin.H{"content": "x"}},
		{http.MethodPost, "/api/comments", gin.H{"postId": "p", "content": "x"}},
		{http.MethodPost, "/api/likes", gin.H{"postId": "p"}},
		{http.MethodPost, "/api/profile/update", gin.H{"bio": "x"}},
		{http.MethodPost, "/api/follows", gin.H{"username": "x"}},
		{http.MethodPost, "/api/logout", nil},
		{http.MethodGet, "/api/user", nil},
	} {
		w := doJSON(t, r, tc.method, tc.path, "", tc.body)
		require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}

	// 无效 token 同样拦下
	w := doJSON(t, r, http.MethodPost, "/api/posts", "bogus-token", gin.H{"content": "x"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidation(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "alice")

	// 空内容
	w := doJSON(t, r, http.MethodPost, "/api/posts", token, gin.H{"content": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 超长内容
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	w = doJSON(t, r, http.MethodPost, "/api/posts", token, gin.H{"content": string(long)})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 缺 postId
	w = doJSON(t, r, http.MethodPost, "/api/likes", token, gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 注册字段校验
	w = doJSON(t, r, http.MethodPost, "/api/signup", "", gin.H{
		"username": "x", "email": "not-an-email", "password": "x",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 点赞不存在的帖子
	w = doJSON(t, r, http.MethodPost, "/api/likes", token, gin.H{"postId": "missing"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileAndFollow(t *testing.T) {
	r := newTestRouter(t)
	aliceToken := signup(t, r, "alice")
	bobToken := signup(t, r, "bob")

	w := doJSON(t, r, http.MethodPost, "/api/posts", aliceToken, gin.H{"content": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)

	// bob 关注 alice
	w = doJSON(t, r, http.MethodPost, "/api/follows", bobToken, gin.H{"username": "alice"})
	require.Equal(t, http.StatusOK, w.Code)

	// 关注自己 400
	w = doJSON(t, r, http.MethodPost, "/api/follows", bobToken, gin.H{"username": "bob"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 计数异步落地后出现在主页上
	require.Eventually(t, func() bool {
		w := doJSON(t, r, http.MethodGet, "/api/profile/alice", "", nil)
		if w.Code != http.StatusOK {
			return false
		}
		var view struct {
			FollowersCount int64 `json:"followersCount"`
			PostCount      int64 `json:"postCount"`
		}
		decode(t, w, &view)
		return view.FollowersCount == 1 && view.PostCount == 1
	}, 2*time.Second, 20*time.Millisecond)

	// 取关
	req := httptest.NewRequest(http.MethodDelete, "/api/follows/alice", nil)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// 更新资料并立刻可见
	w = doJSON(t, r, http.MethodPost, "/api/profile/update", aliceToken, gin.H{
		"displayName": "Alice L.",
		"bio":         "hi there",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/profile/alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
	}
	decode(t, w, &view)
	require.Equal(t, "Alice L.", view.DisplayName)
	require.Equal(t, "hi there", view.Bio)

	w = doJSON(t, r, http.MethodGet, "/api/profile/nobody", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "alice")
	signup(t, r, "alicia")

	w := doJSON(t, r, http.MethodPost, "/api/posts", token, gin.H{"content": "Go concurrency"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/search?q=ali&type=users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	}
	decode(t, w, &res)
	require.Len(t, res.Users, 2)

	// 缺关键词 / 非法类型
	w = doJSON(t, r, http.MethodGet, "/api/search", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/search?q=x&type=bogus", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	r := newTestRouter(t)
	signup(t, r, "alice")

	// 未带 token 一律 401
	w := doJSON(t, r, http.MethodGet, "/api/admin/stats", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// 普通用户会话 token 进不了管理后台
	userToken := signup(t, r, "bob")
	w = doJSON(t, r, http.MethodGet, "/api/admin/stats", userToken, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/admin/login", "", gin.H{"username": "admin", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/admin/login", "", gin.H{"username": "admin", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)

	w = doJSON(t, r, http.MethodGet, "/api/admin/stats", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Users int64 `json:"users"`
	}
	decode(t, w, &stats)
	require.EqualValues(t, 2, stats.Users)

	w = doJSON(t, r, http.MethodGet, "/api/admin/users?page=1&page_size=10", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users struct {
		List []struct {
			Username string `json:"username"`
		} `json:"list"`
	}
	decode(t, w, &users)
	require.Len(t, users.List, 2)
}
