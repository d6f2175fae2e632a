package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/hint/internal/repository"
)

func authFixture(t *testing.T) (AuthService, *miniredis.Miniredis, repository.ProfileRepository) {
	t.Helper()
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	profileRepo := repository.NewProfileRepository(db)
	svc := NewAuthService(repository.NewUserRepository(db), profileRepo, rdb, time.Hour)
	return svc, mr, profileRepo
}

func TestSignupLoginFlow(t *testing.T) {
	svc, _, profileRepo := authFixture(t)

	in := SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Country:  "US",
		Age:      28,
		Phone:    "+10000000000",
	}
	user, token, err := svc.Signup(testCtx(), in)
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEmpty(t, token)
	// 密码只存哈希
	require.NotEqual(t, "secret123", user.Password)

	// 会话立刻可用
	uid, err := svc.Resolve(testCtx(), token)
	require.NoError(t, err)
	require.Equal(t, user.ID, uid)

	// 注册即补建 profile
	p, err := profileRepo.GetByUserID(testCtx(), user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, p.FollowersCount)

	// 用户名占用
	_, _, err = svc.Signup(testCtx(), in)
	require.ErrorIs(t, err, ErrUsernameTaken)

	// 登录：新会话，新 token
	user2, token2, err := svc.Login(testCtx(), "alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, user.ID, user2.ID)
	require.NotEqual(t, token, token2)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := authFixture(t)
	_, _, err := svc.Signup(testCtx(), SignupInput{
		Username: "alice", Email: "a@example.com", Password: "secret123",
		Country: "US", Age: 28, Phone: "+10000000000",
	})
	require.NoError(t, err)

	// 密码错误与用户不存在必须是同一个错误
	_, _, err = svc.Login(testCtx(), "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(testCtx(), "nobody", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutAndSessionExpiry(t *testing.T) {
	svc, mr, _ := authFixture(t)
	_, token, err := svc.Signup(testCtx(), SignupInput{
		Username: "alice", Email: "a@example.com", Password: "secret123",
		Country: "US", Age: 28, Phone: "+10000000000",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(testCtx(), token))
	_, err = svc.Resolve(testCtx(), token)
	require.ErrorIs(t, err, ErrSessionNotFound)

	// 会话到期后同样失效
	_, token2, err := svc.Login(testCtx(), "alice", "secret123")
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)
	_, err = svc.Resolve(testCtx(), token2)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResolve_UnknownToken(t *testing.T) {
	svc, _, _ := authFixture(t)
	_, err := svc.Resolve(testCtx(), "not-a-session")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
