package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/hint/internal/repository"
)

func TestToggle_Idempotent(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	p1 := seedPost(t, db, alice.ID, "hello", time.Now())

	svc := NewLikeService(repository.NewPostRepository(db), repository.NewLikeRepository(db))

	liked, err := svc.Toggle(testCtx(), p1, bob.ID)
	require.NoError(t, err)
	require.True(t, liked)
	require.EqualValues(t, 1, likeRows(t, db, p1, bob.ID))

	liked, err = svc.Toggle(testCtx(), p1, bob.ID)
	require.NoError(t, err)
	require.False(t, liked)
	require.EqualValues(t, 0, likeRows(t, db, p1, bob.ID))

	// 再点回去，状态干净翻转
	liked, err = svc.Toggle(testCtx(), p1, bob.ID)
	require.NoError(t, err)
	require.True(t, liked)
	require.EqualValues(t, 1, likeRows(t, db, p1, bob.ID))
}

func TestToggle_UnknownPost(t *testing.T) {
	db := newTestDB(t)
	bob := seedUser(t, db, "bob")

	svc := NewLikeService(repository.NewPostRepository(db), repository.NewLikeRepository(db))
	_, err := svc.Toggle(testCtx(), "missing", bob.ID)
	require.ErrorIs(t, err, ErrPostNotFound)
}

// TestToggle_Concurrent check-then-act 的竞态窗口存在，唯一键兜底后
// 任意并发交错的终态都只能是 0 行或 1 行，不会出现重复点赞。
func TestToggle_Concurrent(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	p1 := seedPost(t, db, alice.ID, "hello", time.Now())

	svc := NewLikeService(repository.NewPostRepository(db), repository.NewLikeRepository(db))

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Toggle(testCtx(), p1, bob.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.LessOrEqual(t, likeRows(t, db, p1, bob.ID), int64(1))
}

func TestSummary(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	p1 := seedPost(t, db, alice.ID, "hello", time.Now())
	for i := 0; i < 12; i++ {
		u := seedUser(t, db, fmt.Sprintf("fan%02d", i))
		seedLike(t, db, p1, u.ID)
	}

	svc := NewLikeService(repository.NewPostRepository(db), repository.NewLikeRepository(db))

	sum, err := svc.Summary(testCtx(), p1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 12, sum.Count)
	// 用户列表按上限截断，总数不受影响
	require.Len(t, sum.Users, 10)
	require.NotEmpty(t, sum.Users[0].Username)

	_, err = svc.Summary(testCtx(), "missing", 10)
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestSummary_NoLikes(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	p1 := seedPost(t, db, alice.ID, "hello", time.Now())

	svc := NewLikeService(repository.NewPostRepository(db), repository.NewLikeRepository(db))
	sum, err := svc.Summary(testCtx(), p1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 0, sum.Count)
	require.NotNil(t, sum.Users)
	require.Empty(t, sum.Users)
}
