package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/internal/repository"
)

func followFixture(t *testing.T) (FollowService, *CounterReplicator, *gorm.DB, repository.ProfileRepository) {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	replicator := NewCounterReplicator(profileRepo, 128)
	stop := replicator.Start(2)
	t.Cleanup(func() { _ = stop(context.Background()) })

	svc := NewFollowService(userRepo, followRepo, replicator, nil)
	return svc, replicator, db, profileRepo
}

func counts(t *testing.T, profileRepo repository.ProfileRepository, userID string) (followers, following int64) {
	t.Helper()
	p, err := profileRepo.GetByUserID(testCtx(), userID)
	require.NoError(t, err)
	return p.FollowersCount, p.FollowingCount
}

func TestFollow_CounterReplication(t *testing.T) {
	svc, _, db, profileRepo := followFixture(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	require.NoError(t, profileRepo.EnsureExists(testCtx(), alice.ID))
	require.NoError(t, profileRepo.EnsureExists(testCtx(), bob.ID))

	require.NoError(t, svc.Follow(testCtx(), alice.ID, "bob"))

	// 计数异步落地，轮询等收敛
	require.Eventually(t, func() bool {
		followers, _ := counts(t, profileRepo, bob.ID)
		_, following := counts(t, profileRepo, alice.ID)
		return followers == 1 && following == 1
	}, 2*time.Second, 10*time.Millisecond)

	// 幂等重复关注：关系不变，计数不再加
	require.NoError(t, svc.Follow(testCtx(), alice.ID, "bob"))
	time.Sleep(100 * time.Millisecond)
	followers, _ := counts(t, profileRepo, bob.ID)
	require.EqualValues(t, 1, followers)

	var rel int64
	require.NoError(t, db.Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", alice.ID, bob.ID).
		Count(&rel).Error)
	require.EqualValues(t, 1, rel)

	require.NoError(t, svc.Unfollow(testCtx(), alice.ID, "bob"))
	require.Eventually(t, func() bool {
		followers, _ := counts(t, profileRepo, bob.ID)
		_, following := counts(t, profileRepo, alice.ID)
		return followers == 0 && following == 0
	}, 2*time.Second, 10*time.Millisecond)

	// 没关注过的取关：无副作用，计数不动
	require.NoError(t, svc.Unfollow(testCtx(), alice.ID, "bob"))
	time.Sleep(100 * time.Millisecond)
	followers, _ = counts(t, profileRepo, bob.ID)
	require.EqualValues(t, 0, followers)
}

func TestFollow_SelfAndUnknown(t *testing.T) {
	svc, _, db, _ := followFixture(t)
	alice := seedUser(t, db, "alice")

	require.ErrorIs(t, svc.Follow(testCtx(), alice.ID, "alice"), ErrFollowSelf)
	require.ErrorIs(t, svc.Follow(testCtx(), alice.ID, "nobody"), ErrUserNotFound)
	require.ErrorIs(t, svc.Unfollow(testCtx(), alice.ID, "nobody"), ErrUserNotFound)
}

func TestCounterReplicator_QueueFullDrops(t *testing.T) {
	db := newTestDB(t)
	profileRepo := repository.NewProfileRepository(db)

	// 不启动 worker，队列塞满后 Enqueue 必须立即返回而不是阻塞
	replicator := NewCounterReplicator(profileRepo, 2)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			replicator.EnqueueFollow("a", "b")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on full queue")
	}
	require.Equal(t, 2, replicator.QueueLen())
}
