package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/hint/internal/repository"
	"github.com/d60-Lab/hint/pkg/logger"
	"github.com/d60-Lab/hint/pkg/metrics"
)

type counterAction int

const (
	actionFollow counterAction = iota + 1
	actionUnfollow
)

type counterJob struct {
	action     counterAction
	followerID string
	followeeID string
}

// CounterReplicator 把关注/取关产生的计数变更异步落到 profiles 冗余表。
// 写路径只入队不等待，队满即丢（计数允许短暂偏差，最终由冗余表收敛）。
type CounterReplicator struct {
	profileRepo repository.ProfileRepository
	ch          chan counterJob
}

func NewCounterReplicator(profileRepo repository.ProfileRepository, queueSize int) *CounterReplicator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &CounterReplicator{profileRepo: profileRepo, ch: make(chan counterJob, queueSize)}
}

// Start 启动 worker 池，返回停止函数（停止时等待队列自然排空一小段时间）
func (r *CounterReplicator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-r.ch:
					r.apply(job)
					metrics.CounterQueueDepth.Set(float64(len(r.ch)))
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(r.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

func (r *CounterReplicator) apply(job counterJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	switch job.action {
	case actionFollow:
		// followee 粉丝 +1，follower 关注 +1
		_ = r.profileRepo.ApplyDelta(ctx, job.followeeID, 1, 0)
		_ = r.profileRepo.ApplyDelta(ctx, job.followerID, 0, 1)
	case actionUnfollow:
		_ = r.profileRepo.ApplyDelta(ctx, job.followeeID, -1, 0)
		_ = r.profileRepo.ApplyDelta(ctx, job.followerID, 0, -1)
	}
}

func (r *CounterReplicator) EnqueueFollow(followerID, followeeID string) {
	select {
	case r.ch <- counterJob{action: actionFollow, followerID: followerID, followeeID: followeeID}:
	default:
		logger.Warn("counter queue full, drop follow", zap.String("follower", followerID), zap.String("followee", followeeID))
	}
}

func (r *CounterReplicator) EnqueueUnfollow(followerID, followeeID string) {
	select {
	case r.ch <- counterJob{action: actionUnfollow, followerID: followerID, followeeID: followeeID}:
	default:
		logger.Warn("counter queue full, drop unfollow", zap.String("follower", followerID), zap.String("followee", followeeID))
	}
}

// QueueLen 返回当前队列长度（采样值）
func (r *CounterReplicator) QueueLen() int { return len(r.ch) }
