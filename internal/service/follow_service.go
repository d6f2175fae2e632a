package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/hint/internal/repository"
)

// FollowService 关注关系服务；计数冗余走异步 replicator
type FollowService interface {
	Follow(ctx context.Context, followerID, followeeUsername string) error
	Unfollow(ctx context.Context, followerID, followeeUsername string) error
}

type followService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	replicator *CounterReplicator
	cache      ProfileCacheInvalidator
}

// ProfileCacheInvalidator 关注变更后踢掉 profile 缓存
type ProfileCacheInvalidator interface {
	Invalidate(ctx context.Context, username string)
}

func NewFollowService(userRepo repository.UserRepository, followRepo repository.FollowRepository, replicator *CounterReplicator, cache ProfileCacheInvalidator) FollowService {
	return &followService{userRepo: userRepo, followRepo: followRepo, replicator: replicator, cache: cache}
}

func (s *followService) Follow(ctx context.Context, followerID, followeeUsername string) error {
	followee, err := s.userRepo.GetByUsername(ctx, followeeUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if followee.ID == followerID {
		return ErrFollowSelf
	}

	created, err := s.followRepo.Create(ctx, followerID, followee.ID)
	if err != nil {
		return err
	}
	// 幂等重复关注不再计数
	if created && s.replicator != nil {
		s.replicator.EnqueueFollow(followerID, followee.ID)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, followeeUsername)
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followeeUsername string) error {
	followee, err := s.userRepo.GetByUsername(ctx, followeeUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	deleted, err := s.followRepo.Delete(ctx, followerID, followee.ID)
	if err != nil {
		return err
	}
	if deleted && s.replicator != nil {
		s.replicator.EnqueueUnfollow(followerID, followee.ID)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, followeeUsername)
	}
	return nil
}
