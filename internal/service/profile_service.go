package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/internal/repository"
)

const profileCacheKeyFmt = "profile:%s"

type UpdateProfileInput struct {
	DisplayName   string
	Bio           string
	ProfilePicURL string
}

type ProfileService interface {
	// Get 个人主页视图；未知用户返回 ErrUserNotFound
	Get(ctx context.Context, username string) (*model.ProfileView, error)
	Update(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error)
	// Invalidate 实现 ProfileCacheInvalidator
	Invalidate(ctx context.Context, username string)
}

type profileService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	rdb         *redis.Client
	ttl         time.Duration
}

func NewProfileService(userRepo repository.UserRepository, postRepo repository.PostRepository, profileRepo repository.ProfileRepository, rdb *redis.Client, ttl time.Duration) ProfileService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &profileService{userRepo: userRepo, postRepo: postRepo, profileRepo: profileRepo, rdb: rdb, ttl: ttl}
}

// Get 带 TTL 的旁路缓存：命中直接反序列化，未命中回源再写缓存。
// 缓存读写失败都只当 miss 处理，不影响主路径。
func (s *profileService) Get(ctx context.Context, username string) (*model.ProfileView, error) {
	key := fmt.Sprintf(profileCacheKeyFmt, username)
	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var cached model.ProfileView
			if uErr := json.Unmarshal(data, &cached); uErr == nil {
				return &cached, nil
			}
		}
	}

	view, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(view); err == nil {
			_ = s.rdb.Set(ctx, key, payload, s.ttl).Err()
		}
	}
	return view, nil
}

func (s *profileService) load(ctx context.Context, username string) (*model.ProfileView, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// profile 缺席按零计数处理，不算错误
	var followers, following int64
	if p, err := s.profileRepo.GetByUserID(ctx, user.ID); err == nil {
		followers, following = p.FollowersCount, p.FollowingCount
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	postCount, err := s.postRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.ProfileView{
		ID:             user.ID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Email:          user.Email,
		ProfilePicURL:  user.ProfilePicURL,
		Bio:            user.Bio,
		Country:        user.Country,
		Age:            user.Age,
		CreatedAt:      user.CreatedAt,
		FollowersCount: followers,
		FollowingCount: following,
		PostCount:      postCount,
	}, nil
}

func (s *profileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.UpdateProfileFields(ctx, userID, in.DisplayName, in.Bio, in.ProfilePicURL)
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, user.Username)
	return user, nil
}

func (s *profileService) Invalidate(ctx context.Context, username string) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, fmt.Sprintf(profileCacheKeyFmt, username)).Err()
}
