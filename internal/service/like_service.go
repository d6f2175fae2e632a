package service

import (
	"context"

	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/internal/repository"
)

type LikeService interface {
	// Toggle 点赞开关：有则删返回 false，无则插返回 true。
	// 点赞不广播中继事件，属低紧迫度交互，刻意为之。
	Toggle(ctx context.Context, postID, userID string) (bool, error)
	// Summary 点赞数 + 最多 limit 个点赞用户
	Summary(ctx context.Context, postID string, limit int) (*model.LikeSummary, error)
}

type likeService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
}

func NewLikeService(postRepo repository.PostRepository, likeRepo repository.LikeRepository) LikeService {
	return &likeService{postRepo: postRepo, likeRepo: likeRepo}
}

func (s *likeService) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrPostNotFound
	}

	liked, err := s.likeRepo.Exists(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		// 并发下两边同时删，一边删空行也无妨，终态一致
		if _, err := s.likeRepo.Delete(ctx, postID, userID); err != nil {
			return false, err
		}
		return false, nil
	}

	// check-then-act 的竞态由 (post_id, user_id) 唯一键兜底：
	// 冲突时 Insert 返回 false，说明并发方已点赞，收敛为 liked=true
	if _, err := s.likeRepo.Insert(ctx, postID, userID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *likeService) Summary(ctx context.Context, postID string, limit int) (*model.LikeSummary, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	count, err := s.likeRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	users, err := s.likeRepo.ListUsers(ctx, postID, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.UserBrief{}
	}
	return &model.LikeSummary{Count: count, Users: users}, nil
}
