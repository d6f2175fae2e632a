package service

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/internal/repository"
)

// FeedService feed 聚合：帖子连表作者，再按 id 集合补齐评论数/点赞数/viewer 点赞态。
// 三次聚合查询与帖子列表查询之间不保证同一瞬时快照，并发写入下计数短暂偏低是允许的。
type FeedService interface {
	// GetFeed 全局 feed；viewerID 为空串表示未登录
	GetFeed(ctx context.Context, viewerID string, limit, offset int) ([]model.FeedItem, error)
	// GetFeedForAuthor 单作者 feed；用户不存在返回 ErrUserNotFound（区别于空列表）
	GetFeedForAuthor(ctx context.Context, username, viewerID string, limit, offset int) ([]model.FeedItem, error)
	// GetPostDetail 单帖详情；帖子不存在返回 ErrPostNotFound
	GetPostDetail(ctx context.Context, postID, viewerID string) (*model.PostDetail, error)
}

type feedService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
}

func NewFeedService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
) FeedService {
	return &feedService{userRepo: userRepo, postRepo: postRepo, commentRepo: commentRepo, likeRepo: likeRepo}
}

func (s *feedService) GetFeed(ctx context.Context, viewerID string, limit, offset int) ([]model.FeedItem, error) {
	posts, err := s.postRepo.ListFeed(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, viewerID)
}

func (s *feedService) GetFeedForAuthor(ctx context.Context, username, viewerID string, limit, offset int) ([]model.FeedItem, error) {
	// 先解析用户名，"查无此人"和"有人但没发帖"必须可区分
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	posts, err := s.postRepo.ListByAuthor(ctx, author.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, viewerID)
}

// enrich 为一页帖子补齐聚合字段；空页短路，不发 IN () 查询。
// 合并用"查表取默认值"，保持输入顺序，绝不重排。
func (s *feedService) enrich(ctx context.Context, posts []model.PostView, viewerID string) ([]model.FeedItem, error) {
	if len(posts) == 0 {
		return []model.FeedItem{}, nil
	}

	postIDs := lo.Map(posts, func(p model.PostView, _ int) string { return p.ID })

	commentCounts, err := s.commentRepo.CountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	likeCounts, err := s.likeRepo.CountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	liked := map[string]struct{}{}
	if viewerID != "" {
		likedIDs, err := s.likeRepo.ListLikedPostIDs(ctx, viewerID, postIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			liked[id] = struct{}{}
		}
	}

	items := make([]model.FeedItem, len(posts))
	for i, p := range posts {
		_, isLiked := liked[p.ID]
		items[i] = model.FeedItem{
			PostView:     p,
			CommentCount: commentCounts[p.ID], // 缺席即 0
			LikeCount:    likeCounts[p.ID],
			IsLiked:      isLiked,
		}
	}
	return items, nil
}

func (s *feedService) GetPostDetail(ctx context.Context, postID, viewerID string) (*model.PostDetail, error) {
	post, err := s.postRepo.GetView(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comments, err := s.commentRepo.ListViewsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	likeCount, err := s.likeRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	// 单帖走直接存在性检查，不复用 feed 的批量路径
	isLiked := false
	if viewerID != "" {
		isLiked, err = s.likeRepo.Exists(ctx, postID, viewerID)
		if err != nil {
			return nil, err
		}
	}

	if comments == nil {
		comments = []model.CommentView{}
	}
	return &model.PostDetail{
		PostView:  *post,
		Comments:  comments,
		LikeCount: likeCount,
		IsLiked:   isLiked,
	}, nil
}
