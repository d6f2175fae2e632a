package service

import (
	"context"

	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/internal/repository"
)

// Publisher 通知中继的发布端；载荷只是"该刷新了"的提示，不携带可信数据
type Publisher interface {
	Publish(payload any)
}

// noopPublisher 测试或未接中继时的空实现
type noopPublisher struct{}

func (noopPublisher) Publish(any) {}

// NoopPublisher 返回不做任何事的 Publisher
func NoopPublisher() Publisher { return noopPublisher{} }

type PostService interface {
	// Create 发帖：落库后回查连表作者信息，并广播 new_post 提示
	Create(ctx context.Context, userID, content, imageURL string) (*model.PostView, error)
}

type postService struct {
	postRepo repository.PostRepository
	relay    Publisher
}

func NewPostService(postRepo repository.PostRepository, relay Publisher) PostService {
	if relay == nil {
		relay = NoopPublisher()
	}
	return &postService{postRepo: postRepo, relay: relay}
}

func (s *postService) Create(ctx context.Context, userID, content, imageURL string) (*model.PostView, error) {
	id, err := s.postRepo.Create(ctx, userID, content, imageURL)
	if err != nil {
		return nil, err
	}
	// 回查连表，客户端无需自己拼作者信息
	view, err := s.postRepo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	s.relay.Publish(map[string]any{"action": "new_post"})
	return view, nil
}
