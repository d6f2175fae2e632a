package service

import (
	"context"

	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/internal/repository"
)

type CommentService interface {
	// Create 评论：写前校验帖子存在，落库后回查连表作者，并广播 new_comment 提示
	Create(ctx context.Context, postID, userID, content string) (*model.CommentView, error)
	// List 某帖全部评论（时间倒序）；帖子不存在返回 ErrPostNotFound
	List(ctx context.Context, postID string) ([]model.CommentView, error)
}

type commentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	relay       Publisher
}

func NewCommentService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, relay Publisher) CommentService {
	if relay == nil {
		relay = NoopPublisher()
	}
	return &commentService{postRepo: postRepo, commentRepo: commentRepo, relay: relay}
}

func (s *commentService) Create(ctx context.Context, postID, userID, content string) (*model.CommentView, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	id, err := s.commentRepo.Create(ctx, postID, userID, content)
	if err != nil {
		return nil, err
	}
	view, err := s.commentRepo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	s.relay.Publish(map[string]any{"action": "new_comment", "postId": postID})
	return view, nil
}

func (s *commentService) List(ctx context.Context, postID string) ([]model.CommentView, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}
	comments, err := s.commentRepo.ListViewsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.CommentView{}
	}
	return comments, nil
}
