package service

import (
	"context"

	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/internal/repository"
)

const searchLimit = 10

type SearchService interface {
	// Search type 取 all/users/posts，各类最多返回 10 条
	Search(ctx context.Context, query, typ string) (*model.SearchResults, error)
}

type searchService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

func NewSearchService(userRepo repository.UserRepository, postRepo repository.PostRepository) SearchService {
	return &searchService{userRepo: userRepo, postRepo: postRepo}
}

func (s *searchService) Search(ctx context.Context, query, typ string) (*model.SearchResults, error) {
	res := &model.SearchResults{}

	if typ == "all" || typ == "users" {
		users, err := s.userRepo.Search(ctx, query, searchLimit)
		if err != nil {
			return nil, err
		}
		if users == nil {
			users = []model.UserBrief{}
		}
		res.Users = users
	}

	if typ == "all" || typ == "posts" {
		posts, err := s.postRepo.Search(ctx, query, searchLimit)
		if err != nil {
			return nil, err
		}
		if posts == nil {
			posts = []model.PostView{}
		}
		res.Posts = posts
	}

	return res, nil
}
