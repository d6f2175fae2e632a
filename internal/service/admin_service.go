package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/hint/config"
	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/internal/repository"
)

// AdminStats 管理后台的全局计数
type AdminStats struct {
	Users    int64 `json:"users"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
	Likes    int64 `json:"likes"`
}

// AdminService 管理后台：凭证在服务端校验（原实现把硬编码账号放在前端，这里收回来），
// 通过后签发短时效 HS256 JWT。
type AdminService interface {
	Login(username, password string) (string, error)
	VerifyToken(token string) error
	Stats(ctx context.Context) (*AdminStats, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]*model.User, error)
}

type adminService struct {
	cfg         config.AdminConfig
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
}

func NewAdminService(cfg config.AdminConfig, userRepo repository.UserRepository, postRepo repository.PostRepository, commentRepo repository.CommentRepository, likeRepo repository.LikeRepository) AdminService {
	return &adminService{cfg: cfg, userRepo: userRepo, postRepo: postRepo, commentRepo: commentRepo, likeRepo: likeRepo}
}

func (s *adminService) Login(username, password string) (string, error) {
	if s.cfg.Username == "" || s.cfg.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if username != s.cfg.Username {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	ttl := s.cfg.TokenTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *adminService) VerifyToken(token string) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return jwt.ErrTokenInvalidClaims
	}
	return nil
}

func (s *adminService) Stats(ctx context.Context) (*AdminStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	likes, err := s.likeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminStats{Users: users, Posts: posts, Comments: comments, Likes: likes}, nil
}

func (s *adminService) ListUsers(ctx context.Context, page, pageSize int) ([]*model.User, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.userRepo.List(ctx, (page-1)*pageSize, pageSize)
}
