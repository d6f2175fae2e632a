package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/internal/repository"
)

const sessionKeyPrefix = "session:"

// SignupInput 注册入参（绑定校验在 handler 层）
type SignupInput struct {
	Username string
	Email    string
	Password string
	Country  string
	Age      int
	Phone    string
}

// AuthService 注册/登录/会话门卫。会话是 redis 里的不透明 token → userID 映射。
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, string, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Logout(ctx context.Context, token string) error
	// Resolve 把会话 token 换成 userID；无效会话返回 ErrSessionNotFound
	Resolve(ctx context.Context, token string) (string, error)
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	rdb         *redis.Client
	sessionTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, rdb *redis.Client, sessionTTL time.Duration) AuthService {
	return &authService{userRepo: userRepo, profileRepo: profileRepo, rdb: rdb, sessionTTL: sessionTTL}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		ID:       uuid.New().String(),
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Country:  in.Country,
		Age:      in.Age,
		Phone:    in.Phone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}
	if err := s.profileRepo.EnsureExists(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户不存在与密码错误给同一提示，不泄露用户名是否注册
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	// 老账号可能没有 profile，登录时补建
	if err := s.profileRepo.EnsureExists(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}

func (s *authService) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	return userID, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) startSession(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, userID, s.sessionTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}
