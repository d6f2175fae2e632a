package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/hint/config"
	"github.com/d60-Lab/hint/internal/model"
	"github.com/d60-Lab/hint/internal/repository"
	"github.com/d60-Lab/hint/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// seeds a small demo dataset so the feed has something to show on first run
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	ctx := context.Background()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	hash := string(must(bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)))

	seedUsers := []struct{ name, email, country string }{
		{"alice", "alice@example.com", "Germany"},
		{"bob", "bob@example.com", "Japan"},
		{"carol", "carol@example.com", "Brazil"},
	}
	ids := make([]string, 0, len(seedUsers))
	for i, su := range seedUsers {
		user := &model.User{
			ID:       uuid.New().String(),
			Username: su.name,
			Email:    su.email,
			Password: hash,
			Country:  su.country,
			Age:      20 + i,
			Phone:    fmt.Sprintf("+100000000%d", i),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			// 已经 seed 过：复用现有用户
			user = must(userRepo.GetByUsername(ctx, su.name))
		}
		must(true, profileRepo.EnsureExists(ctx, user.ID))
		ids = append(ids, user.ID)
	}

	p1 := must(postRepo.Create(ctx, ids[0], "hello from alice", ""))
	p2 := must(postRepo.Create(ctx, ids[1], "bob checking in", ""))
	must(commentRepo.Create(ctx, p1, ids[1], "hi alice!"))
	must(commentRepo.Create(ctx, p1, ids[2], "welcome"))
	must(likeRepo.Insert(ctx, p1, ids[1]))
	must(likeRepo.Insert(ctx, p1, ids[2]))
	must(likeRepo.Insert(ctx, p2, ids[0]))

	fmt.Println("seeded 3 users, 2 posts, 2 comments, 3 likes")
}
