package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/config"
	"github.com/d60-Lab/hint/internal/api/middleware"
	"github.com/d60-Lab/hint/internal/relay"
	"github.com/d60-Lab/hint/internal/service"
)

// Handler 聚合全部 HTTP 入口
type Handler struct {
	cfg            *config.Config
	authService    service.AuthService
	feedService    service.FeedService
	postService    service.PostService
	commentService service.CommentService
	likeService    service.LikeService
	profileService service.ProfileService
	followService  service.FollowService
	searchService  service.SearchService
	adminService   service.AdminService
	hub            *relay.Hub
}

type Services struct {
	Auth    service.AuthService
	Feed    service.FeedService
	Post    service.PostService
	Comment service.CommentService
	Like    service.LikeService
	Profile service.ProfileService
	Follow  service.FollowService
	Search  service.SearchService
	Admin   service.AdminService
}

func New(cfg *config.Config, svc Services, hub *relay.Hub) *Handler {
	return &Handler{
		cfg:            cfg,
		authService:    svc.Auth,
		feedService:    svc.Feed,
		postService:    svc.Post,
		commentService: svc.Comment,
		likeService:    svc.Like,
		profileService: svc.Profile,
		followService:  svc.Follow,
		searchService:  svc.Search,
		adminService:   svc.Admin,
		hub:            hub,
	}
}

// RegisterRoutes 挂载全部路由；写接口统一套会话门卫 + 限流
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	cookie := h.cfg.Auth.CookieName
	required := middleware.AuthRequired(h.authService, cookie)
	optional := middleware.AuthOptional(h.authService, cookie)
	limited := middleware.RateLimit(h.cfg.RateLimit.RPS, h.cfg.RateLimit.Burst)

	r.GET("/ws", h.WS)
	r.Static("/uploads", h.cfg.Upload.Dir)

	api := r.Group("/api")
	{
		api.POST("/signup", limited, h.Signup)
		api.POST("/login", limited, h.Login)
		api.POST("/logout", required, h.Logout)
		api.GET("/auth/status", optional, h.AuthStatus)
		api.GET("/user", required, h.CurrentUser)

		api.GET("/feed", optional, h.GetFeed)
		api.GET("/feed/:username", optional, h.GetUserFeed)
		api.GET("/posts/:postId", optional, h.GetPost)
		api.POST("/posts", required, limited, h.CreatePost)

		api.POST("/comments", required, limited, h.CreateComment)
		api.GET("/comments/:postId", optional, h.ListComments)

		api.POST("/likes", required, limited, h.ToggleLike)
		api.GET("/likes/:postId", optional, h.GetLikes)

		api.GET("/profile/:username", optional, h.GetProfile)
		api.POST("/profile/update", required, limited, h.UpdateProfile)

		api.POST("/follows", required, limited, h.Follow)
		api.DELETE("/follows/:username", required, limited, h.Unfollow)

		api.GET("/search", optional, h.Search)

		api.POST("/upload-post-image", required, limited, h.UploadPostImage)
		api.POST("/upload-profile-pic", required, limited, h.UploadProfilePic)

		admin := api.Group("/admin")
		{
			admin.POST("/login", limited, h.AdminLogin)
			authed := admin.Group("", middleware.AdminAuth(h.adminService))
			authed.GET("/stats", h.AdminStats)
			authed.GET("/users", h.AdminUsers)
		}
	}
}
