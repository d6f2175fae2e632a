package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/api/middleware"
	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/response"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 100
)

func pageArgs(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultFeedLimit)))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetFeed 全局 feed（时间倒序，富化计数字段）
// @Summary 全局 feed
// @Tags feed
// @Produce json
// @Param limit query int false "页大小" default(50)
// @Param offset query int false "偏移" default(0)
// @Success 200 {array} model.FeedItem
// @Failure 500 {object} response.ErrorBody
// @Router /api/feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	limit, offset := pageArgs(c)
	items, err := h.feedService.GetFeed(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GetUserFeed 单作者 feed；用户不存在 404（区别于空列表）
// @Summary 用户 feed
// @Tags feed
// @Produce json
// @Param username path string true "用户名"
// @Param limit query int false "页大小" default(50)
// @Param offset query int false "偏移" default(0)
// @Success 200 {array} model.FeedItem
// @Failure 404 {object} response.ErrorBody
// @Router /api/feed/{username} [get]
func (h *Handler) GetUserFeed(c *gin.Context) {
	limit, offset := pageArgs(c)
	items, err := h.feedService.GetFeedForAuthor(c.Request.Context(), c.Param("username"), middleware.UserID(c), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GetPost 单帖详情（帖子 + 全部评论 + 点赞状态）
// @Summary 帖子详情
// @Tags feed
// @Produce json
// @Param postId path string true "帖子ID"
// @Success 200 {object} model.PostDetail
// @Failure 404 {object} response.ErrorBody
// @Router /api/posts/{postId} [get]
func (h *Handler) GetPost(c *gin.Context) {
	detail, err := h.feedService.GetPostDetail(c.Request.Context(), c.Param("postId"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, detail)
}
