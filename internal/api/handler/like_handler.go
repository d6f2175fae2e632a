package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/api/middleware"
	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/response"
)

const likeUsersLimit = 10

type toggleLikeRequest struct {
	PostID string `json:"postId" binding:"required"`
}

// ToggleLike 点赞开关
// @Summary 点赞/取消点赞
// @Tags 点赞
// @Accept json
// @Produce json
// @Param request body toggleLikeRequest true "帖子ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} response.ErrorBody
// @Router /api/likes [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid like data", err.Error())
		return
	}
	liked, err := h.likeService.Toggle(c.Request.Context(), req.PostID, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"liked": liked})
}

// GetLikes 点赞数 + 点赞用户（最多 10 个）
// @Summary 帖子点赞概览
// @Tags 点赞
// @Produce json
// @Param postId path string true "帖子ID"
// @Success 200 {object} model.LikeSummary
// @Failure 404 {object} response.ErrorBody
// @Router /api/likes/{postId} [get]
func (h *Handler) GetLikes(c *gin.Context) {
	summary, err := h.likeService.Summary(c.Request.Context(), c.Param("postId"), likeUsersLimit)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, summary)
}
