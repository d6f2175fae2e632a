package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/api/middleware"
	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/response"
)

type followRequest struct {
	Username string `json:"username" binding:"required"`
}

// Follow 建立关注（计数异步冗余到 profiles）
// @Summary 关注用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "被关注用户名"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/follows [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid follow data", err.Error())
		return
	}
	err := h.followService.Follow(c.Request.Context(), middleware.UserID(c), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrFollowSelf):
			response.BadRequest(c, "cannot follow self")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"following": true})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Param username path string true "被取关用户名"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/follows/{username} [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	err := h.followService.Unfollow(c.Request.Context(), middleware.UserID(c), c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"following": false})
}
