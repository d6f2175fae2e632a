package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/api/middleware"
	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/response"
)

type updateProfileRequest struct {
	DisplayName   string `json:"displayName" binding:"omitempty,max=64"`
	Bio           string `json:"bio" binding:"omitempty,max=280"`
	ProfilePicURL string `json:"profilePicUrl" binding:"omitempty,max=255"`
}

// GetProfile 个人主页
// @Summary 用户主页
// @Tags 主页
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} model.ProfileView
// @Failure 404 {object} response.ErrorBody
// @Router /api/profile/{username} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	view, err := h.profileService.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, view)
}

// UpdateProfile 更新昵称/简介/头像
// @Summary 更新个人资料
// @Tags 主页
// @Accept json
// @Produce json
// @Param request body updateProfileRequest true "资料"
// @Success 200 {object} model.User
// @Failure 400 {object} response.ErrorBody
// @Router /api/profile/update [post]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid profile data", err.Error())
		return
	}
	user, err := h.profileService.Update(c.Request.Context(), middleware.UserID(c), service.UpdateProfileInput{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		ProfilePicURL: req.ProfilePicURL,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, user)
}
