package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/response"
)

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin 管理后台登录，签发短时效 JWT
// @Summary 管理员登录
// @Tags 管理后台
// @Accept json
// @Produce json
// @Param request body adminLoginRequest true "凭证"
// @Success 200 {object} map[string]string
// @Failure 401 {object} response.ErrorBody
// @Router /api/admin/login [post]
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid input data", err.Error())
		return
	}
	token, err := h.adminService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"token": token})
}

// AdminStats 全局计数
// @Summary 平台统计
// @Tags 管理后台
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AdminStats
// @Failure 401 {object} response.ErrorBody
// @Router /api/admin/stats [get]
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats)
}

// AdminUsers 用户分页列表
// @Summary 用户列表
// @Tags 管理后台
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorBody
// @Router /api/admin/users [get]
func (h *Handler) AdminUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	users, err := h.adminService.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"page": page, "page_size": pageSize, "list": users})
}
