package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/api/middleware"
	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/response"
)

type signupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Country  string `json:"country" binding:"required"`
	Age      int    `json:"age" binding:"required,gte=13,lte=120"`
	Phone    string `json:"phone" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(h.cfg.Auth.CookieName, token, int(h.cfg.Auth.SessionTTL.Seconds()), "/", "", false, true)
}

// Signup 注册并建立会话
// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body signupRequest true "注册信息"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /api/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid input data", err.Error())
		return
	}
	user, token, err := h.authService.Signup(c.Request.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Country:  req.Country,
		Age:      req.Age,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Conflict(c, "username already exists")
			return
		}
		response.InternalError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	response.Created(c, gin.H{"message": "user created successfully", "user": user, "token": token})
}

// Login 登录并建立会话
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorBody
// @Router /api/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid input data", err.Error())
		return
	}
	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		response.InternalError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	response.OK(c, gin.H{"message": "login successful", "user": user, "token": token})
}

// Logout 销毁会话
// @Summary 退出登录
// @Tags 认证
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString(middleware.CtxSessionToken)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		response.InternalError(c, err)
		return
	}
	c.SetCookie(h.cfg.Auth.CookieName, "", -1, "/", "", false, true)
	response.OK(c, gin.H{"message": "logged out successfully"})
}

// AuthStatus 会话状态探测
// @Summary 认证状态
// @Tags 认证
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/status [get]
func (h *Handler) AuthStatus(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		response.OK(c, gin.H{"authenticated": false})
		return
	}
	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		// 会话还在但用户已不在（管理员删号），按未登录处理
		response.OK(c, gin.H{"authenticated": false})
		return
	}
	response.OK(c, gin.H{"authenticated": true, "userId": user.ID, "username": user.Username})
}

// CurrentUser 当前登录用户信息
// @Summary 当前用户
// @Tags 认证
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} response.ErrorBody
// @Router /api/user [get]
func (h *Handler) CurrentUser(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, user)
}
