package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/api/middleware"
	"github.com/d60-Lab/hint/pkg/response"
)

type createPostRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=280"`
	ImageURL string `json:"imageUrl" binding:"omitempty,max=255"`
}

// CreatePost 发帖；imageUrl 须是已上传媒体的引用
// @Summary 发布帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body createPostRequest true "帖子内容"
// @Success 201 {object} model.PostView
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid post data", err.Error())
		return
	}
	view, err := h.postService.Create(c.Request.Context(), middleware.UserID(c), req.Content, req.ImageURL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, view)
}
