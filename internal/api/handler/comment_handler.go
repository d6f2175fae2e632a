package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/api/middleware"
	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/response"
)

type createCommentRequest struct {
	PostID  string `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required,min=1,max=280"`
}

// CreateComment 评论
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param request body createCommentRequest true "评论内容"
// @Success 201 {object} model.CommentView
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid comment data", err.Error())
		return
	}
	view, err := h.commentService.Create(c.Request.Context(), req.PostID, middleware.UserID(c), req.Content)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, view)
}

// ListComments 某帖全部评论
// @Summary 帖子评论列表
// @Tags 评论
// @Produce json
// @Param postId path string true "帖子ID"
// @Success 200 {array} model.CommentView
// @Failure 404 {object} response.ErrorBody
// @Router /api/comments/{postId} [get]
func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.commentService.List(c.Request.Context(), c.Param("postId"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, comments)
}
