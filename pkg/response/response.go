package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/hint/pkg/logger"
)

// ErrorBody 错误响应体，沿用 {"message": ...} 线上协议
type ErrorBody struct {
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// OK 200 + 原始负载（feed 等接口直接返回数组/对象，不加包装层）
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created 201 + 原始负载
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func BadRequest(c *gin.Context, msg string, errs ...any) {
	body := ErrorBody{Message: msg}
	if len(errs) > 0 {
		body.Errors = errs[0]
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorBody{Message: msg})
}

func Conflict(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusConflict, ErrorBody{Message: msg})
}

// InternalError 记录内部错误，对外只给泛化提示
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{Message: "internal server error"})
}
