package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/relay"
)

// WS 接入通知中继（无鉴权，载荷仅为刷新提示）
// @Summary websocket 通知通道
// @Tags 中继
// @Router /ws [get]
func (h *Handler) WS(c *gin.Context) {
	relay.ServeWS(h.hub, c.Writer, c.Request)
}
