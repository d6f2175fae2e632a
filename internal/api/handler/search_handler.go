package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/pkg/response"
)

// Search 搜索用户/帖子
// @Summary 搜索
// @Tags 搜索
// @Produce json
// @Param q query string true "关键词"
// @Param type query string false "范围 all/users/posts" default(all)
// @Success 200 {object} model.SearchResults
// @Failure 400 {object} response.ErrorBody
// @Router /api/search [get]
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "search query is required")
		return
	}
	typ := c.DefaultQuery("type", "all")
	switch typ {
	case "all", "users", "posts":
	default:
		response.BadRequest(c, "invalid search type")
		return
	}

	results, err := h.searchService.Search(c.Request.Context(), query, typ)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, results)
}
