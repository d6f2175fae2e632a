package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/d60-Lab/hint/pkg/response"
)

var allowedImageExts = map[string]struct{}{
	".jpeg": {}, ".jpg": {}, ".png": {}, ".gif": {},
}

// saveImage 校验并落盘，返回可直接引用的 /uploads 路径
func (h *Handler) saveImage(c *gin.Context, subdir string) (string, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "no file uploaded")
		return "", false
	}
	if file.Size > h.cfg.Upload.MaxSize {
		response.BadRequest(c, "file too large")
		return "", false
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedImageExts[ext]; !ok {
		response.BadRequest(c, "only image files are allowed")
		return "", false
	}

	dir := filepath.Join(h.cfg.Upload.Dir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		response.InternalError(c, err)
		return "", false
	}
	name := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		response.InternalError(c, err)
		return "", false
	}
	return fmt.Sprintf("/uploads/%s/%s", subdir, name), true
}

// UploadPostImage 上传帖子配图
// @Summary 上传帖子图片
// @Tags 上传
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "图片文件（jpeg/png/gif，≤5MB）"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Router /api/upload-post-image [post]
func (h *Handler) UploadPostImage(c *gin.Context) {
	if url, ok := h.saveImage(c, "posts"); ok {
		response.OK(c, gin.H{"imageUrl": url})
	}
}

// UploadProfilePic 上传头像
// @Summary 上传头像
// @Tags 上传
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "图片文件（jpeg/png/gif，≤5MB）"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Router /api/upload-profile-pic [post]
func (h *Handler) UploadProfilePic(c *gin.Context) {
	if url, ok := h.saveImage(c, "profiles"); ok {
		response.OK(c, gin.H{"imageUrl": url})
	}
}
