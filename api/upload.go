package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 允许上传的 logo 格式
var logoExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".ico": true, ".webp": true,
}

// UploadHandler logo 上传
type UploadHandler struct {
	dir string
}

func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{dir: dir}
}

// UploadResponse 上传成功
type UploadResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Upload 上传 logo，保存为 <uuid><扩展名>
// @Summary 上传 logo
// @Tags 上传
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param logo formData file true "图片文件"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} Response "未选择文件或格式不支持"
// @Router /api/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("logo")
	if err != nil {
		BadRequest(c, "请选择要上传的文件")
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !logoExts[ext] {
		BadRequest(c, "仅支持图片文件")
		return
	}
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		InternalError(c, err, "上传失败")
		return
	}

	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.dir, name)); err != nil {
		InternalError(c, err, "上传失败")
		return
	}
	c.JSON(http.StatusOK, UploadResponse{Filename: name, URL: "/uploads/" + name})
}
