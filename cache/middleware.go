package cache

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// JSONHandler 返回状态码和响应数据，由 JSON 负责序列化和写出
type JSONHandler func(c *gin.Context) (int, any)

// Key 请求对应的缓存键：前缀 + 完整请求路径（含查询参数）
func Key(prefix string, c *gin.Context) string {
	return prefix + ":" + c.Request.URL.RequestURI()
}

// JSON 缓存只读接口的 JSON 响应。
// 命中时直接返回缓存的字节；未命中时执行 h，只缓存 200 响应。
// 命中与未命中写出的是同一份序列化结果。
func JSON(m *Manager, prefix string, ttl time.Duration, h JSONHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := Key(prefix, c)
		if body, ok := m.GetBytes(c.Request.Context(), key); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		}

		status, data := h(c)
		if c.Writer.Written() {
			return
		}
		body, err := json.Marshal(data)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "响应序列化失败"})
			return
		}

		if status == http.StatusOK && m != nil {
			ctx := context.WithoutCancel(c.Request.Context())
			go m.SetBytes(ctx, key, body, ttl)
		}
		c.Data(status, "application/json; charset=utf-8", body)
	}
}
