package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(strict bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(), CORS([]string{"http://localhost:5173"}, strict))
	r.GET("/api/menus", func(c *gin.Context) { c.String(200, "ok") })
	return r
}

func corsReq(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/menus", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS_Strict(t *testing.T) {
	r := newCORSRouter(true)

	w := corsReq(r, "GET", "http://localhost:5173")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = corsReq(r, "GET", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// 无 Origin 的请求放行
	w = corsReq(r, "GET", "")
	assert.Equal(t, 200, w.Code)
}

func TestCORS_DevelopmentAllowsAny(t *testing.T) {
	r := newCORSRouter(false)

	w := corsReq(r, "GET", "http://any-domain.com")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "http://any-domain.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = corsReq(r, "OPTIONS", "http://any-domain.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}
