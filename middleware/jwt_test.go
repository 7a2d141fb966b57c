package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"navhub/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initJWTTestConfig() {
	config.GlobalConfig = &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-jwt-secret-key"},
	}
}

func TestGenerateToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)

	token, err := GenerateToken(1, "testuser", 24*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, len(token), 20)

	// 可解析
	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)

	// 合法 token
	token, _ := GenerateToken(100, "admin", time.Hour)
	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(100), claims.UserID)
	assert.Equal(t, "admin", claims.Username)

	// 空字符串
	_, err = ParseToken("")
	assert.Error(t, err)

	// 无效格式
	_, err = ParseToken("not.a.valid.jwt")
	assert.Error(t, err)
	_, err = ParseToken("eyJhbGciOiJmb29iIn0.xxxx.yyyy")
	assert.Error(t, err)

	// 已过期
	expired, _ := GenerateToken(1, "admin", -time.Minute)
	_, err = ParseToken(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	// 其他密钥签名
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Username: "admin"})
	forged, _ := other.SignedString([]byte("another-secret"))
	_, err = ParseToken(forged)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWTAuth(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(JWTAuth())
	router.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, "id:%d user:%s", GetCurrentUserID(c), GetCurrentUsername(c))
	})

	valid, err := GenerateToken(42, "user42", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(42, "user42", -time.Second)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, "未授权"},
		{"basic scheme", "Basic xyz", http.StatusUnauthorized, "未授权"},
		{"bearer without token", "Bearer ", http.StatusUnauthorized, "未授权"},
		{"bad signature", "Bearer eyJhbGciOiJIUzI1NiJ9.e30.invalid", http.StatusUnauthorized, "无效token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "无效token"},
		{"valid", "Bearer " + valid, http.StatusOK, "id:42 user:user42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, int64(0), GetCurrentUserID(c))

	c.Set("userID", int64(99))
	assert.Equal(t, int64(99), GetCurrentUserID(c))
}
