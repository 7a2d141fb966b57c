package api

import (
	"context"
	"net/http"
	"testing"

	"navhub/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func userRouter(db database.Querier, userID int64) *gin.Engine {
	h := NewUserHandler(db)
	r := gin.New()
	r.Use(setUserID(userID))
	r.GET("/api/users/profile", h.Profile)
	r.GET("/api/users/me", h.Me)
	r.PUT("/api/users/password", h.ChangePassword)
	r.GET("/api/users", h.List)
	return r
}

func TestUserHandler_Profile(t *testing.T) {
	db := setupTestDB(t, testConfig(t))

	w := doJSON(userRouter(db, 1), http.MethodGet, "/api/users/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody[map[string]map[string]any](t, w)["data"]
	assert.Equal(t, "admin", data["username"])
	assert.NotContains(t, data, "password")

	w = doJSON(userRouter(db, 42), http.MethodGet, "/api/users/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_Me(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	_, err := db.Run(context.Background(), "UPDATE users SET last_login_time = ?, last_login_ip = ? WHERE id = 1", "2026-10-19 08:00:00", "1.1.1.1")
	require.NoError(t, err)

	w := doJSON(userRouter(db, 1), http.MethodGet, "/api/users/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "2026-10-19 08:00:00", resp["last_login_time"])
	assert.Equal(t, "1.1.1.1", resp["last_login_ip"])
}

func TestUserHandler_ChangePassword(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	r := userRouter(db, 1)

	tests := []struct {
		name    string
		body    map[string]string
		code    int
		message string
	}{
		{"missing fields", map[string]string{"oldPassword": "123456"}, http.StatusBadRequest, "请提供旧密码和新密码"},
		{"too short", map[string]string{"oldPassword": "123456", "newPassword": "123"}, http.StatusBadRequest, "新密码长度至少6位"},
		{"wrong old password", map[string]string{"oldPassword": "nope", "newPassword": "abcdef"}, http.StatusBadRequest, "旧密码错误"},
		{"success", map[string]string{"oldPassword": "123456", "newPassword": "abcdef"}, http.StatusOK, "密码修改成功"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPut, "/api/users/password", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}

	row, err := db.Get(context.Background(), "SELECT password FROM users WHERE id = 1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(database.String(row["password"])), []byte("abcdef")))
}

func TestUserHandler_List(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	r := userRouter(db, 1)

	w := doJSON(r, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decodeBody[map[string][]map[string]any](t, w)["data"]
	require.Len(t, users, 1)
	assert.NotContains(t, users[0], "password")

	w = doJSON(r, http.MethodGet, "/api/users?page=1&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody[map[string]any](t, w)["total"])
}
