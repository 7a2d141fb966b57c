package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"navhub/cache"
	"navhub/config"
	"navhub/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func maintenanceRouter(db Maintainer, cm *cache.Manager, cfg *config.Config) *gin.Engine {
	h := NewMaintenanceHandler(db, cm, cfg)
	r := gin.New()
	r.POST("/api/init/database", h.InitDatabase)
	r.POST("/api/reset/database", h.ResetDatabase)
	r.POST("/api/create-admin", h.CreateAdmin)
	r.GET("/api/create-admin/check", h.CheckAdmin)
	r.POST("/api/create-admin/reset-admin-password", h.ResetAdminPassword)
	r.GET("/api/debug/status", h.DebugStatus)
	return r
}

func TestMaintenanceHandler_InitDatabase(t *testing.T) {
	cfg := testConfig(t)
	db := setupTestDB(t, cfg)
	ctx := context.Background()
	_, err := db.Run(ctx, "DELETE FROM friends")
	require.NoError(t, err)

	w := doJSON(maintenanceRouter(db, nil, cfg), http.MethodPost, "/api/init/database", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[SeedResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "数据库初始化完成", resp.Message)
	assert.Equal(t, database.SeedCounts{Menus: 6, Users: 1, Friends: 2}, resp.Data)
}

func TestMaintenanceHandler_ResetDatabase(t *testing.T) {
	cfg := testConfig(t)
	db := setupTestDB(t, cfg)
	ctx := context.Background()
	cm := cache.NewMemoryManager(time.Minute, 100, 10)
	cm.SetBytes(ctx, "menus:/api/menus", []byte("[]"), time.Minute)

	_, err := db.Run(ctx, "INSERT INTO menus (name, sort_order) VALUES ('Extra', 7)")
	require.NoError(t, err)

	w := doJSON(maintenanceRouter(db, cm, cfg), http.MethodPost, "/api/reset/database", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[SeedResponse](t, w)
	assert.Equal(t, "数据库重置完成", resp.Message)
	assert.Equal(t, database.SeedCounts{Menus: 6, Users: 1, Friends: 2}, resp.Data)

	_, ok := cm.GetBytes(ctx, "menus:/api/menus")
	assert.False(t, ok)

	first, err := db.Get(ctx, "SELECT id FROM menus ORDER BY id LIMIT 1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), database.Int64(first["id"]))
}

func TestMaintenanceHandler_CreateAdmin(t *testing.T) {
	cfg := testConfig(t)
	db := setupTestDB(t, cfg)
	r := maintenanceRouter(db, nil, cfg)

	w := doJSON(r, http.MethodPost, "/api/create-admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "管理员账号已存在", resp["message"])
	assert.Equal(t, float64(1), resp["count"])

	_, err := db.Run(context.Background(), "DELETE FROM users")
	require.NoError(t, err)

	w = doJSON(r, http.MethodPost, "/api/create-admin", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decodeBody[map[string]any](t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "admin", resp["username"])
	assert.NotContains(t, resp, "password")

	w = doJSON(r, http.MethodGet, "/api/create-admin/check", nil)
	require.Equal(t, http.StatusOK, w.Code)
	check := decodeBody[map[string]any](t, w)
	assert.Equal(t, float64(1), check["count"])
	users := check["users"].([]any)
	assert.Equal(t, "admin", users[0].(map[string]any)["username"])
	assert.Nil(t, users[0].(map[string]any)["last_login_time"])
}

func TestMaintenanceHandler_ResetAdminPassword(t *testing.T) {
	cfg := testConfig(t)
	db := setupTestDB(t, cfg)
	ctx := context.Background()
	r := maintenanceRouter(db, nil, cfg)

	for _, body := range []any{nil, map[string]string{"secret_key": "wrong"}, map[string]string{"secret_key": ""}} {
		w := doJSON(r, http.MethodPost, "/api/create-admin/reset-admin-password", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "无权限")
	}

	_, err := db.Run(ctx, "UPDATE users SET password = 'x' WHERE username = 'admin'")
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/api/create-admin/reset-admin-password", map[string]string{"secret_key": "test-secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "密码重置成功", resp["message"])
	assert.NotContains(t, resp, "password")

	row, err := db.Get(ctx, "SELECT password FROM users WHERE username = 'admin'")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(database.String(row["password"])), []byte("123456")))

	// 用户不存在时重新创建
	_, err = db.Run(ctx, "DELETE FROM users")
	require.NoError(t, err)
	w = doJSON(r, http.MethodPost, "/api/create-admin/reset-admin-password", map[string]string{"secret_key": "test-secret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "管理员账号创建成功", decodeBody[map[string]any](t, w)["message"])
}

func TestMaintenanceHandler_DebugStatus(t *testing.T) {
	cfg := testConfig(t)
	db := setupTestDB(t, cfg)

	w := doJSON(maintenanceRouter(db, nil, cfg), http.MethodGet, "/api/debug/status", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "connected", resp["database"])
	assert.Equal(t, config.DriverSQLite, resp["driver"])
	assert.Equal(t, "disabled", resp["cache"])
	tables := resp["tables"].(map[string]any)
	menus := tables["menus"].(map[string]any)
	assert.Equal(t, float64(6), menus["count"])
	assert.Len(t, menus["data"], 6)
	env := resp["env"].(map[string]any)
	assert.Equal(t, false, env["hasDatabaseUrl"])
}
