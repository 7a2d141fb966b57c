package api

import (
	"context"
	"net/http"

	"navhub/cache"
	"navhub/config"
	"navhub/database"
	"navhub/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Maintainer 运维接口需要的数据库能力
type Maintainer interface {
	database.Querier
	Initialize(ctx context.Context) (database.SeedCounts, error)
	Reset(ctx context.Context) (database.SeedCounts, error)
	Status(ctx context.Context) (database.Status, error)
}

// MaintenanceHandler 初始化、重置、管理员账号和诊断
type MaintenanceHandler struct {
	db    Maintainer
	cache *cache.Manager
	cfg   *config.Config
}

func NewMaintenanceHandler(db Maintainer, cm *cache.Manager, cfg *config.Config) *MaintenanceHandler {
	return &MaintenanceHandler{db: db, cache: cm, cfg: cfg}
}

// SeedResponse 初始化或重置结果
type SeedResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    database.SeedCounts `json:"data"`
}

// InitDatabase 补齐默认数据
// @Summary 初始化数据库
// @Description 只向空表写入默认菜单、管理员和友链，同时清空缓存
// @Tags 运维
// @Produce json
// @Success 200 {object} SeedResponse
// @Router /api/init/database [post]
func (h *MaintenanceHandler) InitDatabase(c *gin.Context) {
	counts, err := h.db.Initialize(c.Request.Context())
	if err != nil {
		InternalError(c, err, "数据库初始化失败")
		return
	}
	// 空表可能刚被写入默认数据
	h.cache.FlushAll(c.Request.Context())
	c.JSON(http.StatusOK, SeedResponse{Success: true, Message: "数据库初始化完成", Data: counts})
}

// ResetDatabase 清空并重新初始化
// @Summary 重置数据库
// @Description 清空所有数据并重新写入默认数据，同时清空缓存
// @Tags 运维
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SeedResponse
// @Router /api/reset/database [post]
func (h *MaintenanceHandler) ResetDatabase(c *gin.Context) {
	counts, err := h.db.Reset(c.Request.Context())
	if err != nil {
		InternalError(c, err, "数据库重置失败")
		return
	}
	h.cache.FlushAll(c.Request.Context())
	c.JSON(http.StatusOK, SeedResponse{Success: true, Message: "数据库重置完成", Data: counts})
}

func (h *MaintenanceHandler) hashAdminPassword() (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(h.cfg.Admin.Password), bcrypt.DefaultCost)
	return string(hash), err
}

// CreateAdmin 没有任何用户时创建默认管理员
// @Summary 创建管理员
// @Tags 运维
// @Produce json
// @Success 200 {object} object "success, message, username"
// @Router /api/create-admin [post]
func (h *MaintenanceHandler) CreateAdmin(c *gin.Context) {
	ctx := c.Request.Context()
	row, err := h.db.Get(ctx, "SELECT COUNT(*) AS count FROM users")
	if err != nil {
		InternalError(c, err, "创建管理员失败")
		return
	}
	if n := database.Int64(row["count"]); n > 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "管理员账号已存在", "count": n})
		return
	}

	hash, err := h.hashAdminPassword()
	if err != nil {
		InternalError(c, err, "创建管理员失败")
		return
	}
	if _, err := h.db.Run(ctx, "INSERT INTO users (username, password) VALUES (?, ?)", h.cfg.Admin.Username, hash); err != nil {
		InternalError(c, err, "创建管理员失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "管理员账号创建成功", "username": h.cfg.Admin.Username})
}

// CheckAdmin 列出现有用户
// @Summary 检查管理员
// @Tags 运维
// @Produce json
// @Success 200 {object} object "success, count, users"
// @Router /api/create-admin/check [get]
func (h *MaintenanceHandler) CheckAdmin(c *gin.Context) {
	users, err := h.db.All(c.Request.Context(), "SELECT id, username, last_login_time FROM users ORDER BY id")
	if err != nil {
		InternalError(c, err, "查询用户失败")
		return
	}
	for _, u := range users {
		u["last_login_time"] = nullable(u["last_login_time"])
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "users": users})
}

// ResetAdminPassword 用 JWT 密钥作为凭证，把管理员密码恢复为配置中的默认值
// @Summary 重置管理员密码
// @Tags 运维
// @Accept json
// @Produce json
// @Param body body models.ResetAdminPasswordRequest true "secret_key"
// @Success 200 {object} object "message, username"
// @Failure 403 {object} Response "无权限"
// @Router /api/create-admin/reset-admin-password [post]
func (h *MaintenanceHandler) ResetAdminPassword(c *gin.Context) {
	var req models.ResetAdminPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SecretKey == "" || req.SecretKey != h.cfg.JWT.Secret {
		Forbidden(c, "无权限")
		return
	}

	ctx := c.Request.Context()
	username := h.cfg.Admin.Username
	user, err := h.db.Get(ctx, "SELECT id FROM users WHERE username = ?", username)
	if err != nil {
		InternalError(c, err, "重置失败")
		return
	}
	hash, err := h.hashAdminPassword()
	if err != nil {
		InternalError(c, err, "重置失败")
		return
	}

	message := "密码重置成功"
	if user == nil {
		_, err = h.db.Run(ctx, "INSERT INTO users (username, password) VALUES (?, ?)", username, hash)
		message = "管理员账号创建成功"
	} else {
		_, err = h.db.Run(ctx, "UPDATE users SET password = ? WHERE username = ?", hash, username)
	}
	if err != nil {
		InternalError(c, err, "重置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "username": username})
}

// DebugStatus 诊断信息
// @Summary 诊断
// @Tags 运维
// @Produce json
// @Success 200 {object} object "database, driver, tables, env"
// @Router /api/debug/status [get]
func (h *MaintenanceHandler) DebugStatus(c *gin.Context) {
	st, err := h.db.Status(c.Request.Context())
	if err != nil {
		InternalError(c, err, "诊断失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"database": st.Database,
		"driver":   st.Driver,
		"ready":    st.Ready,
		"tables":   st.Tables,
		"cache":    h.cache.Backend(),
		"env": gin.H{
			"hasDatabaseUrl": h.cfg.Database.URL != "",
			"hasRedisUrl":    h.cfg.Cache.RedisURL != "",
			"mode":           h.cfg.Server.Mode,
		},
	})
}
