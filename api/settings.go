package api

import (
	"encoding/json"
	"net/http"

	"navhub/cache"
	"navhub/database"
	"navhub/models"

	"github.com/gin-gonic/gin"
)

// SettingsHandler 网站设置（键值对）
type SettingsHandler struct {
	base
}

func NewSettingsHandler(db database.Querier, cm *cache.Manager) *SettingsHandler {
	return &SettingsHandler{base{db: db, cache: cm}}
}

// List 获取所有网站设置（公开）
// @Summary 网站设置
// @Tags 设置
// @Produce json
// @Success 200 {object} object "data: {key: value}"
// @Router /api/settings [get]
func (h *SettingsHandler) List(c *gin.Context) (int, any) {
	rows, err := h.db.All(c.Request.Context(), "SELECT key, value, description FROM site_settings")
	if err != nil {
		return failed(c, err, "服务器错误")
	}
	settings := make(map[string]any, len(rows))
	for _, r := range rows {
		settings[database.String(r["key"])] = r["value"]
	}
	return http.StatusOK, gin.H{"data": settings}
}

// Get 获取单个设置
// @Summary 单个设置
// @Tags 设置
// @Produce json
// @Param key path string true "设置键"
// @Success 200 {object} object "data: {key, value, description}"
// @Failure 404 {object} Response "设置项不存在"
// @Router /api/settings/{key} [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	row, err := h.db.Get(c.Request.Context(), "SELECT key, value, description FROM site_settings WHERE key = ?", c.Param("key"))
	if err != nil {
		InternalError(c, err, "服务器错误")
		return
	}
	if row == nil {
		NotFound(c, "设置项不存在")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": row})
}

// settingValue 非字符串的值按 JSON 文本保存
func settingValue(v any) any {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		return s
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return database.String(s)
		}
		return string(b)
	}
}

// UpdateAll 批量更新设置，不存在的键会被创建
// @Summary 批量更新设置
// @Tags 设置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "{key: value}"
// @Success 200 {object} MessageResponse
// @Router /api/settings [put]
func (h *SettingsHandler) UpdateAll(c *gin.Context) {
	var settings map[string]any
	if err := c.ShouldBindJSON(&settings); err != nil {
		BadRequest(c, "无效的设置数据")
		return
	}
	ctx := c.Request.Context()
	for key, v := range settings {
		value := settingValue(v)
		if _, err := h.db.Run(ctx,
			"INSERT INTO site_settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = ?",
			key, value, value); err != nil {
			InternalError(c, err, "更新设置失败")
			return
		}
	}
	h.invalidate(c, CacheSettings)
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "设置更新成功"})
}

// Update 更新单个设置
// @Summary 更新单个设置
// @Tags 设置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "设置键"
// @Param body body models.SettingRequest true "值和描述"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} Response "缺少value参数"
// @Router /api/settings/{key} [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req models.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		BadRequest(c, "缺少value参数")
		return
	}
	ctx := c.Request.Context()
	key := c.Param("key")

	existing, err := h.db.Get(ctx, "SELECT id FROM site_settings WHERE key = ?", key)
	if err != nil {
		InternalError(c, err, "更新设置失败")
		return
	}
	switch {
	case existing != nil && req.Description != nil:
		_, err = h.db.Run(ctx, "UPDATE site_settings SET value = ?, description = ? WHERE key = ?", *req.Value, *req.Description, key)
	case existing != nil:
		_, err = h.db.Run(ctx, "UPDATE site_settings SET value = ? WHERE key = ?", *req.Value, key)
	default:
		desc := ""
		if req.Description != nil {
			desc = *req.Description
		}
		_, err = h.db.Run(ctx, "INSERT INTO site_settings (key, value, description) VALUES (?, ?, ?)", key, *req.Value, desc)
	}
	if err != nil {
		InternalError(c, err, "更新设置失败")
		return
	}
	h.invalidate(c, CacheSettings)
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "设置更新成功"})
}

// Delete 删除设置
// @Summary 删除设置
// @Tags 设置
// @Produce json
// @Security BearerAuth
// @Param key path string true "设置键"
// @Success 200 {object} MessageResponse
// @Router /api/settings/{key} [delete]
func (h *SettingsHandler) Delete(c *gin.Context) {
	if _, err := h.db.Run(c.Request.Context(), "DELETE FROM site_settings WHERE key = ?", c.Param("key")); err != nil {
		InternalError(c, err, "删除设置失败")
		return
	}
	h.invalidate(c, CacheSettings)
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "设置删除成功"})
}
