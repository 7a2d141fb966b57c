package api

import (
	"net/http"

	"navhub/cache"
	"navhub/database"
	"navhub/models"

	"github.com/gin-gonic/gin"
)

// AdHandler 广告位
type AdHandler struct {
	base
}

func NewAdHandler(db database.Querier, cm *cache.Manager) *AdHandler {
	return &AdHandler{base{db: db, cache: cm}}
}

// List 获取广告
// @Summary 广告列表
// @Tags 广告
// @Produce json
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {array} object "广告列表"
// @Router /api/ads [get]
func (h *AdHandler) List(c *gin.Context) (int, any) {
	if page, size, ok := pagination(c); ok {
		res, err := h.paged(c, "ads", "*", "id", page, size)
		if err != nil {
			return failed(c, err, "获取广告失败")
		}
		return http.StatusOK, res
	}
	rows, err := h.db.All(c.Request.Context(), "SELECT * FROM ads ORDER BY id")
	if err != nil {
		return failed(c, err, "获取广告失败")
	}
	return http.StatusOK, rows
}

// Create 新增广告
// @Summary 新增广告
// @Tags 广告
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.AdRequest true "广告"
// @Success 200 {object} IDResponse
// @Router /api/ads [post]
func (h *AdHandler) Create(c *gin.Context) {
	var req models.AdRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Position == "" {
		BadRequest(c, "请提供广告位置、图片和链接")
		return
	}
	res, err := h.db.Run(c.Request.Context(), "INSERT INTO ads (position, img, url) VALUES (?, ?, ?)", req.Position, req.Img, req.URL)
	if err != nil {
		InternalError(c, err, "新增广告失败")
		return
	}
	h.invalidate(c, CacheAds)
	c.JSON(http.StatusOK, IDResponse{ID: res.LastInsertID})
}

// Update 修改广告图片和链接
// @Summary 修改广告
// @Tags 广告
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "广告ID"
// @Param body body models.AdRequest true "广告"
// @Success 200 {object} ChangedResponse
// @Router /api/ads/{id} [put]
func (h *AdHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.AdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请提供广告图片和链接")
		return
	}
	res, err := h.db.Run(c.Request.Context(), "UPDATE ads SET img = ?, url = ? WHERE id = ?", req.Img, req.URL, id)
	if err != nil {
		InternalError(c, err, "修改广告失败")
		return
	}
	h.invalidate(c, CacheAds)
	c.JSON(http.StatusOK, ChangedResponse{Changed: res.RowsAffected})
}

// Delete 删除广告
// @Summary 删除广告
// @Tags 广告
// @Produce json
// @Security BearerAuth
// @Param id path int true "广告ID"
// @Success 200 {object} DeletedResponse
// @Router /api/ads/{id} [delete]
func (h *AdHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.db.Run(c.Request.Context(), "DELETE FROM ads WHERE id = ?", id)
	if err != nil {
		InternalError(c, err, "删除广告失败")
		return
	}
	h.invalidate(c, CacheAds)
	c.JSON(http.StatusOK, DeletedResponse{Deleted: res.RowsAffected})
}
