package api

import (
	"net/http"

	"navhub/cache"
	"navhub/database"
	"navhub/models"

	"github.com/gin-gonic/gin"
)

// FriendHandler 友情链接
type FriendHandler struct {
	base
}

func NewFriendHandler(db database.Querier, cm *cache.Manager) *FriendHandler {
	return &FriendHandler{base{db: db, cache: cm}}
}

// List 获取友链
// @Summary 友链列表
// @Tags 友链
// @Produce json
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {array} models.Friend "友链列表"
// @Router /api/friends [get]
func (h *FriendHandler) List(c *gin.Context) (int, any) {
	if page, size, ok := pagination(c); ok {
		res, err := h.paged(c, "friends", "*", "id", page, size)
		if err != nil {
			return failed(c, err, "获取友链失败")
		}
		return http.StatusOK, res
	}
	rows, err := h.db.All(c.Request.Context(), "SELECT * FROM friends ORDER BY id")
	if err != nil {
		return failed(c, err, "获取友链失败")
	}
	return http.StatusOK, rows
}

// Create 新增友链
// @Summary 新增友链
// @Tags 友链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.FriendRequest true "友链"
// @Success 200 {object} IDResponse
// @Router /api/friends [post]
func (h *FriendHandler) Create(c *gin.Context) {
	var req models.FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请提供友链名称和网址")
		return
	}
	res, err := h.db.Run(c.Request.Context(), "INSERT INTO friends (title, url, logo) VALUES (?, ?, ?)", req.Title, req.URL, req.Logo)
	if err != nil {
		InternalError(c, err, "新增友链失败")
		return
	}
	h.invalidate(c, CacheFriends)
	c.JSON(http.StatusOK, IDResponse{ID: res.LastInsertID})
}

// Update 修改友链
// @Summary 修改友链
// @Tags 友链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "友链ID"
// @Param body body models.FriendRequest true "友链"
// @Success 200 {object} ChangedResponse
// @Router /api/friends/{id} [put]
func (h *FriendHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请提供友链名称和网址")
		return
	}
	res, err := h.db.Run(c.Request.Context(), "UPDATE friends SET title = ?, url = ?, logo = ? WHERE id = ?", req.Title, req.URL, req.Logo, id)
	if err != nil {
		InternalError(c, err, "修改友链失败")
		return
	}
	h.invalidate(c, CacheFriends)
	c.JSON(http.StatusOK, ChangedResponse{Changed: res.RowsAffected})
}

// Delete 删除友链
// @Summary 删除友链
// @Tags 友链
// @Produce json
// @Security BearerAuth
// @Param id path int true "友链ID"
// @Success 200 {object} DeletedResponse
// @Router /api/friends/{id} [delete]
func (h *FriendHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.db.Run(c.Request.Context(), "DELETE FROM friends WHERE id = ?", id)
	if err != nil {
		InternalError(c, err, "删除友链失败")
		return
	}
	h.invalidate(c, CacheFriends)
	c.JSON(http.StatusOK, DeletedResponse{Deleted: res.RowsAffected})
}
