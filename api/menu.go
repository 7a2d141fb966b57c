package api

import (
	"net/http"

	"navhub/cache"
	"navhub/database"
	"navhub/models"

	"github.com/gin-gonic/gin"
)

// MenuHandler 菜单与子菜单
type MenuHandler struct {
	base
}

func NewMenuHandler(db database.Querier, cm *cache.Manager) *MenuHandler {
	return &MenuHandler{base{db: db, cache: cm}}
}

// List 获取所有菜单（包含子菜单）
// @Summary 菜单列表
// @Description 不带分页参数时返回全部菜单及其子菜单；带 page/pageSize 时返回分页结果（不含子菜单）
// @Tags 菜单
// @Produce json
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {array} object "菜单列表"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/menus [get]
func (h *MenuHandler) List(c *gin.Context) (int, any) {
	ctx := c.Request.Context()
	if page, size, ok := pagination(c); ok {
		res, err := h.paged(c, "menus", "*", "sort_order", page, size)
		if err != nil {
			return failed(c, err, "获取菜单失败")
		}
		return http.StatusOK, res
	}

	menus, err := h.db.All(ctx, "SELECT * FROM menus ORDER BY sort_order")
	if err != nil {
		return failed(c, err, "获取菜单失败")
	}
	subs, err := h.db.All(ctx, "SELECT * FROM sub_menus ORDER BY sort_order")
	if err != nil {
		return failed(c, err, "获取子菜单失败")
	}

	byParent := make(map[int64][]database.Row)
	for _, s := range subs {
		pid := database.Int64(s["parent_id"])
		byParent[pid] = append(byParent[pid], s)
	}
	for _, m := range menus {
		children := byParent[database.Int64(m["id"])]
		if children == nil {
			children = []database.Row{}
		}
		m["subMenus"] = children
	}
	return http.StatusOK, menus
}

// SubMenus 获取指定菜单的子菜单
// @Summary 子菜单列表
// @Tags 菜单
// @Produce json
// @Param id path int true "菜单ID"
// @Success 200 {array} object "子菜单列表"
// @Router /api/menus/{id}/submenus [get]
func (h *MenuHandler) SubMenus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rows, err := h.db.All(c.Request.Context(), "SELECT * FROM sub_menus WHERE parent_id = ? ORDER BY sort_order", id)
	if err != nil {
		InternalError(c, err, "获取子菜单失败")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Create 新增菜单
// @Summary 新增菜单
// @Tags 菜单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.MenuRequest true "菜单"
// @Success 200 {object} IDResponse
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/menus [post]
func (h *MenuHandler) Create(c *gin.Context) {
	var req models.MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	res, err := h.db.Run(c.Request.Context(), "INSERT INTO menus (name, sort_order) VALUES (?, ?)", req.Name, req.Order)
	if err != nil {
		InternalError(c, err, "新增菜单失败")
		return
	}
	h.invalidate(c, CacheMenus)
	c.JSON(http.StatusOK, IDResponse{ID: res.LastInsertID})
}

// Update 修改菜单
// @Summary 修改菜单
// @Tags 菜单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜单ID"
// @Param body body models.MenuRequest true "菜单"
// @Success 200 {object} ChangedResponse
// @Router /api/menus/{id} [put]
func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	res, err := h.db.Run(c.Request.Context(), "UPDATE menus SET name = ?, sort_order = ? WHERE id = ?", req.Name, req.Order, id)
	if err != nil {
		InternalError(c, err, "修改菜单失败")
		return
	}
	h.invalidate(c, CacheMenus)
	c.JSON(http.StatusOK, ChangedResponse{Changed: res.RowsAffected})
}

// Delete 删除菜单，子菜单和卡片级联删除
// @Summary 删除菜单
// @Tags 菜单
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜单ID"
// @Success 200 {object} DeletedResponse
// @Router /api/menus/{id} [delete]
func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.db.Run(c.Request.Context(), "DELETE FROM menus WHERE id = ?", id)
	if err != nil {
		InternalError(c, err, "删除菜单失败")
		return
	}
	h.invalidate(c, CacheMenus, CacheCards)
	c.JSON(http.StatusOK, DeletedResponse{Deleted: res.RowsAffected})
}

// CreateSubMenu 新增子菜单
// @Summary 新增子菜单
// @Tags 菜单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "主菜单ID"
// @Param body body models.MenuRequest true "子菜单"
// @Success 200 {object} IDResponse
// @Router /api/menus/{id}/submenus [post]
func (h *MenuHandler) CreateSubMenu(c *gin.Context) {
	parentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	res, err := h.db.Run(c.Request.Context(),
		"INSERT INTO sub_menus (parent_id, name, sort_order) VALUES (?, ?, ?)", parentID, req.Name, req.Order)
	if err != nil {
		InternalError(c, err, "新增子菜单失败")
		return
	}
	h.invalidate(c, CacheMenus)
	c.JSON(http.StatusOK, IDResponse{ID: res.LastInsertID})
}

// UpdateSubMenu 修改子菜单
// @Summary 修改子菜单
// @Tags 菜单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "子菜单ID"
// @Param body body models.MenuRequest true "子菜单"
// @Success 200 {object} ChangedResponse
// @Router /api/menus/submenus/{id} [put]
func (h *MenuHandler) UpdateSubMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	res, err := h.db.Run(c.Request.Context(), "UPDATE sub_menus SET name = ?, sort_order = ? WHERE id = ?", req.Name, req.Order, id)
	if err != nil {
		InternalError(c, err, "修改子菜单失败")
		return
	}
	h.invalidate(c, CacheMenus)
	c.JSON(http.StatusOK, ChangedResponse{Changed: res.RowsAffected})
}

// DeleteSubMenu 删除子菜单，其下卡片级联删除
// @Summary 删除子菜单
// @Tags 菜单
// @Produce json
// @Security BearerAuth
// @Param id path int true "子菜单ID"
// @Success 200 {object} DeletedResponse
// @Router /api/menus/submenus/{id} [delete]
func (h *MenuHandler) DeleteSubMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.db.Run(c.Request.Context(), "DELETE FROM sub_menus WHERE id = ?", id)
	if err != nil {
		InternalError(c, err, "删除子菜单失败")
		return
	}
	h.invalidate(c, CacheMenus, CacheCards)
	c.JSON(http.StatusOK, DeletedResponse{Deleted: res.RowsAffected})
}

// BatchDeleteSubMenus 批量删除子菜单
// @Summary 批量删除子菜单
// @Tags 菜单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.IDsRequest true "子菜单ID"
// @Success 200 {object} DeletedResponse
// @Router /api/menus/submenus/batch-delete [post]
func (h *MenuHandler) BatchDeleteSubMenus(c *gin.Context) {
	var req models.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		BadRequest(c, "请提供要删除的子菜单ID数组")
		return
	}
	in, args := inClause(req.IDs)
	res, err := h.db.Run(c.Request.Context(), "DELETE FROM sub_menus WHERE id IN ("+in+")", args...)
	if err != nil {
		InternalError(c, err, "批量删除子菜单失败")
		return
	}
	h.invalidate(c, CacheMenus, CacheCards)
	c.JSON(http.StatusOK, DeletedResponse{Deleted: res.RowsAffected})
}

// BatchMoveSubMenus 批量移动子菜单到另一个主菜单，其下卡片随之移动
// @Summary 批量移动子菜单
// @Tags 菜单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.SubMenuMoveRequest true "子菜单ID和目标主菜单"
// @Success 200 {object} object "updated"
// @Router /api/menus/submenus/batch-move [post]
func (h *MenuHandler) BatchMoveSubMenus(c *gin.Context) {
	var req models.SubMenuMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		BadRequest(c, "请提供要移动的子菜单ID数组")
		return
	}
	if req.TargetParentID <= 0 {
		BadRequest(c, "请提供目标菜单ID")
		return
	}
	ctx := c.Request.Context()
	parent, err := h.db.Get(ctx, "SELECT id FROM menus WHERE id = ?", req.TargetParentID)
	if err != nil {
		InternalError(c, err, "批量移动子菜单失败")
		return
	}
	if parent == nil {
		BadRequest(c, "目标菜单不存在")
		return
	}

	in, args := inClause(req.IDs)
	res, err := h.db.Run(ctx, "UPDATE sub_menus SET parent_id = ? WHERE id IN ("+in+")", append([]any{req.TargetParentID}, args...)...)
	if err != nil {
		InternalError(c, err, "批量移动子菜单失败")
		return
	}
	if _, err := h.db.Run(ctx, "UPDATE cards SET menu_id = ? WHERE sub_menu_id IN ("+in+")", append([]any{req.TargetParentID}, args...)...); err != nil {
		InternalError(c, err, "移动子菜单下的卡片失败")
		return
	}
	h.invalidate(c, CacheMenus, CacheCards)
	c.JSON(http.StatusOK, gin.H{"updated": res.RowsAffected})
}
