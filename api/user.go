package api

import (
	"net/http"

	"navhub/database"
	"navhub/middleware"
	"navhub/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler 当前用户与用户列表
type UserHandler struct {
	base
}

func NewUserHandler(db database.Querier) *UserHandler {
	return &UserHandler{base{db: db}}
}

// Profile 获取当前用户信息
// @Summary 当前用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object "data: {id, username}"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.db.Get(c.Request.Context(), "SELECT id, username FROM users WHERE id = ?", middleware.GetCurrentUserID(c))
	if err != nil {
		InternalError(c, err, "服务器错误")
		return
	}
	if user == nil {
		NotFound(c, "用户不存在")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// Me 获取当前用户的上次登录信息
// @Summary 登录信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object "last_login_time, last_login_ip"
// @Router /api/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.db.Get(c.Request.Context(),
		"SELECT id, username, last_login_time, last_login_ip FROM users WHERE id = ?", middleware.GetCurrentUserID(c))
	if err != nil {
		InternalError(c, err, "服务器错误")
		return
	}
	if user == nil {
		NotFound(c, "用户不存在")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"last_login_time": nullable(user["last_login_time"]),
		"last_login_ip":   nullable(user["last_login_ip"]),
	})
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.ChangePasswordRequest true "旧密码和新密码"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} Response "参数错误或旧密码错误"
// @Router /api/users/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		BadRequest(c, "请提供旧密码和新密码")
		return
	}
	if len(req.NewPassword) < 6 {
		BadRequest(c, "新密码长度至少6位")
		return
	}

	ctx := c.Request.Context()
	userID := middleware.GetCurrentUserID(c)
	user, err := h.db.Get(ctx, "SELECT password FROM users WHERE id = ?", userID)
	if err != nil {
		InternalError(c, err, "密码更新失败")
		return
	}
	if user == nil {
		NotFound(c, "用户不存在")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(database.String(user["password"])), []byte(req.OldPassword)); err != nil {
		BadRequest(c, "旧密码错误")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, err, "密码更新失败")
		return
	}
	if _, err := h.db.Run(ctx, "UPDATE users SET password = ? WHERE id = ?", string(hash), userID); err != nil {
		InternalError(c, err, "密码更新失败")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "密码修改成功"})
}

// List 获取所有用户
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} object "data: 用户列表"
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	if page, size, ok := pagination(c); ok {
		res, err := h.paged(c, "users", "id, username", "id", page, size)
		if err != nil {
			InternalError(c, err, "服务器错误")
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}
	users, err := h.db.All(c.Request.Context(), "SELECT id, username FROM users ORDER BY id")
	if err != nil {
		InternalError(c, err, "服务器错误")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}
