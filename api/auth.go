package api

import (
	"net/http"
	"strings"
	"time"

	"navhub/config"
	"navhub/database"
	"navhub/middleware"
	"navhub/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler 登录
type AuthHandler struct {
	db  database.Querier
	cfg *config.Config
}

func NewAuthHandler(db database.Querier, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// LoginResponse 登录成功，返回上一次的登录时间和 IP
type LoginResponse struct {
	Token         string `json:"token"`
	LastLoginTime any    `json:"lastLoginTime"`
	LastLoginIP   any    `json:"lastLoginIp"`
}

var shanghai = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}()

// shanghaiNow 上海时间 YYYY-MM-DD HH:mm:ss
func shanghaiNow() string {
	return time.Now().In(shanghai).Format("2006-01-02 15:04:05")
}

// clientIP 优先取 X-Forwarded-For 的第一个地址，去掉 IPv4 映射前缀
func clientIP(c *gin.Context) string {
	ip := c.GetHeader("X-Forwarded-For")
	if ip == "" {
		ip = c.ClientIP()
	}
	if i := strings.Index(ip, ","); i >= 0 {
		ip = ip[:i]
	}
	ip = strings.TrimSpace(ip)
	return strings.TrimPrefix(ip, "::ffff:")
}

// nullable NULL 保持为 null，其他值转为字符串
func nullable(v any) any {
	if v == nil {
		return nil
	}
	return database.String(v)
}

// Login 用户登录
// @Summary 用户登录
// @Description 登录成功后返回 token 以及上一次登录的时间和 IP
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "用户名和密码"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} Response "用户名或密码错误"
// @Failure 429 {object} Response "登录尝试过多"
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请输入用户名和密码")
		return
	}

	ctx := c.Request.Context()
	user, err := h.db.Get(ctx, "SELECT * FROM users WHERE username = ?", req.Username)
	if err != nil {
		InternalError(c, err, "登录失败")
		return
	}
	if user == nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(database.String(user["password"])), []byte(req.Password)); err != nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	id := database.Int64(user["id"])
	resp := LoginResponse{
		LastLoginTime: nullable(user["last_login_time"]),
		LastLoginIP:   nullable(user["last_login_ip"]),
	}

	if _, err := h.db.Run(ctx, "UPDATE users SET last_login_time = ?, last_login_ip = ? WHERE id = ?", shanghaiNow(), clientIP(c), id); err != nil {
		InternalError(c, err, "登录失败")
		return
	}

	resp.Token, err = middleware.GenerateToken(id, database.String(user["username"]), h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, err, "生成 token 失败")
		return
	}
	c.JSON(http.StatusOK, resp)
}
