package api

import (
	"net/http"
	"strconv"

	"navhub/config"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// Response 错误响应结构
// 前端同时读取 error 和 message
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Data     any   `json:"data"`
}

// IDResponse 新增成功
type IDResponse struct {
	ID int64 `json:"id"`
}

// ChangedResponse 修改成功
type ChangedResponse struct {
	Changed int64 `json:"changed"`
}

// DeletedResponse 删除成功
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// MessageResponse 操作结果
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorBody(message string) Response {
	return Response{Success: false, Error: message, Message: message}
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, errorBody(message))
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403 错误响应
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500 错误响应，生产环境隐藏错误详情
func InternalError(c *gin.Context, err error, fallback string) {
	log.Error(fallback, "path", c.Request.URL.Path, "err", err)
	Error(c, http.StatusInternalServerError, config.SafeErrorMessage(err, fallback))
}

// failed 供 JSONHandler 返回的错误结果
func failed(c *gin.Context, err error, fallback string) (int, any) {
	log.Error(fallback, "path", c.Request.URL.Path, "err", err)
	return http.StatusInternalServerError, errorBody(config.SafeErrorMessage(err, fallback))
}

// pagination 读取 page/pageSize，两者都未提供时 ok 为 false
func pagination(c *gin.Context) (page, size int, ok bool) {
	p, s := c.Query("page"), c.Query("pageSize")
	if p == "" && s == "" {
		return 0, 0, false
	}
	page, _ = strconv.Atoi(p)
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(s)
	if size < 1 {
		size = 10
	}
	return page, size, true
}

// paramID 读取路径中的数字 ID，非法时写出 400
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return id, true
}

// queryInt 读取整数查询参数，缺失或非法时返回默认值
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
