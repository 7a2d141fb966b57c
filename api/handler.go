package api

import (
	"strings"

	"navhub/cache"
	"navhub/database"

	"github.com/gin-gonic/gin"
)

// 缓存键前缀，与路由注册时保持一致
const (
	CacheMenus    = "menus"
	CacheCards    = "cards"
	CacheAds      = "ads"
	CacheFriends  = "friends"
	CacheSettings = "settings"
)

// base 各处理器共享的依赖
type base struct {
	db    database.Querier
	cache *cache.Manager
}

// invalidate 数据变更后清除相关缓存
func (b base) invalidate(c *gin.Context, prefixes ...string) {
	patterns := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		patterns = append(patterns, p+":*")
	}
	b.cache.DeleteByPattern(c.Request.Context(), patterns...)
}

// paged 分页查询 table，columns/order 由调用方给出固定文本
func (b base) paged(c *gin.Context, table, columns, order string, page, size int) (PageResponse, error) {
	row, err := b.db.Get(c.Request.Context(), "SELECT COUNT(*) AS total FROM "+table)
	if err != nil {
		return PageResponse{}, err
	}
	q := "SELECT " + columns + " FROM " + table
	if order != "" {
		q += " ORDER BY " + order
	}
	rows, err := b.db.All(c.Request.Context(), q+" LIMIT ? OFFSET ?", size, (page-1)*size)
	if err != nil {
		return PageResponse{}, err
	}
	return PageResponse{
		Total:    database.Int64(row["total"]),
		Page:     page,
		PageSize: size,
		Data:     rows,
	}, nil
}

// inClause 返回 "?,?,?" 和对应参数
func inClause(ids []int64) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","), args
}
