package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"navhub/config"
	"navhub/database"
	"navhub/models"

	"github.com/gin-gonic/gin"
)

// 统计表首次使用时创建
var statsSchema = map[string][]string{
	config.DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS card_stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id INTEGER NOT NULL,
			click_count INTEGER DEFAULT 0,
			last_clicked_at DATETIME,
			FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS click_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id INTEGER NOT NULL,
			ip_address TEXT,
			user_agent TEXT,
			clicked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
		)`,
	},
	config.DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS card_stats (
			id SERIAL PRIMARY KEY,
			card_id INTEGER NOT NULL,
			click_count INTEGER DEFAULT 0,
			last_clicked_at TIMESTAMP,
			FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS click_logs (
			id SERIAL PRIMARY KEY,
			card_id INTEGER NOT NULL,
			ip_address TEXT,
			user_agent TEXT,
			clicked_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
		)`,
	},
}

const timeLayout = "2006-01-02 15:04:05"

// StatsHandler 卡片点击统计
type StatsHandler struct {
	base
	dialect string
	now     func() time.Time

	mu    sync.Mutex
	ready bool
}

func NewStatsHandler(db database.Querier, dialect string) *StatsHandler {
	return &StatsHandler{base: base{db: db}, dialect: dialect, now: time.Now}
}

// ensureSchema 建表成功后不再重复执行
func (h *StatsHandler) ensureSchema(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready {
		return nil
	}
	for _, stmt := range statsSchema[h.dialect] {
		if _, err := h.db.Run(ctx, stmt); err != nil {
			return err
		}
	}
	h.ready = true
	return nil
}

// cutoff 统一使用 UTC 文本时间，两种数据库都能直接比较
func (h *StatsHandler) cutoff(d time.Duration) string {
	return h.now().UTC().Add(-d).Format(timeLayout)
}

// formatTimes 驱动返回的时间值转为文本
func formatTimes(rows ...database.Row) {
	for _, r := range rows {
		for k, v := range r {
			if t, ok := v.(time.Time); ok {
				r[k] = t.Format(timeLayout)
			}
		}
	}
}

// dateString DATE() 的结果：sqlite 为文本，postgres 为时间
func dateString(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	s := database.String(v)
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}

// Click 记录卡片点击（公开）
// @Summary 记录点击
// @Tags 统计
// @Produce json
// @Param cardId path int true "卡片ID"
// @Success 200 {object} object "success: true"
// @Router /api/stats/click/{cardId} [post]
func (h *StatsHandler) Click(c *gin.Context) {
	id, ok := cardID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.ensureSchema(ctx); err != nil {
		InternalError(c, err, "记录点击失败")
		return
	}

	now := h.now().UTC().Format(timeLayout)
	existing, err := h.db.Get(ctx, "SELECT id FROM card_stats WHERE card_id = ?", id)
	if err != nil {
		InternalError(c, err, "记录点击失败")
		return
	}
	if existing != nil {
		_, err = h.db.Run(ctx, "UPDATE card_stats SET click_count = click_count + 1, last_clicked_at = ? WHERE card_id = ?", now, id)
	} else {
		_, err = h.db.Run(ctx, "INSERT INTO card_stats (card_id, click_count, last_clicked_at) VALUES (?, 1, ?)", id, now)
	}
	if err != nil {
		InternalError(c, err, "记录点击失败")
		return
	}

	log := models.ClickLog{CardID: id, IPAddress: clientIP(c), UserAgent: c.GetHeader("User-Agent")}.Truncate()
	if _, err := h.db.Run(ctx, "INSERT INTO click_logs (card_id, ip_address, user_agent, clicked_at) VALUES (?, ?, ?, ?)",
		log.CardID, log.IPAddress, log.UserAgent, now); err != nil {
		InternalError(c, err, "记录点击失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Popular 热门网站
// @Summary 热门网站
// @Description 最近 days 天内被点击过的卡片，按点击量排序
// @Tags 统计
// @Produce json
// @Param limit query int false "数量，默认 10"
// @Param days query int false "天数，默认 30"
// @Success 200 {array} object "热门卡片"
// @Router /api/stats/popular [get]
func (h *StatsHandler) Popular(c *gin.Context) {
	limit := queryInt(c, "limit", 10)
	days := queryInt(c, "days", 30)
	ctx := c.Request.Context()
	if err := h.ensureSchema(ctx); err != nil {
		InternalError(c, err, "获取热门网站失败")
		return
	}

	rows, err := h.db.All(ctx, `
		SELECT c.id, c.title, c.url, c.logo_url, c.description, cs.click_count, cs.last_clicked_at, m.name AS menu_name
		FROM cards c
		INNER JOIN card_stats cs ON c.id = cs.card_id
		LEFT JOIN menus m ON c.menu_id = m.id
		WHERE cs.last_clicked_at >= ?
		ORDER BY cs.click_count DESC
		LIMIT ?`, h.cutoff(time.Duration(days)*24*time.Hour), limit)
	if err != nil {
		InternalError(c, err, "获取热门网站失败")
		return
	}
	formatTimes(rows...)
	c.JSON(http.StatusOK, rows)
}

func (h *StatsHandler) countSince(ctx context.Context, since string) (int64, error) {
	row, err := h.db.Get(ctx, "SELECT COUNT(*) AS count FROM click_logs WHERE clicked_at >= ?", since)
	if err != nil {
		return 0, err
	}
	return database.Int64(row["count"]), nil
}

// Overview 统计概览
// @Summary 统计概览
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.StatsOverview
// @Router /api/stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.ensureSchema(ctx); err != nil {
		InternalError(c, err, "获取统计概览失败")
		return
	}

	var out models.StatsOverview
	total, err := h.db.Get(ctx, "SELECT SUM(click_count) AS total FROM card_stats")
	if err != nil {
		InternalError(c, err, "获取统计概览失败")
		return
	}
	out.TotalClicks = database.Int64(total["total"])

	now := h.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Format(timeLayout)
	if out.TodayClicks, err = h.countSince(ctx, today); err != nil {
		InternalError(c, err, "获取统计概览失败")
		return
	}
	week := h.cutoff(7 * 24 * time.Hour)
	if out.WeekClicks, err = h.countSince(ctx, week); err != nil {
		InternalError(c, err, "获取统计概览失败")
		return
	}
	if out.MonthClicks, err = h.countSince(ctx, h.cutoff(30*24*time.Hour)); err != nil {
		InternalError(c, err, "获取统计概览失败")
		return
	}

	top, err := h.db.All(ctx, `
		SELECT c.title, c.url, cs.click_count
		FROM card_stats cs
		INNER JOIN cards c ON cs.card_id = c.id
		ORDER BY cs.click_count DESC
		LIMIT 10`)
	if err != nil {
		InternalError(c, err, "获取统计概览失败")
		return
	}
	out.TopCards = top

	trend, err := h.db.All(ctx, `
		SELECT DATE(clicked_at) AS date, COUNT(*) AS clicks
		FROM click_logs
		WHERE clicked_at >= ?
		GROUP BY DATE(clicked_at)
		ORDER BY date DESC`, week)
	if err != nil {
		InternalError(c, err, "获取统计概览失败")
		return
	}
	for _, r := range trend {
		r["date"] = dateString(r["date"])
	}
	out.DailyTrend = trend

	c.JSON(http.StatusOK, out)
}

// Card 单个卡片的统计和最近 20 次点击
// @Summary 卡片统计
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param cardId path int true "卡片ID"
// @Success 200 {object} object "stats, recentClicks"
// @Router /api/stats/card/{cardId} [get]
func (h *StatsHandler) Card(c *gin.Context) {
	id, ok := cardID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.ensureSchema(ctx); err != nil {
		InternalError(c, err, "获取卡片统计失败")
		return
	}

	stats, err := h.db.Get(ctx, `
		SELECT cs.*, c.title, c.url
		FROM card_stats cs
		INNER JOIN cards c ON cs.card_id = c.id
		WHERE cs.card_id = ?`, id)
	if err != nil {
		InternalError(c, err, "获取卡片统计失败")
		return
	}
	if stats == nil {
		stats = database.Row{"click_count": 0}
	}
	recent, err := h.db.All(ctx, "SELECT ip_address, clicked_at FROM click_logs WHERE card_id = ? ORDER BY clicked_at DESC LIMIT 20", id)
	if err != nil {
		InternalError(c, err, "获取卡片统计失败")
		return
	}
	formatTimes(stats)
	formatTimes(recent...)
	c.JSON(http.StatusOK, gin.H{"stats": stats, "recentClicks": recent})
}

// Clear 清除统计数据
// @Summary 清除统计
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Router /api/stats/clear [delete]
func (h *StatsHandler) Clear(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.ensureSchema(ctx); err != nil {
		InternalError(c, err, "清除统计失败")
		return
	}
	for _, table := range []string{"card_stats", "click_logs"} {
		if _, err := h.db.Run(ctx, "DELETE FROM "+table); err != nil {
			InternalError(c, err, "清除统计失败")
			return
		}
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "统计数据已清除"})
}
