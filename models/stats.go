package models

// ClickLog 单次点击记录
type ClickLog struct {
	CardID    int64  `json:"card_id" db:"card_id"`
	IPAddress string `json:"ip_address" db:"ip_address"`
	UserAgent string `json:"user_agent" db:"user_agent"`
}

// Truncate 按列宽截断
func (l ClickLog) Truncate() ClickLog {
	if len(l.IPAddress) > 45 {
		l.IPAddress = l.IPAddress[:45]
	}
	if len(l.UserAgent) > 255 {
		l.UserAgent = l.UserAgent[:255]
	}
	return l
}

// StatsOverview 统计概览
type StatsOverview struct {
	TotalClicks int64 `json:"totalClicks"`
	TodayClicks int64 `json:"todayClicks"`
	WeekClicks  int64 `json:"weekClicks"`
	MonthClicks int64 `json:"monthClicks"`
	TopCards    any   `json:"topCards"`
	DailyTrend  any   `json:"dailyTrend"`
}
