package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// normalize 驱动返回的 []byte 统一转为字符串
func normalize(row Row) Row {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
	return row
}

// Int64 把计数等数值列转换为 int64。
// 不同驱动返回的类型不一致（int64、float64、文本），无法解析时返回 0。
func Int64(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case []byte:
		return parseInt(string(n))
	case string:
		return parseInt(n)
	default:
		return 0
	}
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// String 把列值转换为字符串，NULL 返回空串
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(s)
	}
}
