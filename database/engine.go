package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"navhub/config"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
)

// engine 各数据库引擎的差异点
type engine interface {
	dialect() string
	// rebind 把 ? 占位符改写为引擎需要的格式
	rebind(query string) string
	run(ctx context.Context, ext sqlx.ExtContext, query string, args []any) (Result, error)
}

func engineFor(driver string) (engine, error) {
	switch driver {
	case config.DriverSQLite:
		return sqliteEngine{}, nil
	case config.DriverPostgres:
		return postgresEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown driver: %s", driver)
	}
}

type sqliteEngine struct{}

func (sqliteEngine) dialect() string { return config.DriverSQLite }

func (sqliteEngine) rebind(query string) string { return query }

func (sqliteEngine) run(ctx context.Context, ext sqlx.ExtContext, query string, args []any) (Result, error) {
	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, err
	}
	var out Result
	out.LastInsertID, _ = res.LastInsertId()
	out.RowsAffected, _ = res.RowsAffected()
	return out, nil
}

type postgresEngine struct{}

func (postgresEngine) dialect() string { return config.DriverPostgres }

// rebind 从左到右把第 N 个 ? 替换为 $N。
// 纯文本替换，字符串字面量中的 ? 同样会被替换。
func (postgresEngine) rebind(query string) string {
	return sqlx.Rebind(sqlx.DOLLAR, query)
}

var returningRe = regexp.MustCompile(`(?i)\breturning\b`)

// withReturning INSERT 语句没有 RETURNING 时追加 RETURNING id
func withReturning(query string) (string, bool) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < 6 || !strings.EqualFold(trimmed[:6], "insert") {
		return query, false
	}
	if returningRe.MatchString(trimmed) {
		return query, true
	}
	trimmed = strings.TrimRight(trimmed, "; \t\n")
	return trimmed + " RETURNING id", true
}

func (postgresEngine) run(ctx context.Context, ext sqlx.ExtContext, query string, args []any) (Result, error) {
	query, returning := withReturning(query)
	if !returning {
		res, err := ext.ExecContext(ctx, query, args...)
		if err != nil {
			return Result{}, err
		}
		n, _ := res.RowsAffected()
		return Result{RowsAffected: n}, nil
	}

	rows, err := ext.QueryxContext(ctx, query, args...)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	var out Result
	for rows.Next() {
		if out.RowsAffected == 0 {
			row := map[string]any{}
			if err := rows.MapScan(row); err != nil {
				return Result{}, err
			}
			out.LastInsertID = Int64(row["id"])
		}
		out.RowsAffected++
	}
	return out, rows.Err()
}

// querier 在连接池或事务上执行语句，不做初始化检查
type querier struct {
	ext    sqlx.ExtContext
	eng    engine
	logger *log.Logger
}

func (q *querier) trace(query string, args []any) {
	if q.logger != nil {
		query = strings.Join(strings.Fields(query), " ")
		q.logger.Debug("trace", "query", query, "args", args)
	}
}

func (q *querier) all(ctx context.Context, query string, args ...any) ([]Row, error) {
	query = q.eng.rebind(query)
	q.trace(query, args)
	rows, err := q.ext.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		row := Row{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		out = append(out, normalize(row))
	}
	return out, rows.Err()
}

func (q *querier) get(ctx context.Context, query string, args ...any) (Row, error) {
	query = q.eng.rebind(query)
	q.trace(query, args)
	rows, err := q.ext.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	row := Row{}
	if err := rows.MapScan(row); err != nil {
		return nil, err
	}
	return normalize(row), nil
}

func (q *querier) run(ctx context.Context, query string, args ...any) (Result, error) {
	query = q.eng.rebind(query)
	q.trace(query, args)
	return q.eng.run(ctx, q.ext, query, args)
}
