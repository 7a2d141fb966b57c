// Package database 提供统一的数据库访问接口（All/Get/Run/Prepare），
// 屏蔽 SQLite 与 PostgreSQL 之间的差异，并在首次使用时完成建表与默认数据初始化。
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"navhub/config"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite" // sqlite driver
)

// Row 单行结果，列名 -> 值
type Row map[string]any

// Result 写操作结果
// LastInsertID 仅对单行插入且表带自增主键时有意义
type Result struct {
	LastInsertID int64 `json:"lastID"`
	RowsAffected int64 `json:"changes"`
}

// Querier 路由层唯一依赖的数据库接口
// SQL 统一使用 ? 作为参数占位符
type Querier interface {
	// All 返回所有匹配行，无结果时返回空切片
	All(ctx context.Context, query string, args ...any) ([]Row, error)
	// Get 返回第一行；没有匹配时返回 nil（不是错误）
	Get(ctx context.Context, query string, args ...any) (Row, error)
	// Run 执行写语句
	Run(ctx context.Context, query string, args ...any) (Result, error)
	// Prepare 绑定 SQL 文本，供预编译风格的调用方使用
	Prepare(query string) *Stmt
}

// DB 数据库访问入口，进程内共享
type DB struct {
	q      *querier
	x      *sqlx.DB
	admin  config.AdminConfig
	logger *log.Logger

	initialized atomic.Bool
	group       singleflight.Group
	// 实际执行初始化事务的次数
	bootstraps atomic.Int64
}

var _ Querier = (*DB)(nil)

// Open 按配置选择数据库引擎并建立连接池，选择结果在进程生命周期内不变
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	driver := cfg.Database.Driver()
	var dsn string
	switch driver {
	case config.DriverPostgres:
		dsn = postgresDSN(cfg.Database)
	default:
		path := cfg.Database.SQLitePath
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("创建数据库目录失败: %w", err)
			}
		}
		dsn = sqliteDSN(path)
	}

	x, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	if driver == config.DriverPostgres {
		x.SetMaxIdleConns(10)  // 最大空闲连接数
		x.SetMaxOpenConns(100) // 最大打开连接数
	}

	logger := log.FromContext(ctx).WithPrefix("db")
	logger.Info("数据库已连接", "driver", driver)
	return New(x, cfg.Admin, logger)
}

// New 包装已有连接，主要用于测试
func New(x *sqlx.DB, admin config.AdminConfig, logger *log.Logger) (*DB, error) {
	eng, err := engineFor(x.DriverName())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default().WithPrefix("db")
	}
	return &DB{
		q:      &querier{ext: x, eng: eng, logger: logger},
		x:      x,
		admin:  admin,
		logger: logger,
	}, nil
}

func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

func postgresDSN(c config.DatabaseConfig) string {
	if strings.Contains(c.URL, "sslmode=") {
		return c.URL
	}
	mode := "disable"
	if c.SSL {
		// 等价于 rejectUnauthorized: false
		mode = "require"
	}
	sep := "?"
	if strings.Contains(c.URL, "?") {
		sep = "&"
	}
	return c.URL + sep + "sslmode=" + mode
}

// Dialect 当前引擎
func (d *DB) Dialect() string {
	return d.q.eng.dialect()
}

// Close 关闭连接池
func (d *DB) Close() error {
	return d.x.Close()
}

// All 查询多行
func (d *DB) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	if err := d.ready(ctx); err != nil {
		return nil, err
	}
	return d.q.all(ctx, query, args...)
}

// Get 查询单行，没有结果时返回 nil
func (d *DB) Get(ctx context.Context, query string, args ...any) (Row, error) {
	if err := d.ready(ctx); err != nil {
		return nil, err
	}
	return d.q.get(ctx, query, args...)
}

// Run 执行插入/更新/删除
func (d *DB) Run(ctx context.Context, query string, args ...any) (Result, error) {
	if err := d.ready(ctx); err != nil {
		return Result{}, err
	}
	return d.q.run(ctx, query, args...)
}

// Prepare 返回绑定了 SQL 的语句句柄
func (d *DB) Prepare(query string) *Stmt {
	return &Stmt{db: d, query: query}
}

// Stmt 预编译风格的语句句柄，每次 Run 都走 DB.Run
type Stmt struct {
	db    *DB
	query string
}

// Run 使用给定参数执行语句
func (s *Stmt) Run(ctx context.Context, args ...any) (Result, error) {
	return s.db.Run(ctx, s.query, args...)
}

// Finalize 兼容接口，无需释放资源
func (s *Stmt) Finalize() error {
	return nil
}
