package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 数据库驱动
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Admin     AdminConfig     `mapstructure:"admin"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           string `mapstructure:"port"`
	Mode           string `mapstructure:"mode"`
	AllowedOrigins string `mapstructure:"allowed_origins"` // 逗号分隔
	UploadDir      string `mapstructure:"upload_dir"`
	StaticDir      string `mapstructure:"static_dir"`
}

// DatabaseConfig 数据库配置
// URL 非空时使用 PostgreSQL，否则使用本地 SQLite 文件
type DatabaseConfig struct {
	URL        string `mapstructure:"url"`
	SQLitePath string `mapstructure:"sqlite_path"`
	SSL        bool   `mapstructure:"ssl"`
}

// AdminConfig 默认管理员账号
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// CacheConfig 缓存配置，RedisURL 为空时使用内存缓存
type CacheConfig struct {
	RedisURL   string `mapstructure:"redis_url"`
	Prefix     string `mapstructure:"prefix"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
	MaxEntries int    `mapstructure:"max_entries"`
	EvictBatch int    `mapstructure:"evict_batch"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowMS    int `mapstructure:"window_ms"`
	MaxRequests int `mapstructure:"max_requests"`
	LoginMax    int `mapstructure:"login_max"`
}

// Driver 根据连接串选择数据库驱动，进程启动后不再变化
func (d DatabaseConfig) Driver() string {
	if d.URL != "" {
		return DriverPostgres
	}
	return DriverSQLite
}

// TTL 默认缓存时间
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Window 限流窗口
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMS) * time.Millisecond
}

// Origins 允许的跨域来源列表
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// legacyEnv 兼容旧部署使用的环境变量名（无前缀）
var legacyEnv = map[string][]string{
	"server.port":             {"PORT"},
	"server.mode":             {"GIN_MODE"},
	"server.allowed_origins":  {"ALLOWED_ORIGINS"},
	"database.url":            {"POSTGRES_URL", "DATABASE_URL"},
	"admin.username":          {"ADMIN_USERNAME"},
	"admin.password":          {"ADMIN_PASSWORD"},
	"jwt.secret":              {"JWT_SECRET"},
	"cache.redis_url":         {"REDIS_URL"},
	"rate_limit.window_ms":    {"RATE_LIMIT_WINDOW_MS"},
	"rate_limit.max_requests": {"RATE_LIMIT_MAX_REQUESTS"},
}

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	// .env 文件可选，不存在时忽略
	if err := godotenv.Load(); err == nil {
		log.Info("已加载 .env 文件")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Warn("无法读取指定配置文件", "path", configPath, "err", err)
		} else {
			log.Info("已合并外部配置文件", "path", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/navhub")
		externalViper.AddConfigPath("$HOME/.navhub")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Warn("合并外部配置失败", "err", err)
			} else {
				log.Info("已合并外部配置文件", "path", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖: NAV_SERVER_PORT 形式，以及旧变量名
	v.SetEnvPrefix("NAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		args := append([]string{key, "NAV_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("绑定环境变量失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.normalize()

	GlobalConfig = &cfg
	return &cfg, nil
}

func (cfg *Config) normalize() {
	if cfg.Server.Port != "" && !strings.HasPrefix(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}
	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24 * 7
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = 1000
	}
	if cfg.Cache.EvictBatch <= 0 {
		cfg.Cache.EvictBatch = 200
	}
}

// MustLoadConfig 加载配置，失败则 panic
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	return cfg
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("配置未初始化，请先调用 LoadConfig")
	}
	return GlobalConfig
}

// IsRelease 是否为生产模式
func IsRelease() bool {
	return GlobalConfig != nil && GlobalConfig.Server.Mode == "release"
}

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if IsRelease() {
		return fallback
	}
	return err.Error()
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	c := GlobalConfig
	db := c.Database.SQLitePath
	if c.Database.Driver() == DriverPostgres {
		db = maskURL(c.Database.URL)
	}
	cacheBackend := "memory"
	if c.Cache.RedisURL != "" {
		cacheBackend = maskURL(c.Cache.RedisURL)
	}
	log.Info("当前配置",
		"port", c.Server.Port,
		"mode", c.Server.Mode,
		"driver", c.Database.Driver(),
		"database", db,
		"cache", cacheBackend,
		"admin", c.Admin.Username,
	)
}

// maskURL 隐藏连接串中的密码
func maskURL(raw string) string {
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return raw
	}
	creds := raw[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		creds = creds[:colon] + ":****"
	}
	return raw[:scheme+3] + creds + raw[at:]
}
