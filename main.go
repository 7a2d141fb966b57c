package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"navhub/cache"
	"navhub/config"
	"navhub/database"
	"navhub/middleware"
	"navhub/router"

	"github.com/charmbracelet/log"
)

// @title 导航站 API
// @version 1.0
// @description 导航站后台接口：菜单、卡片、广告、友链、网站设置、点击统计和数据导出
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 3000 或 :3000")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("导航站 v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatal("加载配置失败", "err", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Info("命令行指定端口", "port", port)
	}

	config.PrintConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal("连接数据库失败", "err", err)
	}
	defer db.Close()

	// 启动时初始化失败不退出，首次请求会再次尝试
	if err := db.Init(ctx); err != nil {
		log.Error("数据库初始化失败", "err", err)
	}

	cm := cache.NewManager(cfg.Cache)
	defer cm.Close()

	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg, db, cm)
	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("导航站已启动",
			"addr", "http://localhost"+cfg.Server.Port,
			"swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html",
			"cache", cm.Backend(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("服务器启动失败", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("正在关闭服务器")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("关闭服务器失败", "err", err)
	}
}
