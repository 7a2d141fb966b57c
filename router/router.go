package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"navhub/api"
	"navhub/cache"
	"navhub/config"
	"navhub/database"
	_ "navhub/docs"
	"navhub/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// 登录限流窗口
const loginWindow = 15 * time.Minute

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *database.DB, cm *cache.Manager) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.Origins(), config.IsRelease()))

	// 上传的 logo
	r.Static("/uploads", cfg.Server.UploadDir)

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": db.Dialect(),
			"ready":    db.Ready(),
			"cache":    cm.Backend(),
		})
	})

	ttl := cfg.Cache.TTL()
	auth := middleware.JWTAuth()

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.RateLimit(middleware.RateLimitOptions{
		Max:    cfg.RateLimit.MaxRequests,
		Window: cfg.RateLimit.Window(),
	}))
	{
		authHandler := api.NewAuthHandler(db, cfg)
		apiGroup.POST("/login", middleware.LoginRateLimit(cfg.RateLimit.LoginMax, loginWindow), authHandler.Login)

		// 菜单
		menuHandler := api.NewMenuHandler(db, cm)
		menus := apiGroup.Group("/menus")
		{
			menus.GET("", cache.JSON(cm, api.CacheMenus, ttl, menuHandler.List))
			menus.GET("/:id/submenus", menuHandler.SubMenus)
			menus.POST("", auth, menuHandler.Create)
			menus.PUT("/:id", auth, menuHandler.Update)
			menus.DELETE("/:id", auth, menuHandler.Delete)
			menus.POST("/:id/submenus", auth, menuHandler.CreateSubMenu)
			menus.PUT("/submenus/:id", auth, menuHandler.UpdateSubMenu)
			menus.DELETE("/submenus/:id", auth, menuHandler.DeleteSubMenu)
			menus.POST("/submenus/batch-delete", auth, menuHandler.BatchDeleteSubMenus)
			menus.POST("/submenus/batch-move", auth, menuHandler.BatchMoveSubMenus)
		}

		// 卡片
		cardHandler := api.NewCardHandler(db, cm)
		cards := apiGroup.Group("/cards")
		{
			cards.GET("/:menuId", cache.JSON(cm, api.CacheCards, ttl, cardHandler.List))
			cards.POST("", auth, cardHandler.Create)
			cards.PUT("/:id", auth, cardHandler.Update)
			cards.DELETE("/:id", auth, cardHandler.Delete)
			cards.POST("/batch-delete", auth, cardHandler.BatchDelete)
			cards.POST("/batch-move", auth, cardHandler.BatchMove)
			cards.POST("/batch-import-json", auth, cardHandler.ImportJSON)
			cards.POST("/batch-import-txt", auth, cardHandler.ImportText)
			cards.POST("/batch-import-html", auth, cardHandler.ImportHTML)
		}

		apiGroup.POST("/upload", auth, api.NewUploadHandler(cfg.Server.UploadDir).Upload)

		// 广告
		adHandler := api.NewAdHandler(db, cm)
		ads := apiGroup.Group("/ads")
		{
			ads.GET("", cache.JSON(cm, api.CacheAds, ttl, adHandler.List))
			ads.POST("", auth, adHandler.Create)
			ads.PUT("/:id", auth, adHandler.Update)
			ads.DELETE("/:id", auth, adHandler.Delete)
		}

		// 友链
		friendHandler := api.NewFriendHandler(db, cm)
		friends := apiGroup.Group("/friends")
		{
			friends.GET("", cache.JSON(cm, api.CacheFriends, ttl, friendHandler.List))
			friends.POST("", auth, friendHandler.Create)
			friends.PUT("/:id", auth, friendHandler.Update)
			friends.DELETE("/:id", auth, friendHandler.Delete)
		}

		// 用户
		userHandler := api.NewUserHandler(db)
		users := apiGroup.Group("/users", auth)
		{
			users.GET("/profile", userHandler.Profile)
			users.GET("/me", userHandler.Me)
			users.PUT("/password", userHandler.ChangePassword)
			users.GET("", userHandler.List)
		}

		// 网站设置
		settingsHandler := api.NewSettingsHandler(db, cm)
		settings := apiGroup.Group("/settings")
		{
			settings.GET("", cache.JSON(cm, api.CacheSettings, ttl, settingsHandler.List))
			settings.GET("/:key", settingsHandler.Get)
			settings.PUT("", auth, settingsHandler.UpdateAll)
			settings.PUT("/:key", auth, settingsHandler.Update)
			settings.DELETE("/:key", auth, settingsHandler.Delete)
		}

		// 点击统计
		statsHandler := api.NewStatsHandler(db, db.Dialect())
		stats := apiGroup.Group("/stats")
		{
			stats.POST("/click/:cardId", statsHandler.Click)
			stats.GET("/popular", statsHandler.Popular)
			stats.GET("/overview", auth, statsHandler.Overview)
			stats.GET("/card/:cardId", auth, statsHandler.Card)
			stats.DELETE("/clear", auth, statsHandler.Clear)
		}

		// 导出
		exportHandler := api.NewExportHandler(db)
		export := apiGroup.Group("/export", auth)
		{
			export.GET("/json", exportHandler.ExportJSON)
			export.GET("/csv/cards", exportHandler.ExportCardsCSV)
			export.GET("/csv/menus", exportHandler.ExportMenusCSV)
			export.GET("/csv/friends", exportHandler.ExportFriendsCSV)
			export.GET("/excel/cards", exportHandler.ExportCardsExcel)
		}

		// 初始化、重置与诊断
		maintenance := api.NewMaintenanceHandler(db, cm, cfg)
		apiGroup.POST("/init/database", maintenance.InitDatabase)
		apiGroup.POST("/reset/database", auth, maintenance.ResetDatabase)
		apiGroup.POST("/create-admin", maintenance.CreateAdmin)
		apiGroup.GET("/create-admin/check", maintenance.CheckAdmin)
		apiGroup.POST("/create-admin/reset-admin-password", maintenance.ResetAdminPassword)
		apiGroup.GET("/debug/status", maintenance.DebugStatus)
	}

	r.NoRoute(SPAFallback(cfg.Server.StaticDir))
	return r
}

// SPAFallback 前端静态资源，未知的页面路径返回 index.html
func SPAFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || strings.HasPrefix(p, "/api") || strings.HasPrefix(p, "/uploads") {
			api.NotFound(c, "接口不存在")
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			api.NotFound(c, "页面不存在")
			return
		}
		c.File(index)
	}
}
