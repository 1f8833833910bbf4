package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/escape-room/internal/config"
	"github.com/wfunc/escape-room/internal/repository"
	ws "github.com/wfunc/escape-room/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine       *gin.Engine
	db           *gorm.DB
	repos        *repository.Manager
	statsHandler *StatsHandler
	soloHandler  *SoloHandler
	wsHandler    *WebSocketHandler
	log          *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(db *gorm.DB, repos *repository.Manager, hub *ws.Hub, wsCfg *config.WebSocketConfig, log *zap.Logger) *Router {
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	router := &Router{
		engine:       engine,
		db:           db,
		repos:        repos,
		statsHandler: NewStatsHandler(repos, log),
		soloHandler:  NewSoloHandler(repos, log),
		wsHandler:    NewWebSocketHandler(hub, wsCfg, log),
		log:          log,
	}

	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	api := r.engine.Group("/api")
	{
		// 排行榜
		leaderboard := api.Group("/leaderboard")
		{
			leaderboard.GET("/top", r.statsHandler.Leaderboard)
			leaderboard.GET("/recent", r.statsHandler.RecentGames)
		}

		// 玩家统计
		api.GET("/user/:id", r.statsHandler.UserStats)

		// 对局分析
		analytics := api.Group("/analytics")
		{
			analytics.GET("/game/:id", r.statsHandler.GameAnalytics)
			analytics.GET("/user/:id", r.statsHandler.UserAnalytics)
		}

		// 单人模式走HTTP，不占用房间
		solo := api.Group("/game/solo")
		{
			solo.POST("/create", r.soloHandler.CreateSoloGame)
			solo.POST("/complete", r.soloHandler.CompleteSoloGame)
		}

		// 在线状态
		api.GET("/status", r.wsHandler.Status)
	}

	// WebSocket路由
	r.engine.GET("/ws", r.wsHandler.Serve)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
