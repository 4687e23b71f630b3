package api

import (
	"time"

	"EventHub/internal/config"
	"EventHub/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewRouter 注册全部 API 路由；debug 模式下额外挂载 pprof
func NewRouter(db *gorm.DB, svc *service.Services, logger *logrus.Logger, cfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), accessLog(logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// 注册ppof 方便调试和监测性能问题
	if cfg.Mode == gin.DebugMode {
		pprof.Register(r)
	}

	examples := NewExampleHandler(svc.Examples, logger)
	events := NewEventHandler(svc.Events, logger)
	participants := NewParticipantHandler(svc.Participants, logger)
	questions := NewQuestionHandler(svc.Questions, logger)
	responses := NewResponseHandler(svc.Responses, logger)
	messages := NewMessageHandler(svc.Messages, logger)
	health := NewHealthHandler(db, logger)
	docs := NewOpenAPIHandler(logger)

	api := r.Group("/api")
	{
		g := api.Group("/examples")
		g.GET("", examples.List)
		g.POST("", examples.Create)
		g.GET("/:id", examples.Get)
		g.PUT("/:id", examples.Update)
		g.DELETE("/:id", examples.Delete)
	}
	{
		g := api.Group("/events")
		g.GET("", events.List)
		g.POST("", events.Create)
		g.GET("/:id", events.Get)
		g.PATCH("/:id", events.Update)
		g.DELETE("/:id", events.Delete)
		g.GET("/:id/rankings", events.Rankings)
		g.POST("/:id/start", events.Start)
		g.POST("/:id/complete", events.Complete)
		g.GET("/:id/stats", events.Stats)
	}
	{
		g := api.Group("/participants")
		g.POST("", participants.Join)
		g.GET("/:id", participants.Get)
		g.GET("/:id/stats", participants.Stats)
		g.GET("/:id/badges", participants.Badges)
		g.POST("/:id/reset", participants.Reset)
	}
	{
		g := api.Group("/questions")
		g.GET("", questions.List)
		g.POST("", questions.Create)
		g.POST("/generate", questions.Generate)
		g.GET("/:id", questions.Get)
		g.DELETE("/:id", questions.Delete)
	}
	{
		g := api.Group("/responses")
		g.GET("", responses.List)
		g.POST("", responses.Create)
		g.GET("/top/quality", responses.TopQuality)
		g.GET("/:id", responses.Get)
	}
	{
		g := api.Group("/messages")
		g.GET("", messages.List)
		g.POST("", messages.Create)
		g.DELETE("/:id", messages.Delete)
	}

	api.GET("/health", health.Health)
	api.GET("/health/db", health.Database)
	api.GET("/openapi.json", docs.JSON)
	api.GET("/openapi.yaml", docs.YAML)
	return r
}

// corsConfig 未配置来源时允许所有来源（不带凭据）
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// accessLog 用 logrus 记录每个请求
func accessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("http request")
	}
}
