package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HealthHandler 服务与数据库健康检查
type HealthHandler struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewHealthHandler(db *gorm.DB, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Health GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
}

// Database GET /api/health/db
func (h *HealthHandler) Database(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	err := h.ping(ctx)
	if err != nil {
		h.logger.WithError(err).Error("DatabaseHealth failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"message":   "Database connection failed",
			"error":     err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"connected": true,
		"message":   "Database connection successful",
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
