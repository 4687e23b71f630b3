package api

import (
	"errors"
	"net/http"
	"strconv"

	"EventHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError 按错误分类写出统一的错误体：404 {message}，400/500 {message, error}
func respondError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		switch {
		case errors.Is(err, service.ErrNotFound):
			logger.WithError(err).Warn(op + " failed")
			c.JSON(http.StatusNotFound, gin.H{"message": se.Message})
			return
		case errors.Is(err, service.ErrValidation),
			errors.Is(err, service.ErrConflict),
			errors.Is(err, service.ErrInvalidTransition):
			logger.WithError(err).Warn(op + " failed")
			c.JSON(http.StatusBadRequest, gin.H{"message": se.Message, "error": se.Detail})
			return
		}
	}
	logger.WithError(err).Error(op + " failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
}

func badRequest(c *gin.Context, message string, err error) {
	detail := message
	if err != nil {
		detail = err.Error()
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": message, "error": detail})
}

// pathID 解析路径中的 :id；非法时已写出 400
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid id", err)
		return 0, false
	}
	return id, true
}

// queryID 解析可选的数字查询参数，缺省为 0
func queryID(c *gin.Context, key string) (uint64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		badRequest(c, "Invalid "+key, err)
		return 0, false
	}
	return id, true
}

func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		badRequest(c, "Invalid limit", err)
		return 0, false
	}
	return limit, true
}
