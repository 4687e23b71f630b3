package api

import (
	"net/http"

	"EventHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type MessageHandler struct {
	messages *service.MessageService
	logger   *logrus.Logger
}

func NewMessageHandler(messages *service.MessageService, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

// List GET /api/messages?event_id=&limit=100
func (h *MessageHandler) List(c *gin.Context) {
	eventID, ok := queryID(c, "event_id")
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	messages, err := h.messages.List(c.Request.Context(), eventID, limit)
	if err != nil {
		respondError(c, h.logger, "ListMessages", err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req service.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	message, err := h.messages.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "CreateMessage", err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.messages.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "DeleteMessage", err)
		return
	}
	c.Status(http.StatusNoContent)
}
