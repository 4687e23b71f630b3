package api

import (
	"net/http"

	"EventHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventHandler 活动接口：CRUD、状态流转、排名与统计
type EventHandler struct {
	events *service.EventService
	logger *logrus.Logger
}

func NewEventHandler(events *service.EventService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

// List GET /api/events?status=live
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, h.logger, "ListEvents", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetEvent", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	event, err := h.events.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "CreateEvent", err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Update PATCH /api/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	event, err := h.events.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, "UpdateEvent", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "DeleteEvent", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Rankings GET /api/events/:id/rankings?limit=10
func (h *EventHandler) Rankings(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	rankings, err := h.events.Rankings(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, h.logger, "GetRankings", err)
		return
	}
	c.JSON(http.StatusOK, rankings)
}

func (h *EventHandler) Start(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	event, err := h.events.Start(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "StartEvent", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Complete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	event, err := h.events.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "CompleteEvent", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Stats(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	stats, err := h.events.Stats(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetEventStats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
