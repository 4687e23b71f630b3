package api

import (
	"net/http"

	"EventHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ParticipantHandler struct {
	participants *service.ParticipantService
	logger       *logrus.Logger
}

func NewParticipantHandler(participants *service.ParticipantService, logger *logrus.Logger) *ParticipantHandler {
	return &ParticipantHandler{participants: participants, logger: logger}
}

// Join POST /api/participants；新加入返回 201，已加入返回 200
func (h *ParticipantHandler) Join(c *gin.Context) {
	var req service.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	participant, created, err := h.participants.Join(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "JoinEvent", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, participant)
}

func (h *ParticipantHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	participant, err := h.participants.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetParticipant", err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

func (h *ParticipantHandler) Stats(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	stats, err := h.participants.Stats(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetParticipantStats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ParticipantHandler) Badges(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	badges, err := h.participants.Badges(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetParticipantBadges", err)
		return
	}
	c.JSON(http.StatusOK, badges)
}

// Reset POST /api/participants/:id/reset
func (h *ParticipantHandler) Reset(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	participant, err := h.participants.Reset(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "ResetParticipant", err)
		return
	}
	c.JSON(http.StatusOK, participant)
}
