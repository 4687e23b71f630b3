package api

import (
	"net/http"

	"EventHub/internal/repository"
	"EventHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ResponseHandler struct {
	responses *service.ResponseService
	logger    *logrus.Logger
}

func NewResponseHandler(responses *service.ResponseService, logger *logrus.Logger) *ResponseHandler {
	return &ResponseHandler{responses: responses, logger: logger}
}

// List GET /api/responses?question_id=&participant_id=
func (h *ResponseHandler) List(c *gin.Context) {
	questionID, ok := queryID(c, "question_id")
	if !ok {
		return
	}
	participantID, ok := queryID(c, "participant_id")
	if !ok {
		return
	}
	responses, err := h.responses.List(c.Request.Context(), repository.ResponseFilter{
		QuestionID:    questionID,
		ParticipantID: participantID,
	})
	if err != nil {
		respondError(c, h.logger, "ListResponses", err)
		return
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ResponseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	response, err := h.responses.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetResponse", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Create POST /api/responses：评分后返回 201
func (h *ResponseHandler) Create(c *gin.Context) {
	var req service.CreateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	response, err := h.responses.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "CreateResponse", err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// TopQuality GET /api/responses/top/quality?event_id=&limit=5
func (h *ResponseHandler) TopQuality(c *gin.Context) {
	eventID, ok := queryID(c, "event_id")
	if !ok {
		return
	}
	if eventID == 0 {
		badRequest(c, "event_id is required", nil)
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	responses, err := h.responses.TopQuality(c.Request.Context(), eventID, limit)
	if err != nil {
		respondError(c, h.logger, "TopQualityResponses", err)
		return
	}
	c.JSON(http.StatusOK, responses)
}
