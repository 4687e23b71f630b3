package api

import (
	"net/http"

	"EventHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type QuestionHandler struct {
	questions *service.QuestionService
	logger    *logrus.Logger
}

func NewQuestionHandler(questions *service.QuestionService, logger *logrus.Logger) *QuestionHandler {
	return &QuestionHandler{questions: questions, logger: logger}
}

// List GET /api/questions?event_id=
func (h *QuestionHandler) List(c *gin.Context) {
	eventID, ok := queryID(c, "event_id")
	if !ok {
		return
	}
	questions, err := h.questions.List(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, h.logger, "ListQuestions", err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	question, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetQuestion", err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req service.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	question, err := h.questions.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "CreateQuestion", err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// Generate POST /api/questions/generate，只返回生成结果，不保存
func (h *QuestionHandler) Generate(c *gin.Context) {
	var req service.GenerateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	generated, err := h.questions.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "GenerateQuestion", err)
		return
	}
	c.JSON(http.StatusOK, generated)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.questions.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "DeleteQuestion", err)
		return
	}
	c.Status(http.StatusNoContent)
}
