package api

import (
	"net/http"

	"EventHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ExampleHandler 示例资源的 CRUD 接口
type ExampleHandler struct {
	examples *service.ExampleService
	logger   *logrus.Logger
}

func NewExampleHandler(examples *service.ExampleService, logger *logrus.Logger) *ExampleHandler {
	return &ExampleHandler{examples: examples, logger: logger}
}

// List GET /api/examples?name=
func (h *ExampleHandler) List(c *gin.Context) {
	examples, err := h.examples.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, h.logger, "ListExamples", err)
		return
	}
	c.JSON(http.StatusOK, examples)
}

// Get GET /api/examples/:id
func (h *ExampleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	example, err := h.examples.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetExample", err)
		return
	}
	c.JSON(http.StatusOK, example)
}

// Create POST /api/examples
func (h *ExampleHandler) Create(c *gin.Context) {
	var in service.ExampleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	example, err := h.examples.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "CreateExample", err)
		return
	}
	c.JSON(http.StatusCreated, example)
}

// Update PUT /api/examples/:id
func (h *ExampleHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in service.ExampleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	example, err := h.examples.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, "UpdateExample", err)
		return
	}
	c.JSON(http.StatusOK, example)
}

// Delete DELETE /api/examples/:id
func (h *ExampleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.examples.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "DeleteExample", err)
		return
	}
	c.Status(http.StatusNoContent)
}
