package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/westeros-labs/lawsearch/internal/health"
)

type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) HandleHealth(c *gin.Context) {
	response := h.checker.Check()

	code := http.StatusOK
	if response.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, response)
}
