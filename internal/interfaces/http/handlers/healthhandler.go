package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/utils"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check godoc
// @Summary Health check
// @Description Returns service liveness
// @Tags health
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "ok", gin.H{
		"status": "healthy",
	})
}
