package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	summaryapp "github.com/rahul-raghavan/pep-ops-log/internal/application/summary"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/utils"
)

type SummaryHandler struct {
	summarySvc *summaryapp.Service
	logger     logger.Interface
}

func NewSummaryHandler(summarySvc *summaryapp.Service, logger logger.Interface) *SummaryHandler {
	return &SummaryHandler{
		summarySvc: summarySvc,
		logger:     logger,
	}
}

// Get godoc
// @Summary Summarize a subject's observations
// @Description Returns an AI summary of the subject's observations from start_date to now. A stored summary is reused when it already covers the newest observation; otherwise a fresh one is generated and stored.
// @Security SessionCookie
// @Tags summaries
// @Produce json
// @Param id path string true "Subject ID"
// @Param start_date query string false "Window start (YYYY-MM-DD, business timezone). Omitted means the subject's full history."
// @Param force query bool false "Regenerate even when a stored summary still covers the window"
// @Success 200 {object} utils.APIResponse{data=dto.SummaryResponse} "Summary"
// @Failure 400 {object} utils.APIResponse "No observations in window"
// @Failure 404 {object} utils.APIResponse "Subject not found"
// @Router /subjects/{id}/summary [get]
func (h *SummaryHandler) Get(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	force := c.Query("force") == "true"
	result, err := h.summarySvc.GetOrGenerate(c.Request.Context(), actor, c.Param("id"), c.Query("start_date"), force)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Latest godoc
// @Summary Latest stored summary
// @Description Returns the most recently stored summary for the subject without generating a new one
// @Security SessionCookie
// @Tags summaries
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} utils.APIResponse{data=dto.SummaryResponse} "Summary"
// @Failure 404 {object} utils.APIResponse "No stored summary"
// @Router /subjects/{id}/summary/latest [get]
func (h *SummaryHandler) Latest(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.summarySvc.Latest(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Download godoc
// @Summary Download latest summary
// @Description Returns the most recently stored summary as a plain-text attachment
// @Security SessionCookie
// @Tags summaries
// @Produce plain
// @Param id path string true "Subject ID"
// @Success 200 {string} string "Summary text"
// @Failure 404 {object} utils.APIResponse "No stored summary"
// @Router /subjects/{id}/summary/latest/download [get]
func (h *SummaryHandler) Download(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.summarySvc.Latest(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	filename := fmt.Sprintf("summary-%s-%s.txt",
		result.SubjectID,
		biztime.FormatInBizTimezone(result.GeneratedAt, "2006-01-02"),
	)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(result.SummaryText))
}
