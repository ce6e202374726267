package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	analyticsapp "github.com/rahul-raghavan/pep-ops-log/internal/application/analytics"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/utils"
)

type AnalyticsHandler struct {
	analyticsSvc *analyticsapp.Service
	logger       logger.Interface
}

func NewAnalyticsHandler(analyticsSvc *analyticsapp.Service, logger logger.Interface) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
		logger:       logger,
	}
}

// DashboardStats godoc
// @Summary Dashboard counters
// @Description Returns active subject and observation counters plus the latest observations within the caller's scope
// @Security SessionCookie
// @Tags dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.DashboardStats} "Stats"
// @Router /dashboard/stats [get]
func (h *AnalyticsHandler) DashboardStats(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.analyticsSvc.DashboardStats(c.Request.Context(), actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// SubjectAttention godoc
// @Summary Subjects needing attention
// @Description Returns the most observed subjects over the window and active subjects with no observations at all
// @Security SessionCookie
// @Tags dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.SubjectAttention} "Attention list"
// @Router /dashboard/attention [get]
func (h *AnalyticsHandler) SubjectAttention(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.analyticsSvc.SubjectAttention(c.Request.Context(), actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// InactivityStatus godoc
// @Summary Logging inactivity
// @Description Tells the caller how long it has been since they last logged an observation
// @Security SessionCookie
// @Tags dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.InactivityStatus} "Inactivity status"
// @Router /dashboard/inactivity [get]
func (h *AnalyticsHandler) InactivityStatus(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.analyticsSvc.InactivityStatus(c.Request.Context(), actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// CenterAnalytics godoc
// @Summary Center analytics
// @Description Returns observation counts by center and by tag over the window. Admin only.
// @Security SessionCookie
// @Tags analytics
// @Produce json
// @Param window_days query int false "Window in days (default 30)"
// @Success 200 {object} utils.APIResponse{data=dto.CenterAnalytics} "Analytics"
// @Router /analytics/centers [get]
func (h *AnalyticsHandler) CenterAnalytics(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	windowDays := 0
	if raw := c.Query("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "window_days must be a positive integer")
			return
		}
		windowDays = parsed
	}

	result, err := h.analyticsSvc.CenterAnalytics(c.Request.Context(), actor, windowDays)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// SubjectTrends godoc
// @Summary Subject weekly trends
// @Description Returns the subject's observation counts bucketed by week over the last eight weeks
// @Security SessionCookie
// @Tags analytics
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} utils.APIResponse{data=dto.SubjectTrends} "Trends"
// @Failure 404 {object} utils.APIResponse "Subject not found"
// @Router /subjects/{id}/trends [get]
func (h *AnalyticsHandler) SubjectTrends(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.analyticsSvc.SubjectTrends(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// ExportObservations godoc
// @Summary Export observations to XLSX
// @Description Streams an XLSX workbook of observations from the given date. Admin only.
// @Security SessionCookie
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param center_id query string false "Restrict to one center"
// @Param from query string false "Start date (YYYY-MM-DD, business timezone)"
// @Param to query string false "End date (YYYY-MM-DD, business timezone)"
// @Success 200 {file} binary "Workbook"
// @Router /admin/export/observations [get]
func (h *AnalyticsHandler) ExportObservations(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	buf, err := h.analyticsSvc.ExportObservations(c.Request.Context(), actor, c.Query("center_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	filename := fmt.Sprintf("observations-%s.xlsx", biztime.FormatInBizTimezone(biztime.NowUTC(), "2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
