package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	observationapp "github.com/rahul-raghavan/pep-ops-log/internal/application/observation"
	observationdto "github.com/rahul-raghavan/pep-ops-log/internal/application/observation/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/utils"
)

type ObservationHandler struct {
	observationSvc *observationapp.Service
	logger         logger.Interface
}

func NewObservationHandler(observationSvc *observationapp.Service, logger logger.Interface) *ObservationHandler {
	return &ObservationHandler{
		observationSvc: observationSvc,
		logger:         logger,
	}
}

// Create godoc
// @Summary Log observation
// @Description Logs a free-text observation against a subject the caller can see. Markup is stripped from the transcript; the center is snapshotted from the subject at log time.
// @Security SessionCookie
// @Tags observations
// @Accept json
// @Produce json
// @Param request body dto.CreateObservationRequest true "Observation data"
// @Success 201 {object} utils.APIResponse "Observation logged"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 404 {object} utils.APIResponse "Subject not found"
// @Router /observations [post]
func (h *ObservationHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req dto.CreateObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create observation", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.observationSvc.Create(c.Request.Context(), actor, req.ToApplicationDTO())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Observation logged successfully")
}

// List godoc
// @Summary List observations
// @Description Lists observations within the caller's scope, newest first
// @Security SessionCookie
// @Tags observations
// @Produce json
// @Param subject_id query string false "Restrict to one subject"
// @Param center_id query string false "Restrict to one center"
// @Param type query string false "Filter by tag"
// @Param from query string false "Start date (YYYY-MM-DD, business timezone)"
// @Param to query string false "End date (YYYY-MM-DD, business timezone)"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} utils.APIResponse "Observations"
// @Router /observations [get]
func (h *ObservationHandler) List(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	filter := observationdto.ListFilter{
		SubjectID: queryPtr(c, "subject_id"),
		CenterID:  queryPtr(c, "center_id"),
		Type:      queryPtr(c, "type"),
		From:      queryPtr(c, "from"),
		To:        queryPtr(c, "to"),
		Limit:     limit,
	}

	result, err := h.observationSvc.List(c.Request.Context(), actor, filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Recent godoc
// @Summary Recently logged observations
// @Description Lists the caller's scope's most recently logged observations, newest logged first
// @Security SessionCookie
// @Tags observations
// @Produce json
// @Param limit query int false "Maximum rows (default 5)"
// @Success 200 {object} utils.APIResponse "Observations"
// @Router /observations/recent [get]
func (h *ObservationHandler) Recent(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	result, err := h.observationSvc.Recent(c.Request.Context(), actor, limit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Get godoc
// @Summary Get observation
// @Security SessionCookie
// @Tags observations
// @Produce json
// @Param id path string true "Observation ID"
// @Success 200 {object} utils.APIResponse "Observation"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /observations/{id} [get]
func (h *ObservationHandler) Get(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.observationSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Update godoc
// @Summary Edit observation
// @Description Edits an observation. Only the logger may edit, and only within 24 hours of logging.
// @Security SessionCookie
// @Tags observations
// @Accept json
// @Produce json
// @Param id path string true "Observation ID"
// @Param request body dto.UpdateObservationRequest true "Observation data"
// @Success 200 {object} utils.APIResponse "Observation updated"
// @Failure 403 {object} utils.APIResponse "Edit window closed or not the logger"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /observations/{id} [put]
func (h *ObservationHandler) Update(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req dto.UpdateObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update observation", "observation_id", c.Param("id"), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.observationSvc.Update(c.Request.Context(), actor, c.Param("id"), req.ToApplicationDTO())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// ListTypes godoc
// @Summary List observation tags
// @Description Lists tag configs. Pass all=true to include inactive tags (admin screens).
// @Security SessionCookie
// @Tags observation-types
// @Produce json
// @Param all query boolean false "Include inactive tags"
// @Success 200 {object} utils.APIResponse "Tags"
// @Router /observation-types [get]
func (h *ObservationHandler) ListTypes(c *gin.Context) {
	activeOnly := c.Query("all") != "true"

	result, err := h.observationSvc.ListTypeConfigs(c.Request.Context(), activeOnly)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// CreateType godoc
// @Summary Create observation tag
// @Description Adds a tag config. Admin only.
// @Security SessionCookie
// @Tags observation-types
// @Accept json
// @Produce json
// @Param request body dto.CreateTypeConfigRequest true "Tag data"
// @Success 201 {object} utils.APIResponse "Tag created"
// @Failure 409 {object} utils.APIResponse "Value already taken"
// @Router /observation-types [post]
func (h *ObservationHandler) CreateType(c *gin.Context) {
	var req dto.CreateTypeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create observation type", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.observationSvc.CreateTypeConfig(c.Request.Context(), req.ToApplicationDTO())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Observation type created successfully")
}

// UpdateType godoc
// @Summary Update observation tag
// @Description Edits a tag's label, active flag or sort order. Retiring a tag never touches observations already carrying it. Admin only.
// @Security SessionCookie
// @Tags observation-types
// @Accept json
// @Produce json
// @Param id path string true "Tag ID"
// @Param request body dto.UpdateTypeConfigRequest true "Tag data"
// @Success 200 {object} utils.APIResponse "Tag updated"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /observation-types/{id} [put]
func (h *ObservationHandler) UpdateType(c *gin.Context) {
	var req dto.UpdateTypeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update observation type", "type_id", c.Param("id"), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.observationSvc.UpdateTypeConfig(c.Request.Context(), c.Param("id"), req.ToApplicationDTO())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}
