package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subjectapp "github.com/rahul-raghavan/pep-ops-log/internal/application/subject"
	subjectdto "github.com/rahul-raghavan/pep-ops-log/internal/application/subject/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/utils"
)

type SubjectHandler struct {
	subjectSvc *subjectapp.Service
	logger     logger.Interface
}

func NewSubjectHandler(subjectSvc *subjectapp.Service, logger logger.Interface) *SubjectHandler {
	return &SubjectHandler{
		subjectSvc: subjectSvc,
		logger:     logger,
	}
}

// Create godoc
// @Summary Create subject
// @Description Adds a staff member at a center within the caller's scope
// @Security SessionCookie
// @Tags subjects
// @Accept json
// @Produce json
// @Param request body dto.CreateSubjectRequest true "Subject data"
// @Success 201 {object} utils.APIResponse "Subject created"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 403 {object} utils.APIResponse "Center outside scope"
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subject", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.subjectSvc.Create(c.Request.Context(), actor, req.ToApplicationDTO())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subject created successfully")
}

// List godoc
// @Summary List subjects
// @Description Lists staff members within the caller's scope
// @Security SessionCookie
// @Tags subjects
// @Produce json
// @Param center_id query string false "Restrict to one center"
// @Param role query string false "Filter by staff role"
// @Param active query boolean false "Only active subjects"
// @Param q query string false "Name search"
// @Success 200 {object} utils.APIResponse "Subjects"
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	filter := subjectdto.ListFilter{
		CenterID:   queryPtr(c, "center_id"),
		Role:       queryPtr(c, "role"),
		ActiveOnly: c.Query("active") == "true",
		Query:      c.Query("q"),
	}

	result, err := h.subjectSvc.List(c.Request.Context(), actor, filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Get godoc
// @Summary Get subject
// @Security SessionCookie
// @Tags subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} utils.APIResponse "Subject"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.subjectSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Update godoc
// @Summary Update subject
// @Description Edits a staff member: rename, role, center transfer, active flag. Admin only.
// @Security SessionCookie
// @Tags subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param request body dto.UpdateSubjectRequest true "Subject data"
// @Success 200 {object} utils.APIResponse "Subject updated"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update subject", "subject_id", c.Param("id"), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.subjectSvc.Update(c.Request.Context(), actor, c.Param("id"), req.ToApplicationDTO())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// queryPtr returns a pointer to the query value, nil when absent.
func queryPtr(c *gin.Context, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}
