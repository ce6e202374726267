package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	centerapp "github.com/rahul-raghavan/pep-ops-log/internal/application/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/utils"
)

type CenterHandler struct {
	centerSvc *centerapp.Service
	logger    logger.Interface
}

func NewCenterHandler(centerSvc *centerapp.Service, logger logger.Interface) *CenterHandler {
	return &CenterHandler{
		centerSvc: centerSvc,
		logger:    logger,
	}
}

// Create godoc
// @Summary Create center
// @Description Adds a new center. Admin only.
// @Security SessionCookie
// @Tags centers
// @Accept json
// @Produce json
// @Param request body dto.CreateCenterRequest true "Center data"
// @Success 201 {object} utils.APIResponse "Center created"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 409 {object} utils.APIResponse "Name already taken"
// @Router /centers [post]
func (h *CenterHandler) Create(c *gin.Context) {
	var req dto.CreateCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create center", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.centerSvc.Create(c.Request.Context(), req.Name)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Center created successfully")
}

// List godoc
// @Summary List centers
// @Description Lists centers visible to the caller: all for admins, assigned for managers
// @Security SessionCookie
// @Tags centers
// @Produce json
// @Success 200 {object} utils.APIResponse "Centers"
// @Router /centers [get]
func (h *CenterHandler) List(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.centerSvc.List(c.Request.Context(), actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Get godoc
// @Summary Get center
// @Security SessionCookie
// @Tags centers
// @Produce json
// @Param id path string true "Center ID"
// @Success 200 {object} utils.APIResponse "Center"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /centers/{id} [get]
func (h *CenterHandler) Get(c *gin.Context) {
	result, err := h.centerSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Update godoc
// @Summary Rename center
// @Description Renames a center. Admin only.
// @Security SessionCookie
// @Tags centers
// @Accept json
// @Produce json
// @Param id path string true "Center ID"
// @Param request body dto.UpdateCenterRequest true "Center data"
// @Success 200 {object} utils.APIResponse "Center updated"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Failure 409 {object} utils.APIResponse "Name already taken"
// @Router /centers/{id} [put]
func (h *CenterHandler) Update(c *gin.Context) {
	var req dto.UpdateCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update center", "center_id", c.Param("id"), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.centerSvc.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}
