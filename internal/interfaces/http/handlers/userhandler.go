package handlers

import (
	"github.com/gin-gonic/gin"

	userapp "github.com/rahul-raghavan/pep-ops-log/internal/application/user"
	userdto "github.com/rahul-raghavan/pep-ops-log/internal/application/user/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/dto"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/utils"
)

type UserHandler struct {
	userSvc *userapp.Service
	logger  logger.Interface
}

func NewUserHandler(userSvc *userapp.Service, logger logger.Interface) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
		logger:  logger,
	}
}

// Create godoc
// @Summary Create user
// @Description Provisions an account. Sign-in only works for emails provisioned here. Admin only.
// @Security SessionCookie
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User data"
// @Success 201 {object} utils.APIResponse{data=dto.UserResponse} "User created"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 409 {object} utils.APIResponse "Email already taken"
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create user", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.userSvc.Create(c.Request.Context(), req.ToApplicationDTO())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "User created successfully")
}

// List godoc
// @Summary List users
// @Description Lists all accounts. Admin only.
// @Security SessionCookie
// @Tags users
// @Produce json
// @Success 200 {object} utils.APIResponse "Users"
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Get godoc
// @Summary Get user
// @Security SessionCookie
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} utils.APIResponse{data=dto.UserResponse} "User"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	result, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Update godoc
// @Summary Update user
// @Description Edits an account: name, role, active flag, center assignments and subject link. Admin only.
// @Security SessionCookie
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "User data"
// @Success 200 {object} utils.APIResponse{data=dto.UserResponse} "User updated"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update user", "user_id", c.Param("id"), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), req.ToApplicationDTO())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// SetActive godoc
// @Summary Activate or deactivate user
// @Description Toggles whether the account can sign in. Deactivation takes effect on the user's next request. Admin only.
// @Security SessionCookie
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.SetUserActiveRequest true "Active flag"
// @Success 200 {object} utils.APIResponse{data=dto.UserResponse} "User updated"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /users/{id}/active [put]
func (h *UserHandler) SetActive(c *gin.Context) {
	var req dto.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for set user active", "user_id", c.Param("id"), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), userdto.UpdateUserInput{IsActive: req.IsActive})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}
