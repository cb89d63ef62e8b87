package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/services"
	"github.com/gradlink/alumni/internal/middleware"
	"github.com/rs/zerolog"
)

// UserController handles the signed-in user's account and member profiles
type UserController struct {
	accountService services.AccountService
	logger         zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(accountService services.AccountService, logger zerolog.Logger) *UserController {
	return &UserController{
		accountService: accountService,
		logger:         logger,
	}
}

// GetMe returns the caller's account
// @Summary Get my account
// @Description Returns the account, profile and directory settings of the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	me, err := c.accountService.GetMe(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(me))
}

// UpdateProfile updates the caller's profile
// @Summary Update my profile
// @Description Updates the personal fields, the academic and career profile, and the directory settings. The role cannot be changed.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	me, err := c.accountService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(me))
}

// UploadProfilePicture replaces the caller's profile picture
// @Summary Upload profile picture
// @Description Stores a jpg, png, gif or webp image of at most 2MB
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param picture formData file true "Profile picture"
// @Success 200 {object} dto.APIResponse{data=dto.ProfilePictureResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or unsupported file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me/profile-picture [post]
func (c *UserController) UploadProfilePicture(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("picture")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "A picture file is required").WithField("picture")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.accountService.UpdateProfilePicture(ctx.Request.Context(), userID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteAccount deletes the caller's account
// @Summary Delete my account
// @Description Permanently deletes the account and everything it owns. Requires the current password.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DeleteAccountRequest true "Current password"
// @Success 200 {object} dto.APIResponse "Account deleted"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Wrong password or unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me [delete]
func (c *UserController) DeleteAccount(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.DeleteAccountRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.accountService.DeleteAccount(ctx.Request.Context(), userID, req.Password); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Account deleted"))
}

// GetUser returns another member's profile
// @Summary Get a member
// @Description Returns a member's profile and the caller's connection status with them
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.PublicUserResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	viewerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.accountService.GetUser(ctx.Request.Context(), viewerID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}
