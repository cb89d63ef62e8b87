package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/services"
	"github.com/gradlink/alumni/internal/middleware"
	"github.com/gradlink/alumni/internal/pkg/helpers"
)

// DirectoryController serves the alumni directory
type DirectoryController struct {
	directoryService services.DirectoryService
}

// NewDirectoryController creates a new DirectoryController
func NewDirectoryController(directoryService services.DirectoryService) *DirectoryController {
	return &DirectoryController{directoryService: directoryService}
}

// Search lists directory members
// @Summary Search the directory
// @Description Lists public alumni and students, excluding the caller
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, company, position or major"
// @Param university query int false "University ID"
// @Param graduation_year query int false "Graduation year"
// @Param user_type query string false "alumni or student" Enums(alumni, student)
// @Param is_mentor query bool false "Only mentors"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size (default: 12, max: 100)" default(12) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.DirectoryListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /directory [get]
func (c *DirectoryController) Search(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var query dto.DirectoryQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx, helpers.DirectoryPageSize)

	resp, err := c.directoryService.Search(ctx.Request.Context(), userID, query, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Filters lists the available directory filter values
// @Summary Directory filter values
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DirectoryFiltersResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /directory/filters [get]
func (c *DirectoryController) Filters(ctx *gin.Context) {
	resp, err := c.directoryService.Filters(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Mentors lists members who offer mentorship
// @Summary List mentors
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, company, position or major"
// @Param industry query string false "Industry"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size (default: 12, max: 100)" default(12) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.DirectoryListResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /directory/mentors [get]
func (c *DirectoryController) Mentors(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var query dto.MentorQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx, helpers.DirectoryPageSize)

	resp, err := c.directoryService.Mentors(ctx.Request.Context(), userID, query, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Universities lists all universities
// @Summary List universities
// @Tags directory
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.UniversityResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /universities [get]
func (c *DirectoryController) Universities(ctx *gin.Context) {
	resp, err := c.directoryService.Universities(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
