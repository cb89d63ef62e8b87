package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/services"
	"github.com/gradlink/alumni/internal/middleware"
	"github.com/gradlink/alumni/internal/pkg/helpers"
)

// JobController handles the job board
type JobController struct {
	jobService services.JobService
}

// NewJobController creates a new JobController
func NewJobController(jobService services.JobService) *JobController {
	return &JobController{jobService: jobService}
}

// ListJobs lists active jobs
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param search query string false "Title, company or description"
// @Param category query int false "Category ID"
// @Param job_type query string false "Job type" Enums(full_time, part_time, contract, internship, freelance)
// @Param experience_level query string false "Experience level" Enums(entry, mid, senior, executive)
// @Param location query string false "Location"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size (default: 10, max: 100)" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.JobListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /jobs [get]
func (c *JobController) ListJobs(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var query dto.JobQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)

	resp, err := c.jobService.ListJobs(ctx.Request.Context(), userID, query, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// PostJob publishes a job
// @Summary Post a job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.JobRequest true "Job"
// @Success 201 {object} dto.APIResponse{data=dto.JobResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /jobs [post]
func (c *JobController) PostJob(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.JobRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.jobService.PostJob(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListCategories lists job categories
// @Summary Job categories
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.JobCategoryResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /jobs/categories [get]
func (c *JobController) ListCategories(ctx *gin.Context) {
	resp, err := c.jobService.ListCategories(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListMyApplications lists the caller's applications
// @Summary My applications
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.JobApplicationResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /jobs/applications [get]
func (c *JobController) ListMyApplications(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	resp, err := c.jobService.ListMyApplications(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListMyPostedJobs lists the jobs the caller posted
// @Summary My posted jobs
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.JobResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /jobs/posted [get]
func (c *JobController) ListMyPostedJobs(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	resp, err := c.jobService.ListMyPostedJobs(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetJob returns a job
// @Summary Get a job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=dto.JobResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /jobs/{id} [get]
func (c *JobController) GetJob(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.jobService.GetJob(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Apply submits an application
// @Summary Apply for a job
// @Description Multipart form with an optional cover letter and an optional pdf, doc or docx resume of at most 5MB
// @Tags jobs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param coverLetter formData string false "Cover letter"
// @Param resume formData file false "Resume"
// @Success 201 {object} dto.APIResponse{data=dto.JobApplicationResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error or unsupported file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /jobs/{id}/apply [post]
func (c *JobController) Apply(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ApplyRequest
	if !middleware.BindForm(ctx, &req) {
		return
	}

	resume, err := ctx.FormFile("resume")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid resume upload").WithField("resume")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		resume = nil
	}

	resp, err := c.jobService.Apply(ctx.Request.Context(), userID, id, req.CoverLetter, resume)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}
