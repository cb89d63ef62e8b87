package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/services"
	"github.com/gradlink/alumni/internal/middleware"
)

// HomeController serves the landing page and the member dashboard
type HomeController struct {
	homeService services.HomeService
}

// NewHomeController creates a new HomeController
func NewHomeController(homeService services.HomeService) *HomeController {
	return &HomeController{homeService: homeService}
}

// Home returns the public landing teaser
// @Summary Landing page
// @Tags home
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HomeResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /home [get]
func (c *HomeController) Home(ctx *gin.Context) {
	resp, err := c.homeService.Home(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Dashboard returns the caller's dashboard
// @Summary Dashboard
// @Tags home
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard [get]
func (c *HomeController) Dashboard(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	resp, err := c.homeService.Dashboard(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
