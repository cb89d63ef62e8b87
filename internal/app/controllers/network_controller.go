package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/services"
	"github.com/gradlink/alumni/internal/middleware"
	"github.com/rs/zerolog"
)

// NetworkController handles connections and mentorships
type NetworkController struct {
	connectionService services.ConnectionService
	mentorshipService services.MentorshipService
	logger            zerolog.Logger
}

// NewNetworkController creates a new NetworkController
func NewNetworkController(connectionService services.ConnectionService, mentorshipService services.MentorshipService, logger zerolog.Logger) *NetworkController {
	return &NetworkController{
		connectionService: connectionService,
		mentorshipService: mentorshipService,
		logger:            logger,
	}
}

// RequestConnection sends a connection request
// @Summary Request a connection
// @Description Only one connection may exist between two users, whatever its status or direction
// @Tags network
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateConnectionRequest true "Receiver and optional message"
// @Success 201 {object} dto.APIResponse{data=dto.ConnectionResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error or self connection"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Receiver not found"
// @Failure 409 {object} dto.ErrorResponse "Connection already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /connections [post]
func (c *NetworkController) RequestConnection(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.CreateConnectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.connectionService.RequestConnection(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("senderID", userID).Int64("receiverID", req.ReceiverID).Msg("Connection requested")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListConnections lists the caller's connections
// @Summary List my connections
// @Tags network
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionsResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /connections [get]
func (c *NetworkController) ListConnections(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	resp, err := c.connectionService.ListMyConnections(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RespondConnection answers a pending connection request
// @Summary Respond to a connection request
// @Tags network
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Param request body dto.RespondRequest true "accept or decline"
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already answered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /connections/{id}/respond [post]
func (c *NetworkController) RespondConnection(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.RespondRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.connectionService.RespondConnection(ctx.Request.Context(), userID, id, req.Action)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RequestMentorship asks a mentor for guidance
// @Summary Request mentorship
// @Tags network
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMentorshipRequest true "Mentor and subject"
// @Success 201 {object} dto.APIResponse{data=dto.MentorshipResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Mentor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentorships [post]
func (c *NetworkController) RequestMentorship(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.CreateMentorshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.mentorshipService.RequestMentorship(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListMentorships lists the caller's mentorship requests
// @Summary List my mentorship requests
// @Tags network
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MentorshipsResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentorships [get]
func (c *NetworkController) ListMentorships(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	resp, err := c.mentorshipService.ListMyMentorships(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RespondMentorship answers a pending mentorship request
// @Summary Respond to a mentorship request
// @Tags network
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mentorship request ID"
// @Param request body dto.RespondRequest true "accept or decline"
// @Success 200 {object} dto.APIResponse{data=dto.MentorshipResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already answered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentorships/{id}/respond [post]
func (c *NetworkController) RespondMentorship(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.RespondRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.mentorshipService.RespondMentorship(ctx.Request.Context(), userID, id, req.Action)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
