package controller

import (
	"smart-schedule/core/controller"
	"smart-schedule/core/errors"
	"smart-schedule/modules/meeting/dto"
	"smart-schedule/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

// MeetingController serves the scheduling operations over HTTP
type MeetingController struct {
	controller.BaseController
	MeetingService service.MeetingServiceInterface
}

func NewMeetingController(svc service.MeetingServiceInterface) *MeetingController {
	return &MeetingController{
		BaseController: controller.NewBaseController(),
		MeetingService: svc,
	}
}

// bind decodes and validates the request body into req.
func (c *MeetingController) bind(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	return ctx.Validate(req)
}

// FindSlots handles POST /schedule/slots
// @Summary Find optimal meeting slots
// @Description Ranks hourly weekday slots in a date range by participant availability
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.FindSlotsRequest true "Participants, duration and date range"
// @Success 200 {object} dto.FindSlotsResponse
// @Failure 400 {object} errors.AppError
// @Router /private/schedule/slots [post]
func (c *MeetingController) FindSlots(ctx echo.Context) error {
	var req dto.FindSlotsRequest
	if err := c.bind(ctx, &req); err != nil {
		return err
	}

	result, appErr := c.MeetingService.FindSlots(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, result.Message)
}

// DetectConflicts handles POST /schedule/conflicts
// @Summary Detect scheduling conflicts
// @Description Reports overlapping and out-of-hours meetings for one user in a window
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.DetectConflictsRequest true "User and time range"
// @Success 200 {object} dto.ConflictReport
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/schedule/conflicts [post]
func (c *MeetingController) DetectConflicts(ctx echo.Context) error {
	var req dto.DetectConflictsRequest
	if err := c.bind(ctx, &req); err != nil {
		return err
	}

	result, appErr := c.MeetingService.DetectConflicts(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Conflict analysis completed")
}

// CheckAvailability handles POST /schedule/availability
// @Summary Check one user's availability
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CheckAvailabilityRequest true "User and interval"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 404 {object} errors.AppError
// @Router /private/schedule/availability [post]
func (c *MeetingController) CheckAvailability(ctx echo.Context) error {
	var req dto.CheckAvailabilityRequest
	if err := c.bind(ctx, &req); err != nil {
		return err
	}

	result, appErr := c.MeetingService.CheckAvailability(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// CreateMeeting handles POST /meetings
// @Summary Create a meeting
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMeetingRequest true "Meeting details"
// @Success 201 {object} dto.CreateMeetingResponse
// @Failure 400 {object} errors.AppError
// @Router /private/meetings [post]
func (c *MeetingController) CreateMeeting(ctx echo.Context) error {
	var req dto.CreateMeetingRequest
	if err := c.bind(ctx, &req); err != nil {
		return err
	}

	result, appErr := c.MeetingService.CreateMeeting(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, result.Message)
}

// ListMeetings handles GET /meetings
// @Summary List meetings
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param participant query string false "Only meetings naming this user id or name"
// @Success 200 {object} dto.MeetingListResponse
// @Router /private/meetings [get]
func (c *MeetingController) ListMeetings(ctx echo.Context) error {
	result, appErr := c.MeetingService.ListMeetings(ctx.Request().Context(), ctx.QueryParam("participant"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListUsers handles GET /users
// @Summary List users
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserListResponse
// @Router /private/users [get]
func (c *MeetingController) ListUsers(ctx echo.Context) error {
	result, appErr := c.MeetingService.ListUsers(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
