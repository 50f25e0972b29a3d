package controller

import (
	"smart-schedule/core/controller"
	"smart-schedule/core/errors"
	"smart-schedule/modules/calendar/dto"
	"smart-schedule/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	service service.CalendarServiceInterface
}

func NewCalendarController(service service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// Sync imports a user's Google Calendar events as meetings
// @Summary Import Google Calendar events
// @Description Upserts the user's timed events in [from, to) as meetings g-<eventId>
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SyncRequest true "User and window"
// @Success 200 {object} dto.SyncResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/calendar/sync [post]
func (c *CalendarController) Sync(ctx echo.Context) error {
	var req dto.SyncRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	result, appErr := c.service.SyncUser(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Calendar synced successfully")
}
