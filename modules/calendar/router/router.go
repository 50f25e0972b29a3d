package router

import (
	"smart-schedule/core/middleware"
	"smart-schedule/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Register(private *echo.Group, mw *middleware.Middleware) {
	calendarRoutes := private.Group("/calendar", mw.AuthMiddleware())
	calendarRoutes.POST("/sync", r.controller.Sync)
}
