package calendar

import (
	"time"

	"smart-schedule/core/middleware"
	"smart-schedule/modules/calendar/controller"
	"smart-schedule/modules/calendar/router"
	"smart-schedule/modules/calendar/service"
	"smart-schedule/modules/meeting/repository"

	"github.com/labstack/echo/v4"
)

func Init(private *echo.Group, repo repository.MeetingRepositoryInterface, cfg service.GoogleConfig, loc *time.Location, mw *middleware.Middleware) *service.CalendarService {
	calendarService := service.NewCalendarService(repo, cfg, loc)
	calendarController := controller.NewCalendarController(calendarService)

	router.NewCalendarRouter(calendarController).Register(private, mw)

	return calendarService
}
