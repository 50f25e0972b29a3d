package meeting

import (
	"smart-schedule/core/middleware"
	"smart-schedule/modules/meeting/controller"
	"smart-schedule/modules/meeting/router"
	"smart-schedule/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

// Init mounts the scheduling routes on the private API group. The service is
// built by the caller so the MCP server and worker can share it.
func Init(private *echo.Group, svc service.MeetingServiceInterface, mw *middleware.Middleware) {
	ctrl := controller.NewMeetingController(svc)
	router.NewMeetingRouter(ctrl).Register(private, mw)
}
