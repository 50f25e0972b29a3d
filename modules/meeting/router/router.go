package router

import (
	"smart-schedule/core/middleware"
	"smart-schedule/modules/meeting/controller"

	"github.com/labstack/echo/v4"
)

type MeetingRouter struct {
	MeetingController *controller.MeetingController
}

func NewMeetingRouter(meetingController *controller.MeetingController) *MeetingRouter {
	return &MeetingRouter{
		MeetingController: meetingController,
	}
}

// Register mounts the routes on the /api/v1/private group.
func (r *MeetingRouter) Register(private *echo.Group, mw *middleware.Middleware) {
	auth := mw.AuthMiddleware()

	schedule := private.Group("/schedule", auth)
	schedule.POST("/slots", r.MeetingController.FindSlots)
	schedule.POST("/conflicts", r.MeetingController.DetectConflicts)
	schedule.POST("/availability", r.MeetingController.CheckAvailability)

	meetings := private.Group("/meetings", auth)
	meetings.GET("", r.MeetingController.ListMeetings)
	meetings.POST("", r.MeetingController.CreateMeeting)

	private.GET("/users", r.MeetingController.ListUsers, auth)
}
