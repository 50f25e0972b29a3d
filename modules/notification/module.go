package notification

import (
	"smart-schedule/core/database"
	"smart-schedule/core/middleware"
	"smart-schedule/modules/notification/controller"
	"smart-schedule/modules/notification/repository"
	"smart-schedule/modules/notification/router"
	"smart-schedule/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init mounts the notification routes. Notifications need SQL storage, so the
// module is only wired when a database is configured.
func Init(e *echo.Group, db database.IDatabase, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
