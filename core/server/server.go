package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"smart-schedule/core/constants"
	"smart-schedule/core/logger"
	"smart-schedule/core/metrics"
	"smart-schedule/core/middleware"
	"smart-schedule/core/validator"
	"smart-schedule/modules/calendar"
	calendarService "smart-schedule/modules/calendar/service"
	"smart-schedule/modules/meeting"
	"smart-schedule/modules/notification"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// NewEcho assembles the HTTP API on top of app.
func NewEcho(ctx context.Context, app *App) (*echo.Echo, error) {
	cfg := app.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	mw := middleware.NewMiddleware(app.Cache, middleware.RateLimitConfig{
		Limit:    cfg.RateLimit.Limit,
		Window:   cfg.RateLimit.Window,
		FailOpen: cfg.RateLimit.FailOpen,
	})

	e.Use(echoMiddleware.Recover())
	e.Use(mw.RequestLogger())
	e.Use(echoMiddleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	v1 := e.Group("/api/v1", mw.RateLimit())
	private := v1.Group("/private")

	meeting.Init(private, app.Meetings, mw)

	calendar.Init(private, app.Repo, calendarService.GoogleConfig{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RefreshToken: cfg.GoogleAPI.RefreshToken,
		BaseURL:      cfg.GoogleAPI.BaseURL,
		TokenURL:     cfg.GoogleAPI.TokenURL,
	}, app.Location, mw)

	db, err := app.NotificationDB(ctx)
	if err != nil {
		return nil, fmt.Errorf("open notification store: %w", err)
	}
	notification.Init(private, db, mw)

	return e, nil
}

// Run serves the HTTP API on app.port until ctx is cancelled.
func Run(ctx context.Context, app *App) error {
	e, err := NewEcho(ctx, app)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", app.Config.App.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Start", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Server:Shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
