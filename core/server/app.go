package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"smart-schedule/core/cache"
	"smart-schedule/core/config"
	"smart-schedule/core/database"
	"smart-schedule/core/logger"
	"smart-schedule/core/metrics"
	"smart-schedule/core/queue"
	"smart-schedule/core/storage"
	"smart-schedule/modules/meeting/repository"
	"smart-schedule/modules/meeting/service"
)

// App holds the long-lived dependencies shared by the serve, mcp, worker and
// seed commands.
type App struct {
	Config   *config.Config
	Location *time.Location
	Repo     repository.MeetingRepositoryInterface
	Meetings *service.MeetingService
	Metrics  *metrics.Metrics
	// DB is set when the schedule store is SQL, or once NotificationDB opened
	// the fallback sqlite file.
	DB    *database.Database
	Cache cache.Cache
	Queue *queue.Client

	closers []func() error
}

// Bootstrap builds the schedule store selected by storage.driver and, when
// redis is enabled, the rate-limit cache and task queue.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config:   cfg,
		Location: cfg.Location(),
		Metrics:  metrics.Default(),
	}

	repo, err := app.openRepository(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Repo = repo

	opts := []service.Option{
		service.WithLocation(app.Location),
		service.WithMetrics(app.Metrics),
	}
	if cfg.Redis.Enabled {
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Cache = c
		app.closers = append(app.closers, c.Close)

		app.Queue = queue.NewClient(app.RedisConfig())
		app.closers = append(app.closers, app.Queue.Close)
		opts = append(opts, service.WithQueue(app.Queue))
	}

	app.Meetings = service.NewMeetingService(app.Repo, opts...)
	logger.Info("App:Bootstrap",
		"storage", cfg.Storage.Driver,
		"location", app.Location.String(),
		"redis", cfg.Redis.Enabled,
	)
	return app, nil
}

func (a *App) RedisConfig() queue.RedisConfig {
	return queue.RedisConfig{Addr: a.Config.Redis.Addr, Password: a.Config.Redis.Password, DB: a.Config.Redis.DB}
}

func (a *App) openRepository(ctx context.Context) (repository.MeetingRepositoryInterface, error) {
	cfg := a.Config
	switch cfg.Storage.Driver {
	case "file":
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return repository.NewFileRepository(cfg.Storage.DataDir, a.Location), nil
	case "s3":
		store := storage.NewS3Store(storage.S3Config{
			Region:       cfg.S3.Region,
			Bucket:       cfg.S3.Bucket,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		return repository.NewJSONRepository(store, cfg.S3.UsersKey, cfg.S3.MeetingsKey, a.Location), nil
	case database.DriverPostgres, database.DriverSQLite:
		db, err := a.openDB(ctx, cfg.Storage.Driver)
		if err != nil {
			return nil, err
		}
		return repository.NewMeetingRepository(db, a.Location), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func (a *App) openDB(ctx context.Context, driver string) (*database.Database, error) {
	dbCfg := a.Config.Database
	if driver == database.DriverSQLite && dbCfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbCfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := database.InitDB(ctx, database.DatabaseConfig{
		Driver:   driver,
		Host:     dbCfg.Host,
		Port:     dbCfg.Port,
		User:     dbCfg.User,
		Password: dbCfg.Password,
		DBName:   dbCfg.DBName,
		SSLMode:  dbCfg.SSLMode,
		Path:     dbCfg.Path,
	})
	if err != nil {
		return nil, err
	}
	a.DB = &db
	a.closers = append(a.closers, db.Close)
	return a.DB, nil
}

// NotificationDB returns the SQL database notifications live in. With a
// file or s3 schedule store that is the sqlite file at database.path.
func (a *App) NotificationDB(ctx context.Context) (*database.Database, error) {
	if a.DB != nil {
		return a.DB, nil
	}
	return a.openDB(ctx, database.DriverSQLite)
}

// Close releases everything Bootstrap opened, in reverse order.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
