package cli

import (
	"errors"

	"smart-schedule/core/constants"
	"smart-schedule/core/logger"
	"smart-schedule/core/queue"
	notifRepository "smart-schedule/modules/notification/repository"
	notifService "smart-schedule/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
)

func newWorkerCommand(cli *CLI) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Process conflict scans queued when meetings are created",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cli.cfg.Redis.Enabled {
				return errors.New("worker requires redis.enabled=true")
			}

			ctx, done, app, err := cli.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer done()

			db, err := app.NotificationDB(ctx)
			if err != nil {
				return err
			}
			notifications := notifService.NewNotificationService(notifRepository.NewNotificationRepository(db))

			mux := asynq.NewServeMux()
			mux.Handle(constants.TaskConflictScan, notifService.NewConflictAlertHandler(app.Meetings, notifications, app.Metrics))

			srv := queue.NewServer(app.RedisConfig(), concurrency)
			if err := srv.Start(mux); err != nil {
				return err
			}
			logger.Info("Worker:Start", "concurrency", concurrency, "task", constants.TaskConflictScan)

			<-ctx.Done()
			logger.Info("Worker:Shutdown")
			srv.Shutdown()
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 5, "number of tasks processed in parallel")
	return cmd
}
