package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"smart-schedule/core/logger"
	"smart-schedule/core/storage"
	"smart-schedule/modules/meeting/entity"
	"smart-schedule/modules/meeting/repository"

	"github.com/spf13/cobra"
)

func newSeedCommand(cli *CLI) *cobra.Command {
	var usersPath, meetingsPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy users and meetings from JSON files into the configured store",
		Long: `Reads flat JSON arrays of users and meetings and upserts every record into
the store selected by storage.driver. Records with an existing id are replaced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if usersPath == "" && meetingsPath == "" {
				return errors.New("at least one of --users or --meetings is required")
			}

			ctx, done, app, err := cli.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer done()

			var users []entity.User
			if usersPath != "" {
				src := repository.NewJSONRepository(storage.NewDirStore(filepath.Dir(usersPath)), filepath.Base(usersPath), "", app.Location)
				if users, err = src.GetUsers(ctx); err != nil {
					return fmt.Errorf("read %s: %w", usersPath, err)
				}
			}
			var meetings []entity.Meeting
			if meetingsPath != "" {
				src := repository.NewJSONRepository(storage.NewDirStore(filepath.Dir(meetingsPath)), "", filepath.Base(meetingsPath), app.Location)
				if meetings, err = src.GetMeetings(ctx); err != nil {
					return fmt.Errorf("read %s: %w", meetingsPath, err)
				}
			}

			for i := range users {
				if err := app.Repo.UpsertUser(ctx, &users[i]); err != nil {
					return fmt.Errorf("upsert user %s: %w", users[i].ID, err)
				}
			}
			for i := range meetings {
				if err := app.Repo.UpsertMeeting(ctx, &meetings[i]); err != nil {
					return fmt.Errorf("upsert meeting %s: %w", meetings[i].ID, err)
				}
			}

			logger.Info("CLI:Seed", "users", len(users), "meetings", len(meetings), "storage", app.Config.Storage.Driver)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users and %d meetings\n", len(users), len(meetings))
			return nil
		},
	}
	cmd.Flags().StringVar(&usersPath, "users", "", "path to a users JSON array")
	cmd.Flags().StringVar(&meetingsPath, "meetings", "", "path to a meetings JSON array")
	return cmd
}
