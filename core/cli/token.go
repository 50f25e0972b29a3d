package cli

import (
	"errors"
	"fmt"

	"smart-schedule/core/constants"
	"smart-schedule/core/utils"

	"github.com/spf13/cobra"
)

func newTokenCommand(cli *CLI) *cobra.Command {
	var subject, scope string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				return errors.New("--subject is required")
			}
			token, err := utils.GenerateToken(subject, scope)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "user id the token is issued to")
	cmd.Flags().StringVar(&scope, "scope", constants.ScopeTokenAccess, "token scope")
	return cmd
}
