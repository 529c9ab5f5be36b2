package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/adcopy-backend/internal/app"
)

// NewMigrateCmd creates the 'migrate' command that applies the schema and exits.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.LoadEnvFile()
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			if err := app.Migrate(log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}
