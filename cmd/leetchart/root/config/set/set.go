package set

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/wandb/leetchart/internal/cliutil"
	"github.com/wandb/leetchart/internal/config"
)

func NewSetCmd(app *cliutil.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: fmt.Sprintf(
			"Set a configuration value that will be persisted in the config file.\n\nValid keys are %v.",
			config.ValidKeys),
		Example: heredoc.Doc(`
			# Always use the dark theme
			$ leetchart config set theme night

			# Slow down chart transitions
			$ leetchart config set animation_ms 600

			# Report errors to Sentry
			$ leetchart config set sentry.dsn https://KEY@o0.ingest.sentry.io/0
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			if err := app.Config.Set(key, value); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully set %s = %s\n", key, value)
			return nil
		},
	}

	return cmd
}
