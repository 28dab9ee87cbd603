package config

import (
	"github.com/spf13/cobra"

	"github.com/wandb/leetchart/cmd/leetchart/root/config/set"
	"github.com/wandb/leetchart/cmd/leetchart/root/config/show"
	"github.com/wandb/leetchart/internal/cliutil"
)

func NewConfigCmd(app *cliutil.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Configuration commands",
		Long:  `Commands for managing the leetchart configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(set.NewSetCmd(app))
	cmd.AddCommand(show.NewShowCmd(app))

	return cmd
}
