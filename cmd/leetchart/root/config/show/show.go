package show

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wandb/leetchart/internal/cliutil"
)

func NewShowCmd(app *cliutil.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration",
		Long:  `Print the configuration after defaults, environment overrides and clamping are applied.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.Config.YAML()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", app.Config.Path(), out)
			return nil
		},
	}

	return cmd
}
