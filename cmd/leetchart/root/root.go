package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/wandb/leetchart/cmd/leetchart/root/config"
	"github.com/wandb/leetchart/cmd/leetchart/root/render"
	"github.com/wandb/leetchart/cmd/leetchart/root/version"
	"github.com/wandb/leetchart/cmd/leetchart/root/view"
	"github.com/wandb/leetchart/internal/cliutil"
)

// NewRootCmd builds the command tree. app is initialized from the
// persistent flags before any subcommand runs.
func NewRootCmd(app *cliutil.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leetchart <command>",
		Short: "Animated time series charts",
		Long: heredoc.Doc(`
			leetchart draws time series datasets as interactive line charts in the
			terminal, with a preview strip for selecting the visible range, and
			renders the same charts to PNG.
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			noSentry, _ := cmd.Flags().GetBool("no-sentry")
			return app.Init(cliutil.AppParams{
				ConfigPath:  configPath,
				Debug:       cliutil.GetBool(cmd, "debug", "LEETCHART_DEBUG"),
				NoSentry:    noSentry,
				Interactive: cmd.Annotations[cliutil.AnnotationInteractive] == "true",
				Version:     version.Version,
			})
		},
	}

	cmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.leetchart.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "Write debug logs to "+cliutil.DebugLogFile+" (or set LEETCHART_DEBUG)")
	cmd.PersistentFlags().Bool("no-sentry", false, "Disable error reporting")

	cmd.AddCommand(view.NewViewCmd(app))
	cmd.AddCommand(render.NewRenderCmd(app))
	cmd.AddCommand(config.NewConfigCmd(app))
	cmd.AddCommand(version.NewVersionCmd())

	return cmd
}
