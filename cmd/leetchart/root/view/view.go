package view

import (
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wandb/leetchart/internal/chartui"
	"github.com/wandb/leetchart/internal/cliutil"
	"github.com/wandb/leetchart/internal/config"
	"github.com/wandb/leetchart/internal/dataset"
	"github.com/wandb/leetchart/internal/watcher"
)

func NewViewCmd(app *cliutil.App) *cobra.Command {
	var (
		index     int
		watch     bool
		exportDir string
		theme     string
	)

	cmd := &cobra.Command{
		Use:   "view <dataset.json>",
		Short: "Explore a dataset in the terminal",
		Long: heredoc.Doc(`
			Open the charts of a dataset in a full-screen terminal viewer.

			Drag the preview selection to change the visible range, click legend
			entries or press 1-9 to toggle series, and press h for all key bindings.
		`),
		Example: heredoc.Doc(`
			$ leetchart view chart_data.json
			$ leetchart view chart_data.json --chart 3 --watch
		`),
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{cliutil.AnnotationInteractive: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			charts, err := dataset.Load(app.Fs, path)
			if err != nil {
				return err
			}
			if index < 1 || index > len(charts) {
				return fmt.Errorf("--chart must be between 1 and %d", len(charts))
			}

			cfg := app.Config.Config()
			if theme != "" {
				if !slices.Contains([]string{config.ThemeAuto, config.ThemeDay, config.ThemeNight}, theme) {
					return fmt.Errorf("invalid --theme %q", theme)
				}
				cfg.Theme = theme
			}

			params := chartui.Params{
				Charts:    charts,
				Index:     index - 1,
				Path:      path,
				Config:    cfg,
				Fs:        app.Fs,
				ExportDir: exportDir,
				Metrics:   app.Registry,
				Logger:    app.Logger.With("command", "view"),
			}
			if watch {
				w := watcher.New(watcher.Params{
					Logger:        app.Logger,
					PollingPeriod: cfg.WatchInterval(),
				})
				defer w.Finish()
				params.Watcher = w
			}

			program := tea.NewProgram(
				chartui.NewModel(params),
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil {
				app.Logger.CaptureError(fmt.Errorf("view: %v", err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "chart", 1, "Chart to show first (1-based)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the dataset when the file changes")
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "Directory for PNG exports")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme: auto, day or night (overrides the config)")

	return cmd
}
