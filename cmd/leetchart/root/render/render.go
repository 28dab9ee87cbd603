package render

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/wandb/leetchart/internal/cliutil"
	"github.com/wandb/leetchart/internal/config"
	"github.com/wandb/leetchart/internal/dataset"
	"github.com/wandb/leetchart/internal/render"
)

func NewRenderCmd(app *cliutil.App) *cobra.Command {
	var (
		output string
		frames string
		width  int
		height int
		window string
		hide   string
		index  int
		theme  string
	)

	cmd := &cobra.Command{
		Use:   "render <dataset.json>",
		Short: "Render a chart to PNG",
		Long: heredoc.Doc(`
			Render one chart of a dataset to a PNG image, with the preview stacked
			below the main chart.

			With --frames, every animation frame of the transition from the full
			range to the requested window and series is written to a directory.
		`),
		Example: heredoc.Doc(`
			$ leetchart render chart_data.json -o joined.png
			$ leetchart render chart_data.json --chart 2 --window 40:80 --hide 1 -o views.png
			$ leetchart render chart_data.json --window 0:30 --frames ./frames
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" && frames == "" {
				return errors.New("one of --output or --frames is required")
			}

			charts, err := dataset.Load(app.Fs, args[0])
			if err != nil {
				return err
			}
			if index < 1 || index > len(charts) {
				return fmt.Errorf("--chart must be between 1 and %d", len(charts))
			}

			cfg := app.Config.Config()
			if theme == "" {
				theme = cfg.Theme
			}
			switch theme {
			case config.ThemeAuto:
				theme = config.ThemeDay
			case config.ThemeDay, config.ThemeNight:
			default:
				return fmt.Errorf("invalid --theme %q", theme)
			}
			if height == 0 {
				height = cfg.Height
			}

			params := render.Params{
				Chart:         charts[index-1],
				Overrides:     cfg.ChartOverridesFor(theme),
				Width:         width,
				Height:        height,
				FrameInterval: cfg.FrameInterval(),
				Logger:        app.Logger.With("command", "render"),
			}
			if window != "" {
				w, err := cliutil.ParseWindow(window)
				if err != nil {
					return err
				}
				params.Window = &w
			}
			if params.Hidden, err = cliutil.ParseIndices(hide); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if frames != "" {
				framesParams := params
				framesParams.Metrics = app.Registry
				n, err := render.Frames(cmd.Context(), app.Fs, frames, framesParams)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %d frames to %s\n", n, filepath.Clean(frames))
			}
			if output != "" {
				if err := render.WritePNG(app.Fs, output, params); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write")
	cmd.Flags().StringVar(&frames, "frames", "", "Directory for the animation frames")
	cmd.Flags().IntVar(&width, "width", 800, "Chart width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Main chart height in pixels (default from config)")
	cmd.Flags().StringVar(&window, "window", "", "Visible index range as start:end")
	cmd.Flags().StringVar(&hide, "hide", "", "Comma separated series indices to hide")
	cmd.Flags().IntVar(&index, "chart", 1, "Chart to render (1-based)")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme: auto, day or night (auto renders day)")

	return cmd
}
