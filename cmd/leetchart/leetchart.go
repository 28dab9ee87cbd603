package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/afero"

	"github.com/wandb/leetchart/cmd/leetchart/root"
	"github.com/wandb/leetchart/internal/cliutil"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cliutil.NewApp(afero.NewOsFs(), os.Stderr)
	defer app.Close()

	if err := root.NewRootCmd(app).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
