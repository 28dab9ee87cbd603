package chartui

import "github.com/wandb/leetchart/internal/dataset"

// FrameMsg drives one animation frame.
type FrameMsg struct{}

// DatasetReloadedMsg carries a freshly loaded dataset, or the error that
// prevented loading it.
type DatasetReloadedMsg struct {
	Charts []dataset.Chart
	Err    error
}

// ExportedMsg reports the outcome of a PNG export.
type ExportedMsg struct {
	Path string
	Err  error
}
