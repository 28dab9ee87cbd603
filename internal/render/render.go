// Package render draws dataset charts headlessly onto raster surfaces.
//
// Rendering runs the chart on a manual clock, so the result does not depend
// on wall time: every transition started by the requested window or hidden
// series is settled before the image is encoded.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/wandb/leetchart/internal/anim"
	"github.com/wandb/leetchart/internal/chart"
	"github.com/wandb/leetchart/internal/dataset"
	"github.com/wandb/leetchart/internal/observability"
	"github.com/wandb/leetchart/internal/surface"
	"github.com/wandb/leetchart/internal/surface/raster"
)

const (
	// DefaultFrameInterval is the simulated time between recorded frames.
	DefaultFrameInterval = 16 * time.Millisecond

	// maxFrames bounds a single settle; a chart that is still animating
	// after this many frames is reported as an error.
	maxFrames = 10_000
)

// ErrInvalidParams is returned for unusable render parameters.
var ErrInvalidParams = errors.New("render: invalid parameters")

// Params describes one headless render.
type Params struct {
	Chart     dataset.Chart
	Overrides chart.Overrides

	// Width and Height size the main chart in pixels. The preview, if any,
	// is stacked below it at its configured height.
	Width  int
	Height int

	// Window is the visible index range; nil shows every label.
	Window *chart.Window

	// Hidden lists series indices to hide.
	Hidden []int

	// FrameInterval is the simulated frame time. Zero means
	// DefaultFrameInterval.
	FrameInterval time.Duration

	// Metrics, if set, receives the animation loop metrics.
	Metrics prometheus.Registerer

	Logger *observability.CoreLogger
}

// session is a chart built on a raster surface and a manual clock.
type session struct {
	chart   *chart.Chart
	main    *raster.Surface
	preview *raster.Surface
	loop    *anim.Loop
	clock   *anim.ManualClock
	frame   time.Duration
}

func newSession(p Params) (*session, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidParams, p.Width, p.Height)
	}
	background := chart.DefaultOptions().Merge(p.Overrides).Background
	bg, err := surface.ParseColor(background)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	s, err := raster.New(p.Width, p.Height, bg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	clock := anim.NewManualClock(time.Unix(0, 0))
	opts := []anim.LoopOption{anim.WithClock(clock)}
	if p.Metrics != nil {
		opts = append(opts, anim.WithMetrics(p.Metrics))
	}
	loop := anim.NewLoop(opts...)
	c, err := chart.New(s, p.Chart.Labels, p.Chart.Specs(), p.Overrides,
		chart.WithLoop(loop),
		chart.WithLogger(p.logger().With("chart", p.Chart.Title)),
	)
	if err != nil {
		return nil, err
	}

	sess := &session{
		chart: c,
		main:  s,
		loop:  loop,
		clock: clock,
		frame: p.FrameInterval,
	}
	if sess.frame <= 0 {
		sess.frame = DefaultFrameInterval
	}
	if pv := c.Preview(); pv != nil {
		sess.preview = pv.Surface().(*raster.Surface)
	}
	return sess, nil
}

// apply requests the window and hidden series from p. The changes animate
// on the session loop.
func (s *session) apply(p Params) error {
	for _, i := range p.Hidden {
		if err := s.chart.SetSeriesVisible(i, false); err != nil {
			return err
		}
	}
	if p.Window != nil {
		if err := s.chart.SetVisibleRange(p.Window.Start, p.Window.End); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) surfaces() []*raster.Surface {
	if s.preview == nil {
		return []*raster.Surface{s.main}
	}
	return []*raster.Surface{s.main, s.preview}
}

func (s *session) settle(after func(frame int) error) error {
	return s.loop.Settle(s.clock, s.frame, maxFrames, after)
}

// PNG renders the settled chart described by p and writes it to w.
func PNG(w io.Writer, p Params) error {
	s, err := newSession(p)
	if err != nil {
		return err
	}
	defer s.chart.Destroy()

	if err := s.apply(p); err != nil {
		return err
	}
	if err := s.settle(nil); err != nil {
		return err
	}
	return raster.WriteStackedPNG(w, s.surfaces()...)
}

// WritePNG renders p into a file on fs, creating parent directories.
func WritePNG(fs afero.Fs, path string, p Params) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("render: %v", err)
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("render: %v", err)
	}
	if err := PNG(f, p); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// FrameName is the file name of frame i in a frame directory.
func FrameName(i int) string {
	return fmt.Sprintf("frame-%04d.png", i)
}

// Frames writes every animation frame of the transition from the initial
// chart to the state requested by p into dir, one PNG per frame, and
// returns the number of frames written. Frame 0 is the chart as
// constructed.
//
// Frames are captured on the calling goroutine and encoded in parallel.
func Frames(ctx context.Context, fs afero.Fs, dir string, p Params) (int, error) {
	s, err := newSession(p)
	if err != nil {
		return 0, err
	}
	defer s.chart.Destroy()

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("render: %v", err)
	}

	frames := []*image.RGBA{raster.Stack(s.surfaces()...)}
	if err := s.apply(p); err != nil {
		return 0, err
	}
	err = s.settle(func(int) error {
		frames = append(frames, raster.Stack(s.surfaces()...))
		return ctx.Err()
	})
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, img := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeFrame(fs, filepath.Join(dir, FrameName(i)), img)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	p.logger().Debug("render: wrote frames", "dir", dir, "frames", len(frames))
	return len(frames), nil
}

func writeFrame(fs afero.Fs, path string, img image.Image) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("render: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("render: encoding %s: %v", path, err)
	}
	return f.Close()
}

func (p Params) logger() *observability.CoreLogger {
	if p.Logger == nil {
		return observability.NewNoOpLogger()
	}
	return p.Logger
}
