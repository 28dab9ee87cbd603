// Package watcher polls dataset files for changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	poller "github.com/radovskyb/watcher"
	"golang.org/x/sync/errgroup"

	"github.com/wandb/leetchart/internal/observability"
)

// DefaultPollingPeriod is used when Params.PollingPeriod is zero.
const DefaultPollingPeriod = 500 * time.Millisecond

var ErrFinished = errors.New("watcher: Watch called after Finish")

// Watcher invokes callbacks when watched files are written or recreated.
//
// Polling relies on the file's mtime, so two writes in quick succession may
// produce a single callback.
type Watcher interface {
	// Watch starts watching the file at path. The file must exist.
	Watch(path string, onChange func()) error

	// Finish stops all polling and waits for in-flight callbacks.
	Finish()
}

type Params struct {
	Logger *observability.CoreLogger

	PollingPeriod time.Duration
}

func New(params Params) Watcher {
	if params.PollingPeriod == 0 {
		params.PollingPeriod = DefaultPollingPeriod
	}
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}
	return &watcher{
		logger:        params.Logger,
		pollingPeriod: params.PollingPeriod,
		handlers:      make(map[string]func()),
	}
}

type watcher struct {
	sync.Mutex
	logger        *observability.CoreLogger
	pollingPeriod time.Duration

	delegate *poller.Watcher
	group    *errgroup.Group
	handlers map[string]func()
	finished bool
}

func (w *watcher) Watch(path string, onChange func()) error {
	w.Lock()
	defer w.Unlock()

	if w.finished {
		return ErrFinished
	}
	if w.delegate == nil {
		if err := w.start(); err != nil {
			return err
		}
	}
	if err := w.delegate.Add(path); err != nil {
		return fmt.Errorf("watcher: %v", err)
	}
	w.handlers[path] = onChange
	w.logger.Debug("watcher: watching", "path", path)
	return nil
}

func (w *watcher) Finish() {
	w.Lock()
	w.finished = true
	delegate, group := w.delegate, w.group
	w.Unlock()

	if delegate == nil {
		return
	}
	delegate.Close()
	if err := group.Wait(); err != nil {
		w.logger.CaptureError(fmt.Errorf("watcher: %v", err))
	}
}

// start launches the polling loop and the event loop. The mutex must be held.
func (w *watcher) start() error {
	w.delegate = poller.New()
	// Write and Create cannot be told apart reliably: the poller may report
	// an existing file as created when Add races with its first poll.
	w.delegate.FilterOps(poller.Write, poller.Create)

	group, ctx := errgroup.WithContext(context.Background())
	w.group = group
	group.Go(func() error {
		w.loop(ctx)
		return nil
	})
	group.Go(func() error {
		return w.delegate.Start(w.pollingPeriod)
	})

	// Close is a no-op until Start is polling, so wait for it.
	started := make(chan struct{})
	go func() {
		w.delegate.Wait()
		close(started)
	}()
	select {
	case <-started:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("watcher: %v", group.Wait())
	}
}

func (w *watcher) loop(ctx context.Context) {
	for {
		select {
		case event := <-w.delegate.Event:
			if event.IsDir() {
				continue
			}
			w.Lock()
			handler := w.handlers[event.Path]
			w.Unlock()
			if handler != nil {
				handler()
			}

		case err := <-w.delegate.Error:
			w.logger.CaptureError(fmt.Errorf("watcher: %v", err))

		case <-w.delegate.Closed:
			return

		case <-ctx.Done():
			return
		}
	}
}
