// Package sentry_ext reports errors to Sentry with duplicate suppression.
package sentry_ext

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

type Params struct {
	// DSN is the Data Source Name. An empty DSN disables sending.
	DSN string
	// Release is the version of the application.
	Release string
	// Environment is the environment the application is running in.
	Environment string
	// Transport replaces the HTTP transport, mostly for tests.
	Transport sentry.Transport
	// LRUSize is the size of the duplicate suppression cache.
	LRUSize int
}

// Client sends events through its own hub.
type Client struct {
	hub    *sentry.Hub
	recent *cache
}

// New creates a client.
//
// If the client cannot be created the error is logged and nil is returned.
// A nil *Client is valid and drops every event.
func New(params Params) *Client {
	sc, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              params.DSN,
		AttachStacktrace: true,
		Release:          params.Release,
		Environment:      params.Environment,
		Transport:        params.Transport,
	})
	if err != nil {
		slog.Error("sentry_ext: New: failed to create client", "err", err)
		return nil
	}

	if params.DSN == "" && params.Transport == nil {
		slog.Debug("sentry_ext: New: sentry is disabled, no DSN provided")
	}

	recent, err := newCache(params.LRUSize)
	if err != nil {
		slog.Error("sentry_ext: New: failed to create cache", "err", err)
		return nil
	}

	return &Client{
		hub:    sentry.NewHub(sc, sentry.NewScope()),
		recent: recent,
	}
}

// CaptureException sends err as an error event tagged with tags.
func (s *Client) CaptureException(err error, tags map[string]string) {
	if s == nil || err == nil || !s.recent.shouldCapture(err.Error()) {
		return
	}

	hub := s.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
	})
	hub.CaptureException(err)
}

// CaptureMessage sends msg as an info event tagged with tags.
func (s *Client) CaptureMessage(msg string, tags map[string]string) {
	if s == nil || !s.recent.shouldCapture(msg) {
		return
	}

	hub := s.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
	})
	hub.CaptureMessage(msg)
}

// Reraise reports a recovered panic value and panics again with it.
func (s *Client) Reraise(v any, tags map[string]string) {
	if v == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("%v", v)
	}
	s.CaptureException(err, tags)
	s.Flush(2 * time.Second)
	panic(v)
}

// Flush waits for queued events to be sent.
func (s *Client) Flush(timeout time.Duration) bool {
	if s == nil {
		return true
	}
	return s.hub.Flush(timeout)
}
