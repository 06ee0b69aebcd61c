package config

import (
	"context"
	"log/slog"

	"github.com/dshills/easymouse/internal/config/watcher"
)

// ReloadFunc receives the result of every reload. Exactly one of cfg and
// err is non-nil.
type ReloadFunc func(cfg *Config, err error)

// Reloader re-reads a configuration file whenever it changes.
type Reloader struct {
	path    string
	opts    []Option
	watcher *watcher.Watcher
}

// NewReloader starts watching the file at path. Options are passed to
// Load on every reload.
func NewReloader(path string, logger *slog.Logger, opts ...Option) (*Reloader, error) {
	w, err := watcher.New(path, watcher.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Reloader{path: path, opts: opts, watcher: w}, nil
}

// Run reloads on every change until ctx is cancelled. fn is called from
// the Run goroutine.
func (r *Reloader) Run(ctx context.Context, fn ReloadFunc) error {
	return r.watcher.Run(ctx, func(string) {
		cfg, err := Load(r.path, r.opts...)
		if err != nil {
			fn(nil, err)
			return
		}
		fn(cfg, nil)
	})
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.watcher.Close()
}
