package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dshills/easymouse/internal/config/loader"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "EASYMOUSE_"

// envMapping maps environment variables to setting paths.
var envMapping = map[string]string{
	"EASYMOUSE_DOUBLE_CLICK_INTERVAL": "mouse.double_click_interval",
	"EASYMOUSE_POSITION_TOLERANCE":    "mouse.position_tolerance",
	"EASYMOUSE_DRAG_THRESHOLD":        "mouse.drag_threshold",
	"EASYMOUSE_REPEAT_INTERVAL":       "mouse.repeat_interval",
	"EASYMOUSE_LOG_LEVEL":             "logging.level",
	"EASYMOUSE_LOG_FORMAT":            "logging.format",
	"EASYMOUSE_LOG_FILE":              "logging.file",
}

// options holds Load settings.
type options struct {
	fs     loader.FileSystem
	useEnv bool
}

// Option configures Load.
type Option func(*options)

// WithFS reads the config file through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithoutEnv skips environment overrides.
func WithoutEnv() Option {
	return func(o *options) {
		o.useEnv = false
	}
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path or a missing file leaves the defaults in
// place.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS(), useEnv: true}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()

	if path != "" {
		l, err := loader.NewFileLoaderWithFS(o.fs, path)
		if err != nil {
			return nil, err
		}
		if _, err := l.Load(cfg); err != nil {
			return nil, err
		}
		cfg.resolvePaths(filepath.Dir(path))
	}

	if o.useEnv {
		values := loader.NewEnvLoader(EnvPrefix, envMapping).Load()
		if err := cfg.applyOverrides(values); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UnknownEnv returns EASYMOUSE_ variables that match no setting.
func UnknownEnv() []string {
	return loader.NewEnvLoader(EnvPrefix, envMapping).Unknown()
}

// applyOverrides applies setting path -> raw value overrides.
func (c *Config) applyOverrides(values map[string]string) error {
	for path, raw := range values {
		var err error
		switch path {
		case "mouse.double_click_interval":
			err = setDuration(&c.Mouse.DoubleClickInterval, raw)
		case "mouse.repeat_interval":
			err = setDuration(&c.Mouse.RepeatInterval, raw)
		case "mouse.position_tolerance":
			err = setInt(&c.Mouse.PositionTolerance, raw)
		case "mouse.drag_threshold":
			err = setInt(&c.Mouse.DragThreshold, raw)
		case "logging.level":
			c.Logging.Level = raw
		case "logging.format":
			c.Logging.Format = raw
		case "logging.file":
			c.Logging.File = raw
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func setDuration(dst *Duration, raw string) error {
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: %q is not a duration", ErrInvalidValue, raw)
	}
	*dst = Duration(v)
	return nil
}

func setInt(dst *int, raw string) error {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, raw)
	}
	*dst = v
	return nil
}
