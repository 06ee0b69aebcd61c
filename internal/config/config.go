package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dshills/easymouse/internal/input/mouse"
	"github.com/dshills/easymouse/internal/logging"
	"github.com/dshills/easymouse/internal/widget"
)

// Duration is a time.Duration written as a string such as "400ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the complete easymouse configuration.
type Config struct {
	Mouse   MouseConfig    `toml:"mouse" yaml:"mouse"`
	Logging LoggingConfig  `toml:"logging" yaml:"logging"`
	Widgets []WidgetConfig `toml:"widgets" yaml:"widgets"`
}

// MouseConfig holds click and drag classification settings.
type MouseConfig struct {
	DoubleClickInterval Duration `toml:"double_click_interval" yaml:"double_click_interval"`
	PositionTolerance   int      `toml:"position_tolerance" yaml:"position_tolerance"`
	DragThreshold       int      `toml:"drag_threshold" yaml:"drag_threshold"`
	RepeatInterval      Duration `toml:"repeat_interval" yaml:"repeat_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"`
}

// Built-in widget handler styles.
const (
	HandlerEasy   = "easy"
	HandlerLegacy = "legacy"
)

// WidgetConfig declares one widget of the demo screen.
type WidgetConfig struct {
	Name   string `toml:"name" yaml:"name"`
	Label  string `toml:"label" yaml:"label"`
	Left   int    `toml:"left" yaml:"left"`
	Top    int    `toml:"top" yaml:"top"`
	Right  int    `toml:"right" yaml:"right"`
	Bottom int    `toml:"bottom" yaml:"bottom"`
	Z      int    `toml:"z" yaml:"z"`

	// Handler selects the built-in callback style: "easy" (the default)
	// or "legacy". It is ignored when Script is set.
	Handler string `toml:"handler" yaml:"handler"`

	// Script is a Lua file that installs the widget's callback. Relative
	// paths are resolved against the config file's directory.
	Script string `toml:"script" yaml:"script"`
}

// Rect returns the widget's region.
func (w WidgetConfig) Rect() widget.Rect {
	return widget.Rect{Top: w.Top, Left: w.Left, Bottom: w.Bottom, Right: w.Right}
}

// Default returns the built-in configuration.
func Default() *Config {
	m := mouse.DefaultConfig()
	return &Config{
		Mouse: MouseConfig{
			DoubleClickInterval: Duration(m.DoubleClickInterval),
			PositionTolerance:   m.PositionTolerance,
			DragThreshold:       m.DragThreshold,
			RepeatInterval:      Duration(m.RepeatInterval),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// MouseSettings converts the mouse section for the state machine.
func (c *Config) MouseSettings() mouse.Config {
	return mouse.Config{
		DoubleClickInterval: c.Mouse.DoubleClickInterval.Std(),
		PositionTolerance:   c.Mouse.PositionTolerance,
		DragThreshold:       c.Mouse.DragThreshold,
		RepeatInterval:      c.Mouse.RepeatInterval.Std(),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	verr := &ValidationError{}

	if err := c.MouseSettings().Validate(); err != nil {
		verr.add(err.Error())
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		verr.add(err.Error())
	}
	switch c.Logging.Format {
	case "", "text", "console", "json":
	default:
		verr.add(fmt.Sprintf("unsupported log format %q", c.Logging.Format))
	}

	seen := make(map[string]bool)
	for i, w := range c.Widgets {
		label := w.Name
		if label == "" {
			label = fmt.Sprintf("widgets[%d]", i)
			verr.add(label + ": name is required")
		} else if seen[w.Name] {
			verr.add(fmt.Sprintf("widget %q declared twice", w.Name))
		}
		seen[w.Name] = true

		switch w.Handler {
		case "", HandlerEasy, HandlerLegacy:
		default:
			verr.add(fmt.Sprintf("widget %q: unknown handler %q", label, w.Handler))
		}

		if w.Rect().IsEmpty() {
			verr.add(fmt.Sprintf("widget %q has an empty region", label))
		}
	}

	return verr.orNil()
}

// resolvePaths makes widget script paths absolute relative to dir.
func (c *Config) resolvePaths(dir string) {
	for i := range c.Widgets {
		s := c.Widgets[i].Script
		if s != "" && !filepath.IsAbs(s) {
			c.Widgets[i].Script = filepath.Join(dir, s)
		}
	}
}
