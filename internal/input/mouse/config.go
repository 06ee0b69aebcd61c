package mouse

import (
	"errors"
	"time"
)

// Config configures click and drag classification.
type Config struct {
	// DoubleClickInterval is the maximum time between presses that still
	// continue a click sequence.
	DoubleClickInterval time.Duration

	// PositionTolerance is the maximum distance between presses that still
	// continue a click sequence.
	PositionTolerance int

	// DragThreshold is the distance from the press origin the pointer must
	// exceed before drag messages start.
	DragThreshold int

	// RepeatInterval is how often the event loop should call Router.Tick
	// while repeats are pending.
	RepeatInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DoubleClickInterval: 400 * time.Millisecond,
		PositionTolerance:   2,
		DragThreshold:       3,
		RepeatInterval:      100 * time.Millisecond,
	}
}

// Validate checks the configuration for impossible values.
func (c Config) Validate() error {
	var errs []error
	if c.DoubleClickInterval < 0 {
		errs = append(errs, errors.New("double click interval must not be negative"))
	}
	if c.PositionTolerance < 0 {
		errs = append(errs, errors.New("position tolerance must not be negative"))
	}
	if c.DragThreshold < 0 {
		errs = append(errs, errors.New("drag threshold must not be negative"))
	}
	if c.RepeatInterval <= 0 {
		errs = append(errs, errors.New("repeat interval must be positive"))
	}
	return errors.Join(errs...)
}
