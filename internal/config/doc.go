// Package config provides configuration for easymouse.
//
// Configuration is assembled in three steps, later steps winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, picked by extension
//  3. EASYMOUSE_* environment variables
//
// The result is validated before it is returned. A minimal TOML file:
//
//	[mouse]
//	double_click_interval = "400ms"
//	position_tolerance = 2
//	drag_threshold = 3
//
//	[logging]
//	level = "debug"
//
//	[[widgets]]
//	name = "ok"
//	left = 10
//	top = 5
//	right = 20
//	bottom = 10
//	script = "ok.lua"
//
// Reloader re-reads the file whenever it changes on disk.
package config
