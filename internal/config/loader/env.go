package loader

import (
	"os"
	"strings"
)

// EnvLoader collects configuration overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "EASYMOUSE_")
	mapping map[string]string // Env var -> config path
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "EASYMOUSE_").
func NewEnvLoader(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
	}
}

// Load returns the config paths set by the environment and their raw
// values. Empty values count as set.
func (l *EnvLoader) Load() map[string]string {
	values := make(map[string]string)
	for env, path := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			values[path] = val
		}
	}
	return values
}

// Unknown returns prefixed environment variables that have no mapping,
// so callers can warn about misspelled overrides.
func (l *EnvLoader) Unknown() []string {
	var unknown []string
	for _, kv := range os.Environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; !mapped {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
