package loader

import (
	"errors"
	"io/fs"
	"slices"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	*d = duration(v)
	return err
}

type sample struct {
	Mouse struct {
		DragThreshold int      `toml:"drag_threshold" yaml:"drag_threshold"`
		Interval      duration `toml:"interval" yaml:"interval"`
	} `toml:"mouse" yaml:"mouse"`
	Widgets []struct {
		Name string `toml:"name" yaml:"name"`
	} `toml:"widgets" yaml:"widgets"`
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"/etc/easymouse.toml", FormatTOML},
		{"config.YAML", FormatYAML},
		{"config.yml", FormatYAML},
	}

	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if err != nil {
			t.Errorf("FormatFor(%q) error = %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFor(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}

	if _, err := FormatFor("config.json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatFor(config.json) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestFileLoaderTOML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[mouse]
drag_threshold = 5
interval = "250ms"

[[widgets]]
name = "ok"

[[widgets]]
name = "cancel"
`)

	l, err := NewFileLoaderWithFS(memfs, "/config.toml")
	if err != nil {
		t.Fatalf("NewFileLoaderWithFS() error = %v", err)
	}

	var got sample
	found, err := l.Load(&got)
	if err != nil || !found {
		t.Fatalf("Load() = %v, %v", found, err)
	}
	if got.Mouse.DragThreshold != 5 {
		t.Errorf("drag_threshold = %d, want 5", got.Mouse.DragThreshold)
	}
	if time.Duration(got.Mouse.Interval) != 250*time.Millisecond {
		t.Errorf("interval = %v, want 250ms", time.Duration(got.Mouse.Interval))
	}
	if len(got.Widgets) != 2 || got.Widgets[1].Name != "cancel" {
		t.Errorf("widgets = %+v", got.Widgets)
	}
}

func TestFileLoaderYAML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", `
mouse:
  drag_threshold: 2
  interval: 1s
widgets:
  - name: list
`)

	l, err := NewFileLoaderWithFS(memfs, "/config.yaml")
	if err != nil {
		t.Fatalf("NewFileLoaderWithFS() error = %v", err)
	}

	var got sample
	if _, err := l.Load(&got); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Mouse.DragThreshold != 2 || time.Duration(got.Mouse.Interval) != time.Second {
		t.Errorf("mouse = %+v", got.Mouse)
	}
	if len(got.Widgets) != 1 || got.Widgets[0].Name != "list" {
		t.Errorf("widgets = %+v", got.Widgets)
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	l, _ := NewFileLoaderWithFS(NewMemFS(), "/absent.toml")

	var got sample
	found, err := l.Load(&got)
	if err != nil {
		t.Errorf("Load() error = %v, want nil", err)
	}
	if found {
		t.Error("Load() found a missing file")
	}
}

func TestFileLoaderEmptyFile(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/empty.yaml", "\n")
	l, _ := NewFileLoaderWithFS(memfs, "/empty.yaml")

	var got sample
	if found, err := l.Load(&got); err != nil || !found {
		t.Errorf("Load() = %v, %v, want true, nil", found, err)
	}
}

func TestFileLoaderUnknownKey(t *testing.T) {
	tests := []struct {
		path    string
		content string
	}{
		{"/bad.toml", "[mouse]\ndrag_treshold = 5\n"},
		{"/bad.yaml", "mouse:\n  drag_treshold: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			memfs := NewMemFS()
			memfs.AddFile(tt.path, tt.content)
			l, _ := NewFileLoaderWithFS(memfs, tt.path)

			var got sample
			_, err := l.Load(&got)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Load() error = %v, want *ParseError", err)
			}
			if perr.Path != tt.path {
				t.Errorf("ParseError.Path = %q, want %q", perr.Path, tt.path)
			}
			if !strings.Contains(err.Error(), "drag_treshold") {
				t.Errorf("error %q does not name the unknown key", err)
			}
		})
	}
}

func TestFileLoaderSyntaxError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/broken.toml", "[mouse\ndrag_threshold = 5\n")
	l, _ := NewFileLoaderWithFS(memfs, "/broken.toml")

	var got sample
	_, err := l.Load(&got)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if perr.Line == 0 {
		t.Error("ParseError.Line not set for a syntax error")
	}
	if perr.Unwrap() == nil {
		t.Error("ParseError does not wrap the decoder error")
	}
}

func TestFileLoaderFromReader(t *testing.T) {
	l, _ := NewFileLoaderWithFS(NewMemFS(), "inline.toml")

	var got sample
	if err := l.LoadFromReader(strings.NewReader("[mouse]\ndrag_threshold = 9\n"), &got); err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if got.Mouse.DragThreshold != 9 {
		t.Errorf("drag_threshold = %d, want 9", got.Mouse.DragThreshold)
	}
}

func TestEnvLoader(t *testing.T) {
	t.Setenv("EASYMOUSE_DRAG_THRESHOLD", "7")
	t.Setenv("EASYMOUSE_LOG_LEVEL", "")
	t.Setenv("EASYMOUSE_DRAG_TRESHOLD", "1")

	l := NewEnvLoader("EASYMOUSE_", map[string]string{
		"EASYMOUSE_DRAG_THRESHOLD": "mouse.drag_threshold",
		"EASYMOUSE_LOG_LEVEL":      "logging.level",
		"EASYMOUSE_NOT_SET_HERE":   "mouse.position_tolerance",
	})

	got := l.Load()
	if got["mouse.drag_threshold"] != "7" {
		t.Errorf("drag threshold = %q, want 7", got["mouse.drag_threshold"])
	}
	if v, ok := got["logging.level"]; !ok || v != "" {
		t.Errorf("empty value not treated as set: %q, %v", v, ok)
	}
	if _, ok := got["mouse.position_tolerance"]; ok {
		t.Error("unset variable reported")
	}

	if unknown := l.Unknown(); !slices.Contains(unknown, "EASYMOUSE_DRAG_TRESHOLD") {
		t.Errorf("Unknown() = %v, want the misspelled variable", unknown)
	}
}
