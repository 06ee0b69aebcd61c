package lua

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dshills/easymouse/internal/input/mouse"
	"github.com/dshills/easymouse/internal/widget"
)

type testWidgets map[string]widget.ID

func newTestWidgets(names ...string) testWidgets {
	w := make(testWidgets)
	for _, name := range names {
		w[name] = widget.NewID()
	}
	return w
}

func (w testWidgets) resolve(name string) (widget.ID, bool) {
	id, ok := w[name]
	return id, ok
}

func newTestHost(t *testing.T, names ...string) (*Host, *mouse.Registry, testWidgets) {
	t.Helper()
	reg := mouse.NewRegistry()
	widgets := newTestWidgets(names...)
	h := NewHost(reg, widgets.resolve)
	t.Cleanup(func() { h.Close() })
	return h, reg, widgets
}

func deliver(t *testing.T, reg *mouse.Registry, id widget.ID, ev mouse.Event) mouse.Result {
	t.Helper()
	cb, ok := reg.Lookup(id)
	if !ok {
		t.Fatal("no callback installed")
	}
	cb.MouseEvent(id, ev.Msg, &ev)
	return ev.Result
}

func TestHostSetCallback(t *testing.T) {
	h, reg, widgets := newTestHost(t, "ok")

	err := h.LoadString(`
seen = {}
mouse.set_callback("ok", function(name, msg, ev)
	seen.name = name
	seen.msg = msg
	seen.x = ev.x
	seen.y = ev.y
	seen.count = ev.count
	seen.left = mouse.has(ev.buttons, mouse.LEFT)
	if msg == mouse.CLICK and ev.count == 2 then
		return true
	end
end)`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	if got := h.Installed(); !reflect.DeepEqual(got, []string{"ok"}) {
		t.Errorf("Installed = %v, want [ok]", got)
	}

	res := deliver(t, reg, widgets["ok"], mouse.Event{
		Msg: mouse.MsgClick, X: 3, Y: 1, Buttons: mouse.ButtonLeft, Count: 2,
	})
	if res != (mouse.Result{Abort: true}) {
		t.Errorf("Result = %+v, want abort", res)
	}

	if err := h.LoadString(`assert(seen.name == "ok")
assert(seen.msg == mouse.CLICK)
assert(seen.x == 3 and seen.y == 1)
assert(seen.count == 2)
assert(seen.left)`); err != nil {
		t.Errorf("callback saw wrong arguments: %v", err)
	}

	res = deliver(t, reg, widgets["ok"], mouse.Event{Msg: mouse.MsgMove, Count: 1})
	if res != (mouse.Result{}) {
		t.Errorf("Result = %+v, want empty", res)
	}
}

func TestHostResultFromFields(t *testing.T) {
	h, reg, widgets := newTestHost(t, "list")

	err := h.LoadString(`
mouse.set_callback("list", function(name, msg, ev)
	if msg == mouse.DRAG then
		ev["repeat"] = true
	end
	if msg == mouse.SCROLL_DOWN then
		return false, true
	end
end)`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	tests := []struct {
		msg  mouse.Message
		want mouse.Result
	}{
		{mouse.MsgDrag, mouse.Result{Repeat: true}},
		{mouse.MsgScrollDown, mouse.Result{Repeat: true}},
		{mouse.MsgDown, mouse.Result{}},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			res := deliver(t, reg, widgets["list"], mouse.Event{Msg: tt.msg, Count: 1})
			if res != tt.want {
				t.Errorf("Result = %+v, want %+v", res, tt.want)
			}
		})
	}
}

func TestHostUnknownWidget(t *testing.T) {
	h, reg, _ := newTestHost(t, "ok")

	err := h.LoadString(`mouse.set_callback("missing", function() end)`)
	if err == nil {
		t.Fatal("expected error for unknown widget")
	}
	if !strings.Contains(err.Error(), "unknown widget") {
		t.Errorf("error = %v, want unknown widget", err)
	}
	if reg.Len() != 0 {
		t.Errorf("registry Len = %d, want 0", reg.Len())
	}
}

func TestHostCallbackError(t *testing.T) {
	h, reg, widgets := newTestHost(t, "ok")

	if err := h.LoadString(`mouse.set_callback("ok", function() error("bad") end)`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	ev := mouse.Event{Msg: mouse.MsgDown, Count: 1, Result: mouse.Result{Abort: true}}
	if res := deliver(t, reg, widgets["ok"], ev); res != (mouse.Result{}) {
		t.Errorf("Result = %+v, want empty", res)
	}
}

func TestHostCallbackTimeout(t *testing.T) {
	reg := mouse.NewRegistry()
	widgets := newTestWidgets("ok")
	h := NewHost(reg, widgets.resolve, WithStateOptions(WithExecutionTimeout(20*time.Millisecond)))
	defer h.Close()

	if err := h.LoadString(`mouse.set_callback("ok", function() while true do end end)`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	done := make(chan mouse.Result, 1)
	go func() {
		cb, _ := reg.Lookup(widgets["ok"])
		ev := mouse.Event{Msg: mouse.MsgDown, Count: 1}
		cb.MouseEvent(widgets["ok"], ev.Msg, &ev)
		done <- ev.Result
	}()

	select {
	case res := <-done:
		if res != (mouse.Result{}) {
			t.Errorf("Result = %+v, want empty", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("callback was not interrupted")
	}
}

func TestHostClearCallback(t *testing.T) {
	h, reg, widgets := newTestHost(t, "a", "b")

	err := h.LoadString(`
mouse.set_callback("a", function() end)
mouse.set_callback("b", function() end)
mouse.clear_callback("a")`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	if _, ok := reg.Lookup(widgets["a"]); ok {
		t.Error("a should have no callback")
	}
	if _, ok := reg.Lookup(widgets["b"]); !ok {
		t.Error("b should have a callback")
	}
	if got := h.Installed(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Installed = %v, want [b]", got)
	}
}

func TestHostCloseRemovesOwnCallbacks(t *testing.T) {
	reg := mouse.NewRegistry()
	widgets := newTestWidgets("script", "native")
	h := NewHost(reg, widgets.resolve)

	if err := h.LoadString(`mouse.set_callback("script", function() end)
mouse.set_callback("native", function() end)`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	// A Go callback installed later wins and must survive Close.
	reg.Install(widgets["native"], mouse.CallbackFunc(func(widget.ID, mouse.Message, *mouse.Event) {}))

	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := reg.Lookup(widgets["script"]); ok {
		t.Error("script callback should be removed")
	}
	if _, ok := reg.Lookup(widgets["native"]); !ok {
		t.Error("native callback should survive")
	}
}

func TestHostLoadFile(t *testing.T) {
	h, reg, widgets := newTestHost(t, "ok")

	path := filepath.Join(t.TempDir(), "ok.lua")
	src := `mouse.set_callback("ok", function(name, msg, ev) ev.abort = true end)`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := h.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if res := deliver(t, reg, widgets["ok"], mouse.Event{Msg: mouse.MsgUp, Count: 1}); !res.Abort {
		t.Error("Abort = false, want true")
	}

	if err := h.LoadFile(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}
