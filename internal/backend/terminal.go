// Package backend connects the mouse pipeline to a terminal through tcell.
package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/easymouse/internal/widget"
)

// Terminal wraps a tcell screen for drawing widgets and reading input.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
	active bool
}

// NewTerminal creates a terminal on the controlling tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a simulation
// screen in tests.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Screen returns the underlying tcell screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Init initializes the screen and turns on mouse and focus reporting.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.active = true

	t.screen.EnableMouse()
	t.screen.EnableFocus()
	t.screen.HideCursor()

	return nil
}

// Shutdown restores the terminal. Calls after the first, or before Init,
// do nothing.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return
	}
	t.active = false
	t.screen.Fini()
}

// Size returns the screen width and height in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// PollEvent blocks until the next terminal event. It returns nil after
// Shutdown.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// PostEvent queues an event for PollEvent. It fails when the queue is
// full.
func (t *Terminal) PostEvent(ev tcell.Event) error {
	return t.screen.PostEvent(ev)
}

// Clear blanks the back buffer.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// Show flushes pending changes to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// Sync redraws the whole terminal, for example after a resize.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Sync()
}

// Fill paints every cell of r with ch, clipped to the screen.
func (t *Terminal) Fill(r widget.Rect, ch rune, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	for y := max(r.Top, 0); y < r.Bottom && y < height; y++ {
		for x := max(r.Left, 0); x < r.Right && x < width; x++ {
			t.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

// DrawBox draws a single-line border along the edge of r.
func (t *Terminal) DrawBox(r widget.Rect, style tcell.Style) {
	if r.Width() < 2 || r.Height() < 2 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	right, bottom := r.Right-1, r.Bottom-1
	for x := r.Left + 1; x < right; x++ {
		t.screen.SetContent(x, r.Top, tcell.RuneHLine, nil, style)
		t.screen.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := r.Top + 1; y < bottom; y++ {
		t.screen.SetContent(r.Left, y, tcell.RuneVLine, nil, style)
		t.screen.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	t.screen.SetContent(r.Left, r.Top, tcell.RuneULCorner, nil, style)
	t.screen.SetContent(right, r.Top, tcell.RuneURCorner, nil, style)
	t.screen.SetContent(r.Left, bottom, tcell.RuneLLCorner, nil, style)
	t.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}

// DrawText writes text starting at (x, y), stopping after limit cells.
// A limit of zero or less means no limit. It returns the number of cells
// written.
func (t *Terminal) DrawText(x, y int, text string, limit int, style tcell.Style) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, r := range text {
		if limit > 0 && n >= limit {
			break
		}
		t.screen.SetContent(x+n, y, r, nil, style)
		n++
	}
	return n
}

// CellAt returns the rune drawn at (x, y).
func (t *Terminal) CellAt(x, y int) rune {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, _, _, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return mainc
}
