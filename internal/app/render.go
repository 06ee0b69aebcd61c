package app

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/easymouse/internal/widget"
)

const title = "easymouse  click, drag or scroll a widget  q: quit"

// draw repaints the whole screen. Widgets are painted bottom-up so the
// stacking matches hit-testing.
func (app *Application) draw() {
	t := app.term
	t.Clear()
	width, height := t.Size()

	t.DrawText(0, 0, title, width, tcell.StyleDefault.Bold(true))

	pressed := make(map[widget.ID]bool)
	for _, p := range app.machine.Active() {
		pressed[p.Widget] = true
	}

	ordered := slices.Clone(app.widgets)
	slices.SortStableFunc(ordered, func(a, b *Widget) int {
		return cmp.Compare(a.Z, b.Z)
	})

	for _, w := range ordered {
		style := tcell.StyleDefault
		if pressed[w.ID] {
			style = style.Reverse(true)
		}

		r := w.Region
		t.Fill(r, ' ', style)
		t.DrawBox(r, style)

		inner := r.Width() - 2
		lines := []struct {
			text  string
			style tcell.Style
		}{
			{w.Label + w.kind(), style.Bold(true)},
			{w.Last, style},
			{fmt.Sprintf("%d msgs, %d unhandled", w.Received, w.Unhandled), style.Dim(true)},
		}
		for i, line := range lines {
			y := r.Top + 1 + i
			if y >= r.Bottom-1 {
				break
			}
			t.DrawText(r.Left+1, y, line.text, inner, line.style)
		}
	}

	status := fmt.Sprintf("presses: %d  dragging: %v  repeats: %d",
		len(pressed), app.machine.IsDragging(), app.router.Pending())
	t.DrawText(0, height-1, status, width, tcell.StyleDefault)

	t.Show()
}

// kind tags the widget with its callback style.
func (w *Widget) kind() string {
	switch {
	case w.scripted:
		return " (lua)"
	case w.handler != "":
		return " (" + w.handler + ")"
	default:
		return ""
	}
}
