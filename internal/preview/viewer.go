package preview

import (
	"context"

	"github.com/gdamore/tcell/v2"
)

// Model is the document a Viewer shows.
type Model interface {
	// Frame returns the current lines and overlays with the cursor row.
	Frame() Frame

	// MoveCursor places the cursor on row.
	MoveCursor(row int)
}

// Viewer draws a Model on a tcell screen and moves its cursor with the
// keyboard.
type Viewer struct {
	screen tcell.Screen
	theme  Theme
	model  Model
	top    int
}

// NewViewer creates a viewer. The screen must already be initialized.
func NewViewer(screen tcell.Screen, theme Theme, model Model) *Viewer {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Viewer{screen: screen, theme: theme, model: model}
}

// Draw renders the model's current frame.
func (v *Viewer) Draw() {
	width, height := v.screen.Size()
	frame := v.model.Frame()
	v.scrollTo(frame.Cursor, height)

	v.screen.Clear()
	rows := Compose(frame, v.theme, width)
	for y := 0; y < height && v.top+y < len(rows); y++ {
		x := 0
		for _, c := range rows[v.top+y] {
			if c.Hidden {
				continue
			}
			if x >= width {
				break
			}
			v.screen.SetContent(x, y, c.Rune, nil, c.Style)
			x++
		}
	}
	if frame.Cursor >= 0 {
		v.screen.ShowCursor(0, frame.Cursor-v.top)
	} else {
		v.screen.HideCursor()
	}
	v.screen.Show()
}

func (v *Viewer) scrollTo(cursor, height int) {
	if cursor < 0 || height <= 0 {
		return
	}
	if cursor < v.top {
		v.top = cursor
	}
	if cursor >= v.top+height {
		v.top = cursor - height + 1
	}
}

// Run handles input until the user quits or ctx is done. A value on
// redraw repaints the screen, for changes made outside the viewer.
func (v *Viewer) Run(ctx context.Context, redraw <-chan struct{}) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go v.screen.ChannelEvents(events, quit)

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraw:
			v.Draw()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if v.handle(ev) {
				return nil
			}
		}
	}
}

// handle processes one event and reports whether the viewer should exit.
func (v *Viewer) handle(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.Draw()
	case *tcell.EventKey:
		frame := v.model.Frame()
		switch {
		case e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC || e.Rune() == 'q':
			return true
		case e.Key() == tcell.KeyUp || e.Rune() == 'k':
			if frame.Cursor > 0 {
				v.model.MoveCursor(frame.Cursor - 1)
			}
		case e.Key() == tcell.KeyDown || e.Rune() == 'j':
			if frame.Cursor < len(frame.Lines)-1 {
				v.model.MoveCursor(frame.Cursor + 1)
			}
		case e.Key() == tcell.KeyHome || e.Rune() == 'g':
			v.model.MoveCursor(0)
		case e.Key() == tcell.KeyEnd || e.Rune() == 'G':
			v.model.MoveCursor(len(frame.Lines) - 1)
		default:
			return false
		}
		v.Draw()
	}
	return false
}
