// Package viewport decides which verses fit on screen and where each one is
// printed.
package viewport

import "fmt"

// rows reserved above and below the lyrics
const (
	TopOffset    = 1
	BottomOffset = 1
)

// Style tells how the window is anchored.
type Style int

const (
	Top Style = iota
	Center
	Bottom
)

func (s Style) String() string {
	switch s {
	case Top:
		return "fixed top"
	case Center:
		return "fixed center"
	case Bottom:
		return "fixed bottom"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Printable is the number of rows available for verses.
func Printable(height int) int {
	printable := height - TopOffset - BottomOffset
	if printable < 1 {
		return 1
	}
	return printable
}

// Window returns the half-open range [start, end) of verses to show for a
// terminal of the given height. The active verse is always inside the range
// and the range never leaves [0, total). The window only moves once the
// active verse passes the middle row, and stops moving when the last verse
// is visible.
func Window(total, active, height int) (start, end int, style Style) {
	if total <= 0 {
		return 0, 0, Top
	}
	if active < 0 {
		active = 0
	}
	if active >= total {
		active = total - 1
	}

	printable := Printable(height)
	if total <= printable {
		return 0, total, Top
	}

	centerRow := printable / 2
	if printable%2 != 0 {
		centerRow = (printable + 1) / 2
	}

	switch {
	case active < centerRow:
		return 0, printable, Top
	case active > total-centerRow:
		return total - printable, total, Bottom
	}

	start = active - centerRow
	if printable%2 != 0 {
		start++
	}
	return start, start + printable, Center
}

// Place centers text on a line of the given width. Text at least as wide as
// the line is cut to width characters and starts at column 0.
func Place(text string, width int) (col int, shown string) {
	if width <= 0 {
		return 0, ""
	}

	runes := []rune(text)
	if len(runes) >= width {
		return 0, string(runes[:width])
	}
	return width/2 - len(runes)/2, text
}

// Row is one verse positioned on screen.
type Row struct {
	Y, X   int
	Text   string
	Active bool
}

// Frame is everything needed to paint a window of verses.
type Frame struct {
	Style      Style
	Start, End int
	Active     int
	Rows       []Row
}

// Layout windows texts around active and places every visible line.
func Layout(texts []string, active, width, height int) Frame {
	start, end, style := Window(len(texts), active, height)

	frame := Frame{
		Style:  style,
		Start:  start,
		End:    end,
		Active: active,
		Rows:   make([]Row, 0, end-start),
	}

	for i := start; i < end; i++ {
		x, shown := Place(texts[i], width)
		frame.Rows = append(frame.Rows, Row{
			Y:      TopOffset + i - start,
			X:      x,
			Text:   shown,
			Active: i == active,
		})
	}

	return frame
}
