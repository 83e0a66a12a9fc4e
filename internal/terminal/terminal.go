// Package terminal owns the tty while the viewer runs: raw mode, the hidden
// cursor, painting frames and reading single key presses.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"karolbroda.com/ciryl/internal/viewport"
)

const (
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	clearScreen = "\033[2J"
	clearLine   = "\033[2K"
	clearToEnd  = "\033[K"
	resetAttrs  = "\033[0m"
)

var ErrNotTerminal = errors.New("not a terminal")

// Reset puts the terminal back into a usable state. It is safe to call from a
// signal handler after the screen is gone.
func Reset() {
	resetTo(os.Stdout)
	os.Stdout.Sync()
}

func resetTo(w io.Writer) {
	io.WriteString(w, showCursor)
	io.WriteString(w, resetAttrs)
}

// Screen draws on a terminal in raw mode.
type Screen struct {
	in    *os.File
	out   *bufio.Writer
	state *term.State
	size  func() (int, int, error)

	keys chan rune
	errs chan error

	bold lipgloss.Style
	dim  lipgloss.Style

	// widest debug line painted so far
	debugSpan int
}

// Open switches in to raw mode, hides the cursor and clears out.
func Open(in, out *os.File) (*Screen, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin: %w", ErrNotTerminal)
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}

	outFd := int(out.Fd())
	s := newScreen(out, func() (int, int, error) {
		return term.GetSize(outFd)
	})
	s.in = in
	s.state = state

	go s.readKeys(in)

	s.out.WriteString(hideCursor)
	s.out.WriteString(clearScreen)
	if err := s.out.Flush(); err != nil {
		_ = term.Restore(fd, state)
		return nil, err
	}

	return s, nil
}

func newScreen(out io.Writer, size func() (int, int, error)) *Screen {
	renderer := lipgloss.NewRenderer(out)
	return &Screen{
		out:  bufio.NewWriter(out),
		size: size,
		keys: make(chan rune, 16),
		errs: make(chan error, 1),
		bold: renderer.NewStyle().Bold(true),
		dim:  renderer.NewStyle().Faint(true),
	}
}

// Close clears the screen, shows the cursor and leaves raw mode.
func (s *Screen) Close() error {
	s.out.WriteString(clearScreen)
	s.moveTo(0, 0)
	s.out.WriteString(resetAttrs)
	s.out.WriteString(showCursor)
	flushErr := s.out.Flush()

	if s.state != nil {
		if err := term.Restore(int(s.in.Fd()), s.state); err != nil {
			return fmt.Errorf("restore terminal: %w", err)
		}
		s.state = nil
	}

	return flushErr
}

func (s *Screen) Size() (width, height int, err error) {
	return s.size()
}

func (s *Screen) Clear() error {
	s.out.WriteString(clearScreen)
	return s.out.Flush()
}

// Draw paints the frame line by line. Every row of the lyric area is
// cleared first so nothing from an earlier frame or message survives.
func (s *Screen) Draw(frame viewport.Frame) error {
	_, height, err := s.size()
	if err != nil {
		return err
	}

	printable := viewport.Printable(height)
	for y := viewport.TopOffset; y < viewport.TopOffset+printable; y++ {
		s.moveTo(0, y)
		s.out.WriteString(clearLine)
	}

	for _, row := range frame.Rows {
		s.moveTo(row.X, row.Y)
		if row.Active {
			s.out.WriteString(s.bold.Render(row.Text))
			continue
		}
		s.out.WriteString(row.Text)
	}

	return s.out.Flush()
}

// Message clears the screen and prints lines centered from the top of the
// lyric area, the first one in bold.
func (s *Screen) Message(lines ...string) error {
	width, height, err := s.size()
	if err != nil {
		return err
	}

	s.out.WriteString(clearScreen)

	printable := viewport.Printable(height)
	for i, line := range lines {
		if i >= printable {
			break
		}
		x, shown := viewport.Place(line, width)
		s.moveTo(x, viewport.TopOffset+i)
		if i == 0 {
			s.out.WriteString(s.bold.Render(shown))
			continue
		}
		s.out.WriteString(shown)
	}

	return s.out.Flush()
}

// Debug prints lines right-aligned from the top row. The area under the
// widest line seen so far is erased first so shorter lines leave nothing
// behind.
func (s *Screen) Debug(lines ...string) error {
	width, height, err := s.size()
	if err != nil {
		return err
	}

	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > s.debugSpan {
			s.debugSpan = n
		}
	}
	from := width - s.debugSpan
	if from < 0 {
		from = 0
	}

	for i, line := range lines {
		if i >= height {
			break
		}
		s.moveTo(from, i)
		s.out.WriteString(clearToEnd)

		x := width - utf8.RuneCountInString(line)
		if x < 0 {
			x, line = viewport.Place(line, width)
		}
		s.moveTo(x, i)
		s.out.WriteString(s.dim.Render(line))
	}

	return s.out.Flush()
}

// PollKey waits up to timeout for a key press.
func (s *Screen) PollKey(timeout time.Duration) (rune, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case key := <-s.keys:
		return key, true, nil
	case err := <-s.errs:
		return 0, false, err
	case <-timer.C:
		return 0, false, nil
	}
}

// readKeys feeds decoded runes from r into the key channel until r fails.
// Keys arriving while the channel is full are dropped.
func (s *Screen) readKeys(r io.Reader) {
	reader := bufio.NewReader(r)
	for {
		key, _, err := reader.ReadRune()
		if err != nil {
			s.errs <- err
			return
		}
		select {
		case s.keys <- key:
		default:
		}
	}
}

// moveTo takes zero based coordinates.
func (s *Screen) moveTo(x, y int) {
	fmt.Fprintf(s.out, "\033[%d;%dH", y+1, x+1)
}
