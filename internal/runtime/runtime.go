// Package runtime drives the viewer: it polls the player, keeps the lyrics
// of the current song and repaints the screen only when something changed.
package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"karolbroda.com/ciryl/internal/logging"
	"karolbroda.com/ciryl/internal/lyrics"
	"karolbroda.com/ciryl/internal/track"
	"karolbroda.com/ciryl/internal/viewport"
)

// Step tells Run whether to keep looping.
type Step int

const (
	Continue Step = iota
	Exit
)

const (
	keyQuit   = 'q'
	keyResync = 'r'
)

type Player interface {
	Status(ctx context.Context) (track.Snapshot, error)
}

// Screen paints frames and messages and reads single key presses.
type Screen interface {
	Size() (width, height int, err error)
	Clear() error
	Draw(frame viewport.Frame) error
	Message(lines ...string) error
	Debug(lines ...string) error
	PollKey(timeout time.Duration) (rune, bool, error)
}

// Loader finds and parses the lyrics of a track. The string names the
// source the verses came from.
type Loader interface {
	Load(id *track.Identity) ([]lyrics.Verse, string, error)
}

// OffsetStore holds per-song sync offsets in milliseconds.
type OffsetStore interface {
	Offset(artist, title string) int
}

// SyncState is what the loop remembers between iterations.
type SyncState struct {
	Current     *track.Identity
	Verses      []lyrics.Verse
	ActiveIndex int
	LastError   Kind
	// OffsetMs is the per-song offset of Current.
	OffsetMs int
}

type Options struct {
	Player  Player
	Screen  Screen
	Loader  Loader
	Offsets OffsetStore
	Logger  logrus.FieldLogger

	// SyncOffsetMs is added to every position before resolving.
	SyncOffsetMs int
	PollInterval time.Duration
	Debug        bool
}

type Runtime struct {
	state SyncState

	player  Player
	screen  Screen
	loader  Loader
	offsets OffsetStore
	log     logrus.FieldLogger

	syncOffsetMs int
	pollInterval time.Duration
	debug        bool

	// load failure of Current, shown again after other errors clear
	lyricErr *Error
}

type event int

const (
	eventNone event = iota
	eventSongChange
	eventIndexChange
)

func New(opts Options) *Runtime {
	r := &Runtime{
		player:       opts.Player,
		screen:       opts.Screen,
		loader:       opts.Loader,
		offsets:      opts.Offsets,
		log:          opts.Logger,
		syncOffsetMs: opts.SyncOffsetMs,
		pollInterval: opts.PollInterval,
		debug:        opts.Debug,
	}
	if r.log == nil {
		r.log = logging.Discard()
	}
	if r.pollInterval <= 0 {
		r.pollInterval = 100 * time.Millisecond
	}
	return r
}

// State returns a copy of the loop state.
func (r *Runtime) State() SyncState { return r.state }

// Run loops Task until the user quits, the screen fails or ctx is done.
func (r *Runtime) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		step, err := r.Task(ctx)
		if err != nil {
			return err
		}
		if step == Exit {
			return nil
		}
	}
}

// Task runs one iteration: poll, repaint what changed, read a key.
// Only screen failures are returned; everything else is painted.
func (r *Runtime) Task(ctx context.Context) (Step, error) {
	ev, rerr := r.update(ctx)

	err := r.render(ev, rerr)
	if err != nil {
		return Exit, fmt.Errorf("draw: %w", err)
	}

	key, ok, err := r.screen.PollKey(r.pollInterval)
	if err != nil {
		return Exit, fmt.Errorf("read key: %w", err)
	}
	if !ok {
		return Continue, nil
	}

	switch key {
	case keyQuit:
		r.log.Info("quit requested")
		return Exit, nil
	case keyResync:
		r.log.Debug("resync requested")
		r.state.Current = nil
	}

	return Continue, nil
}

func (r *Runtime) update(ctx context.Context) (event, *Error) {
	snap, err := r.player.Status(ctx)
	if err != nil {
		return eventNone, newError(err, r.state.Current)
	}

	id := snap.Track
	if !id.Equal(r.state.Current) {
		return eventSongChange, r.changeSong(&id, snap.PositionMs)
	}

	if len(r.state.Verses) == 0 {
		return eventNone, r.lyricErr
	}

	index := lyrics.Resolve(r.state.Verses, r.position(snap.PositionMs))
	if index != r.state.ActiveIndex || r.state.LastError != KindNone {
		r.state.ActiveIndex = index
		return eventIndexChange, nil
	}

	return eventNone, nil
}

func (r *Runtime) changeSong(id *track.Identity, positionMs int) *Error {
	r.state.Current = id
	r.state.Verses = nil
	r.state.ActiveIndex = 0
	r.state.OffsetMs = 0
	r.lyricErr = nil

	if r.offsets != nil {
		r.state.OffsetMs = r.offsets.Offset(id.Artist, id.Title)
	}

	log := r.log.WithFields(logrus.Fields{
		"artist": id.Artist,
		"title":  id.Title,
	})
	log.Info("song changed")

	verses, source, err := r.loader.Load(id)
	if err != nil {
		r.lyricErr = newError(err, id)
		return r.lyricErr
	}

	r.state.Verses = verses
	r.state.ActiveIndex = lyrics.Resolve(verses, r.position(positionMs))
	log.WithFields(logrus.Fields{
		"source": source,
		"verses": len(verses),
		"offset": r.syncOffsetMs + r.state.OffsetMs,
	}).Debug("lyrics loaded")

	return nil
}

// position applies both sync offsets, never going below zero.
func (r *Runtime) position(positionMs int) int {
	pos := positionMs + r.syncOffsetMs + r.state.OffsetMs
	if pos < 0 {
		return 0
	}
	return pos
}

func (r *Runtime) render(ev event, rerr *Error) error {
	if rerr != nil {
		if ev == eventSongChange {
			if err := r.screen.Clear(); err != nil {
				return err
			}
		}
		if rerr.Kind != r.state.LastError || ev == eventSongChange {
			r.log.WithFields(r.errorFields(rerr)).Warn(rerr.Error())
			if err := r.screen.Message(rerr.Lines()...); err != nil {
				return err
			}
		}
		r.state.LastError = rerr.Kind
		return nil
	}

	switch ev {
	case eventSongChange:
		if err := r.screen.Clear(); err != nil {
			return err
		}
	case eventIndexChange:
	default:
		return nil
	}

	r.state.LastError = KindNone
	return r.drawWindow()
}

func (r *Runtime) drawWindow() error {
	width, height, err := r.screen.Size()
	if err != nil {
		return err
	}

	texts := make([]string, len(r.state.Verses))
	for i, v := range r.state.Verses {
		texts[i] = v.Text
	}

	frame := viewport.Layout(texts, r.state.ActiveIndex, width, height)
	r.log.WithField("index", r.state.ActiveIndex).Debug("redraw")

	if err := r.screen.Draw(frame); err != nil {
		return err
	}
	if !r.debug {
		return nil
	}

	return r.screen.Debug(
		"DEBUG",
		fmt.Sprintf("term height=%d", height),
		fmt.Sprintf("term width=%d", width),
		fmt.Sprintf("printable=%d", viewport.Printable(height)),
		fmt.Sprintf("active index=%d", frame.Active),
		fmt.Sprintf("start=%d", frame.Start),
		fmt.Sprintf("end=%d", frame.End),
		fmt.Sprintf("verses=%d", len(texts)),
		fmt.Sprintf("offset=%dms", r.syncOffsetMs+r.state.OffsetMs),
		"style="+frame.Style.String(),
	)
}

func (r *Runtime) errorFields(rerr *Error) logrus.Fields {
	fields := logrus.Fields{"kind": rerr.Kind.String()}
	if rerr.Track != nil {
		fields["artist"] = rerr.Track.Artist
		fields["title"] = rerr.Track.Title
	}
	return fields
}
