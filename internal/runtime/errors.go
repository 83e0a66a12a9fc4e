package runtime

import (
	"errors"
	"fmt"

	"karolbroda.com/ciryl/internal/lyrics"
	"karolbroda.com/ciryl/internal/player"
	"karolbroda.com/ciryl/internal/track"
)

// Kind classifies the failures the loop recovers from.
type Kind int

const (
	KindNone Kind = iota
	PlayerUnreachable
	MetadataParseFailure
	LyricDirNotConfigured
	LyricNotFound
	GenericParseFailure
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case PlayerUnreachable:
		return "player unreachable"
	case MetadataParseFailure:
		return "metadata parse failure"
	case LyricDirNotConfigured:
		return "lyric dir not configured"
	case LyricNotFound:
		return "lyric not found"
	case GenericParseFailure:
		return "parse failure"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a classified failure together with the track it happened on.
type Error struct {
	Kind  Kind
	Track *track.Identity
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Lines is what the screen shows for the error.
func (e *Error) Lines() []string {
	switch e.Kind {
	case PlayerUnreachable:
		if errors.Is(e.Err, player.ErrSocketNotConfigured) {
			return []string{"Can't find the player socket, XDG_RUNTIME_DIR is not set"}
		}
		return []string{"Can't connect to the player"}
	case MetadataParseFailure:
		return []string{"Can't parse playing song"}
	case LyricDirNotConfigured:
		return []string{"LYRICS_DIR is not set"}
	case LyricNotFound:
		lines := []string{"Lyric not found", ""}
		if e.Track != nil {
			lines = append(lines, "Artist: "+e.Track.Artist, "Title: "+e.Track.Title)
		}
		return lines
	case GenericParseFailure:
		return []string{"Can't parse the lyric file"}
	}
	return []string{e.Error()}
}

// Classify maps an error from the player or lyrics packages onto a Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, player.ErrUnreachable):
		return PlayerUnreachable
	case errors.Is(err, player.ErrMetadata):
		return MetadataParseFailure
	case errors.Is(err, lyrics.ErrLyricDirNotConfigured):
		return LyricDirNotConfigured
	case errors.Is(err, lyrics.ErrLyricNotFound):
		return LyricNotFound
	}
	return GenericParseFailure
}

func newError(err error, id *track.Identity) *Error {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr
	}
	return &Error{Kind: Classify(err), Track: id, Err: err}
}
