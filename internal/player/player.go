// Package player asks a running music player what it is playing.
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"karolbroda.com/ciryl/internal/track"
)

var (
	ErrUnreachable         = errors.New("player unreachable")
	ErrSocketNotConfigured = fmt.Errorf("%w: socket path not configured", ErrUnreachable)
	ErrMetadata            = errors.New("malformed player metadata")
	ErrUnknownBackend      = errors.New("unknown player backend")
)

const defaultTimeout = 500 * time.Millisecond

// Backend names a supported player.
type Backend string

const (
	BackendCmus  Backend = "cmus"
	BackendMpris Backend = "mpris"
)

func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendCmus:
		return BackendCmus, nil
	case BackendMpris:
		return BackendMpris, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// Player reports the current track and position. Transport failures wrap
// ErrUnreachable, unparseable fields wrap ErrMetadata.
type Player interface {
	Status(ctx context.Context) (track.Snapshot, error)
	Close() error
}
