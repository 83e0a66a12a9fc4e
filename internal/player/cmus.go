package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"karolbroda.com/ciryl/internal/track"
)

const (
	cmusSocketName  = "cmus-socket"
	cmusBufferSize  = 8192
	cmusStatusQuery = "status\n"
)

// CmusSocketPath is where cmus listens inside the runtime directory.
func CmusSocketPath(runtimeDir string) string {
	if runtimeDir == "" {
		return ""
	}
	return filepath.Join(runtimeDir, cmusSocketName)
}

// Cmus talks to cmus over its remote-control unix socket.
type Cmus struct {
	socketPath string
	timeout    time.Duration
	dialer     net.Dialer
}

func NewCmus(socketPath string, timeout time.Duration) *Cmus {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Cmus{
		socketPath: socketPath,
		timeout:    timeout,
		dialer:     net.Dialer{Timeout: timeout},
	}
}

func (c *Cmus) SocketPath() string { return c.socketPath }

// Close is a no-op, every query opens its own connection.
func (c *Cmus) Close() error { return nil }

func (c *Cmus) Status(ctx context.Context) (track.Snapshot, error) {
	raw, err := c.Query(ctx)
	if err != nil {
		return track.Snapshot{}, err
	}
	return ParseCmusStatus(raw)
}

// Query sends the status command and returns the raw answer.
func (c *Cmus) Query(ctx context.Context) (string, error) {
	if c.socketPath == "" {
		return "", ErrSocketNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return "", fmt.Errorf("%w: connect %s: %w", ErrUnreachable, c.socketPath, err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	if _, err := io.WriteString(conn, cmusStatusQuery); err != nil {
		return "", fmt.Errorf("%w: write: %w", ErrUnreachable, err)
	}

	buf := make([]byte, cmusBufferSize)
	n, err := readAnswer(conn, buf)
	if err != nil {
		return "", fmt.Errorf("%w: read: %w", ErrUnreachable, err)
	}

	return string(buf[:n]), nil
}

// readAnswer fills buf until cmus ends its answer with a blank line, sends a
// NUL, closes the connection or the buffer is full.
func readAnswer(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n

		if i := bytes.IndexByte(buf[:total], 0); i >= 0 {
			return i, nil
		}
		if bytes.Contains(buf[:total], []byte("\n\n")) {
			return total, nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() && total > 0 {
				return total, nil
			}
			return total, err
		}
	}
	return total, nil
}

// ParseCmusStatus extracts the track and position from a status answer.
// Missing tags read as empty strings; a missing or non-numeric position is
// an error.
func ParseCmusStatus(raw string) (track.Snapshot, error) {
	snap := track.Snapshot{
		Track: track.Identity{
			Title:  cmusField(raw, "tag title"),
			Artist: cmusField(raw, "tag artist"),
			File:   cmusField(raw, "file"),
		},
	}

	position := cmusField(raw, "position")
	seconds, err := strconv.Atoi(position)
	if err != nil {
		return snap, fmt.Errorf("%w: position %q", ErrMetadata, position)
	}
	if seconds < 0 {
		seconds = 0
	}
	snap.PositionMs = seconds * 1000

	return snap, nil
}

func cmusField(raw, key string) string {
	for _, line := range strings.Split(raw, "\n") {
		rest, ok := strings.CutPrefix(line, key)
		if !ok {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return strings.TrimSpace(rest)
	}
	return ""
}
