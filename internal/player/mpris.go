package player

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"karolbroda.com/ciryl/internal/track"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
	propertiesGet    = "org.freedesktop.DBus.Properties.Get"
)

// Mpris polls any player exposing the MPRIS interface on the session bus.
type Mpris struct {
	service string
	timeout time.Duration
	connect func() (*dbus.Conn, error)
	object  func() (dbus.BusObject, error)

	mu  sync.Mutex
	bus *dbus.Conn
}

// NewMpris bounds every poll of the player by timeout.
func NewMpris(service string, timeout time.Duration) *Mpris {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	m := &Mpris{
		service: service,
		timeout: timeout,
		connect: func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() },
	}
	m.object = m.busObject
	return m
}

func (m *Mpris) Service() string { return m.service }

func (m *Mpris) Status(ctx context.Context) (track.Snapshot, error) {
	obj, err := m.object()
	if err != nil {
		return track.Snapshot{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	metaVariant, err := getProperty(ctx, obj, "Metadata")
	if err != nil {
		return track.Snapshot{}, err
	}

	metadata, ok := metaVariant.Value().(map[string]dbus.Variant)
	if !ok {
		return track.Snapshot{}, fmt.Errorf("%w: unexpected metadata type %T", ErrMetadata, metaVariant.Value())
	}

	snap := track.Snapshot{
		Track: track.Identity{
			Title:  extractString(metadata, "xesam:title"),
			Artist: extractArtist(metadata, "xesam:artist"),
			File:   filePath(extractString(metadata, "xesam:url")),
		},
	}

	posVariant, err := getProperty(ctx, obj, "Position")
	if err != nil {
		return snap, err
	}

	positionMicroseconds, ok := posVariant.Value().(int64)
	if !ok {
		return snap, fmt.Errorf("%w: unexpected position type %T", ErrMetadata, posVariant.Value())
	}
	if positionMicroseconds > 0 {
		snap.PositionMs = int(positionMicroseconds / 1000)
	}

	return snap, nil
}

func (m *Mpris) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bus == nil {
		return nil
	}
	err := m.bus.Close()
	m.bus = nil
	return err
}

func (m *Mpris) busObject() (dbus.BusObject, error) {
	bus, err := m.conn()
	if err != nil {
		return nil, err
	}
	return bus.Object(m.service, mprisPath), nil
}

func (m *Mpris) conn() (*dbus.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.service == "" {
		return nil, fmt.Errorf("%w: empty mpris service name", ErrUnreachable)
	}
	if m.bus != nil && m.bus.Connected() {
		return m.bus, nil
	}

	bus, err := m.connect()
	if err != nil {
		return nil, fmt.Errorf("%w: connect session bus: %w", ErrUnreachable, err)
	}
	m.bus = bus
	return bus, nil
}

func getProperty(ctx context.Context, obj dbus.BusObject, name string) (dbus.Variant, error) {
	var v dbus.Variant
	err := obj.CallWithContext(ctx, propertiesGet, 0, mprisPlayerIface, name).Store(&v)
	if err != nil {
		return v, fmt.Errorf("%w: get %s: %w", ErrUnreachable, name, err)
	}
	return v, nil
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	text, ok := variant.Value().(string)
	if ok {
		return text
	}

	return ""
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}

// filePath turns a file:// url into a local path, anything else into "".
func filePath(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return u.Path
}
