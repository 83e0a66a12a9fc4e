package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

func TestExtractMetadata(t *testing.T) {
	metadata := map[string]dbus.Variant{
		"xesam:title":  dbus.MakeVariant("Song"),
		"xesam:artist": dbus.MakeVariant([]string{"Band", "Guest"}),
		"xesam:album":  dbus.MakeVariant(42),
	}

	if got := extractString(metadata, "xesam:title"); got != "Song" {
		t.Fatalf("title = %q", got)
	}
	if got := extractArtist(metadata, "xesam:artist"); got != "Band" {
		t.Fatalf("artist = %q", got)
	}
	if got := extractString(metadata, "xesam:album"); got != "" {
		t.Fatalf("expected non-string album to read empty, got %q", got)
	}
	if got := extractString(metadata, "missing"); got != "" {
		t.Fatalf("expected missing key to read empty, got %q", got)
	}
}

func TestFilePath(t *testing.T) {
	cases := map[string]string{
		"file:///music/a%20b.flac":  "/music/a b.flac",
		"https://example.com/x.mp3": "",
		"":                          "",
	}
	for in, want := range cases {
		if got := filePath(in); got != want {
			t.Errorf("filePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMprisUnreachable(t *testing.T) {
	m := NewMpris("org.mpris.MediaPlayer2.cmus", time.Second)
	m.connect = func() (*dbus.Conn, error) {
		return nil, errors.New("no session bus")
	}

	_, err := m.Status(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable got %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

// hungObject answers no call until the caller gives up.
type hungObject struct {
	dbus.BusObject
}

func (hungObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	<-ctx.Done()
	return &dbus.Call{Method: method, Err: ctx.Err()}
}

func TestMprisStatusTimesOut(t *testing.T) {
	m := NewMpris("org.mpris.MediaPlayer2.cmus", 20*time.Millisecond)
	m.object = func() (dbus.BusObject, error) { return hungObject{}, nil }

	done := make(chan error, 1)
	go func() {
		_, err := m.Status(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrUnreachable) {
			t.Fatalf("expected ErrUnreachable got %v", err)
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("status did not return after its timeout")
	}
}

func TestParseBackend(t *testing.T) {
	if b, err := ParseBackend("mpris"); err != nil || b != BackendMpris {
		t.Fatalf("got %v %v", b, err)
	}
	if _, err := ParseBackend("winamp"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend got %v", err)
	}
}
