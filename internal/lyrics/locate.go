package lyrics

import (
	"crypto/md5"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"karolbroda.com/ciryl/internal/track"
)

var (
	ErrLyricDirNotConfigured = errors.New("lyric directory not configured")
	ErrLyricNotFound         = errors.New("lyric file not found")
	ErrUnknownScheme         = errors.New("unknown lookup scheme")
)

// Scheme selects how a track maps to a lyric file name.
type Scheme string

const (
	// SchemeDigest names files after the hex md5 of artist followed by title.
	SchemeDigest Scheme = "digest"
	// SchemeLiteral names files "Artist - Title.lrc".
	SchemeLiteral Scheme = "literal"
	// SchemeSidecar looks for an .lrc next to the audio file.
	SchemeSidecar Scheme = "sidecar"
)

const lyricExt = ".lrc"

func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemeDigest:
		return SchemeDigest, nil
	case SchemeLiteral:
		return SchemeLiteral, nil
	case SchemeSidecar:
		return SchemeSidecar, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// Locator finds and parses the lyric file of a track.
type Locator struct {
	Dir    string
	Scheme Scheme
	// Embedded falls back to lyrics stored in the audio file's tags when no
	// lrc file exists.
	Embedded bool
}

// Path returns where the lyric file of id is expected.
func (l *Locator) Path(id *track.Identity) (string, error) {
	if id == nil {
		return "", errors.New("nil track")
	}

	switch l.Scheme {
	case SchemeSidecar:
		if id.File == "" {
			return "", fmt.Errorf("%w: player reported no file for %s", ErrLyricNotFound, id)
		}
		return strings.TrimSuffix(id.File, filepath.Ext(id.File)) + lyricExt, nil
	case SchemeDigest, SchemeLiteral, "":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, l.Scheme)
	}

	if l.Dir == "" {
		return "", ErrLyricDirNotConfigured
	}

	if l.Scheme == SchemeLiteral {
		return filepath.Join(l.Dir, LiteralName(id.Artist, id.Title)), nil
	}
	return filepath.Join(l.Dir, DigestName(id.Artist, id.Title)), nil
}

// Load reads and parses the lyrics of id. The returned string names where
// they came from.
func (l *Locator) Load(id *track.Identity) ([]Verse, string, error) {
	path, err := l.Path(id)
	if err != nil {
		return nil, "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if l.Embedded && id.File != "" {
			if raw, embErr := readEmbedded(id.File); embErr == nil {
				verses, err := Parse(raw)
				if err != nil {
					return nil, id.File, fmt.Errorf("embedded lyrics of %s: %w", id.File, err)
				}
				return verses, id.File, nil
			}
		}
		return nil, path, fmt.Errorf("%w: %s: %w", ErrLyricNotFound, path, err)
	}

	verses, err := Parse(string(content))
	if err != nil {
		return nil, path, fmt.Errorf("parse %s: %w", path, err)
	}

	return verses, path, nil
}

// DigestName is the lyric file name under SchemeDigest.
func DigestName(artist, title string) string {
	return fmt.Sprintf("%x%s", md5.Sum([]byte(artist+title)), lyricExt)
}

// LiteralName is the lyric file name under SchemeLiteral.
func LiteralName(artist, title string) string {
	name := artist + " - " + title
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	return name + lyricExt
}

func readEmbedded(audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return "", fmt.Errorf("read tags: %w", err)
	}

	raw := meta.Lyrics()
	if strings.TrimSpace(raw) == "" {
		return "", ErrLyricNotFound
	}
	return raw, nil
}
