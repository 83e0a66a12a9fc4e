package lyrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNoVerses         = errors.New("no timestamped verses")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Verse is one timestamped lyric line.
type Verse struct {
	Timestamp int // milliseconds from track start
	Text      string
}

type scanState int

const (
	expectBracket scanState = iota
	insideBracket
	afterBracket
)

// Parse turns the raw text of an lrc file into verses ordered by timestamp.
// Tags that are not of the form [MM:SS.CC] are dropped, lines that do not
// start with a tag are ignored. A line carrying several tags yields one verse
// per tag, all sharing the line's text.
func Parse(raw string) ([]Verse, error) {
	var verses []Verse

	raw = strings.TrimPrefix(raw, "\ufeff")
	for _, line := range strings.Split(raw, "\n") {
		verses = append(verses, parseLine(line)...)
	}

	if len(verses) == 0 {
		return nil, ErrNoVerses
	}

	// equal timestamps keep file order, the resolver relies on it
	sort.SliceStable(verses, func(i, j int) bool {
		return verses[i].Timestamp < verses[j].Timestamp
	})

	return verses, nil
}

func parseLine(line string) []Verse {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") {
		return nil
	}

	var (
		stamps []int
		buf    strings.Builder
		state  = expectBracket
		text   string
	)

scan:
	for i, r := range trimmed {
		switch state {
		case expectBracket, afterBracket:
			switch {
			case r == '[':
				buf.Reset()
				state = insideBracket
			case state == afterBracket && (r == ' ' || r == '\t'):
			default:
				text = strings.TrimSpace(trimmed[i:])
				break scan
			}
		case insideBracket:
			if r != ']' {
				buf.WriteRune(r)
				continue
			}
			if ms, err := parseStamp(buf.String()); err == nil {
				stamps = append(stamps, ms)
			}
			state = afterBracket
		}
	}

	verses := make([]Verse, 0, len(stamps))
	for _, ms := range stamps {
		verses = append(verses, Verse{Timestamp: ms, Text: text})
	}
	return verses
}

// ParseTimestamp converts "[MM:SS.CC]" (brackets optional) to milliseconds.
func ParseTimestamp(tag string) (int, error) {
	s := strings.TrimSpace(tag)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}
	return parseStamp(s)
}

func parseStamp(s string) (int, error) {
	if len(s) != 8 || s[2] != ':' || s[5] != '.' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	minutes, ok1 := twoDigits(s[0:2])
	seconds, ok2 := twoDigits(s[3:5])
	hundredths, ok3 := twoDigits(s[6:8])
	if !ok1 || !ok2 || !ok3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	return minutes*60000 + seconds*1000 + hundredths*10, nil
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
