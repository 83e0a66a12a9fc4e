package lyrics

import (
	"errors"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"[01:22.33]", 82330, false},
		{"[00:00.00]", 0, false},
		{"[10:59.67]", 659670, false},
		{"00:34.88", 34880, false},
		{"[99:59.99]", 99*60000 + 59*1000 + 990, false},
		{"[12:334.56]", 0, true},
		{"[1:22.33]", 0, true},
		{"[01:22:33]", 0, true},
		{"[ar:Band]", 0, true},
		{"[0a:22.33]", 0, true},
		{"", 0, true},
	}

	for _, c := range cases {
		got, err := ParseTimestamp(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrInvalidTimestamp) {
				t.Errorf("ParseTimestamp(%q) err = %v, want ErrInvalidTimestamp", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q) unexpected err %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseTimestamp(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseSkipsByteOrderMark(t *testing.T) {
	verses, err := Parse("\ufeff[00:01.00]first\n[00:02.00]second\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(verses) != 2 {
		t.Fatalf("expected 2 verses got %d: %+v", len(verses), verses)
	}
	if verses[0].Timestamp != 1000 || verses[0].Text != "first" {
		t.Fatalf("unexpected first verse %+v", verses[0])
	}
}

func TestParseMultipleTimestampsShareText(t *testing.T) {
	verses, err := Parse("[00:34.88][01:22.33] [10:59.67] This is a verse")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []int{34880, 82330, 659670}
	if len(verses) != len(want) {
		t.Fatalf("expected %d verses got %d", len(want), len(verses))
	}
	for i, v := range verses {
		if v.Timestamp != want[i] {
			t.Errorf("verse %d timestamp %d want %d", i, v.Timestamp, want[i])
		}
		if v.Text != "This is a verse" {
			t.Errorf("verse %d text %q", i, v.Text)
		}
	}
}

func TestParseMalformedTagIsDropped(t *testing.T) {
	_, err := Parse("[12:334.56] abcd")
	if !errors.Is(err, ErrNoVerses) {
		t.Fatalf("expected ErrNoVerses got %v", err)
	}

	verses, err := Parse("[12:334.56] abcd\n[00:01.00] ok")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(verses) != 1 || verses[0].Text != "ok" || verses[0].Timestamp != 1000 {
		t.Fatalf("unexpected verses %+v", verses)
	}
}

func TestParseIgnoresLinesWithoutBracket(t *testing.T) {
	raw := "just some words\n  [00:05.00] second\nmore words [00:06.00]\n"
	verses, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(verses) != 1 || verses[0].Text != "second" {
		t.Fatalf("unexpected verses %+v", verses)
	}
}

func TestParseKeepsEmptyText(t *testing.T) {
	verses, err := Parse("[00:01.00] hello\n[00:02.00]\n[00:03.00] world")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(verses) != 3 {
		t.Fatalf("expected 3 verses got %d", len(verses))
	}
	if verses[1].Text != "" || verses[1].Timestamp != 2000 {
		t.Fatalf("expected empty verse at 2000ms, got %+v", verses[1])
	}
}

func TestParseMetadataAndUnterminatedTags(t *testing.T) {
	raw := "[ar:Some Band]\n[ti:Some Song]\n[00:10.00\n[00:11.00][00:12\n[00:13.00] last"
	verses, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(verses) != 2 {
		t.Fatalf("expected 2 verses got %+v", verses)
	}
	if verses[0].Timestamp != 11000 || verses[0].Text != "" {
		t.Errorf("unexpected first verse %+v", verses[0])
	}
	if verses[1].Timestamp != 13000 || verses[1].Text != "last" {
		t.Errorf("unexpected second verse %+v", verses[1])
	}
}

func TestParseSortsStably(t *testing.T) {
	raw := "[00:30.00] chorus\n[00:10.00] first\n[00:30.00] after chorus\r\n[00:20.00][00:40.00] twice\r\n"
	verses, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []Verse{
		{10000, "first"},
		{20000, "twice"},
		{30000, "chorus"},
		{30000, "after chorus"},
		{40000, "twice"},
	}
	if len(verses) != len(want) {
		t.Fatalf("expected %d verses got %+v", len(want), verses)
	}
	for i := range want {
		if verses[i] != want[i] {
			t.Errorf("verse %d = %+v, want %+v", i, verses[i], want[i])
		}
	}
}

func TestParseVerseCountMatchesTags(t *testing.T) {
	raw := "[00:01.00] a\n[00:02.00] b\n[00:03.00][00:04.00] c\n[00:05.00] d"
	verses, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(verses) != 5 {
		t.Fatalf("expected one verse per tag (5), got %d", len(verses))
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(""); !errors.Is(err, ErrNoVerses) {
		t.Fatalf("expected ErrNoVerses got %v", err)
	}
}
