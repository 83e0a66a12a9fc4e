package viewport

import "testing"

func TestWindowFitsEverything(t *testing.T) {
	for total := 1; total <= 10; total++ {
		for active := 0; active < total; active++ {
			start, end, style := Window(total, active, 12)
			if style != Top || start != 0 || end != total {
				t.Fatalf("total=%d active=%d: got [%d,%d) %v", total, active, start, end, style)
			}
		}
	}
}

func TestWindowStyles(t *testing.T) {
	cases := []struct {
		name               string
		total, active, h   int
		wantStart, wantEnd int
		wantStyle          Style
	}{
		{"even near start", 30, 4, 12, 0, 10, Top},
		{"even first centered", 30, 5, 12, 0, 10, Center},
		{"even middle", 30, 15, 12, 10, 20, Center},
		{"even last centered", 30, 25, 12, 20, 30, Center},
		{"even near end", 30, 26, 12, 20, 30, Bottom},
		{"even at end", 30, 29, 12, 20, 30, Bottom},
		{"odd near start", 30, 4, 11, 0, 9, Top},
		{"odd first centered", 30, 5, 11, 1, 10, Center},
		{"odd middle", 30, 15, 11, 11, 20, Center},
		{"odd near end", 30, 26, 11, 21, 30, Bottom},
		{"one more than fits", 11, 10, 12, 1, 11, Bottom},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			start, end, style := Window(c.total, c.active, c.h)
			if start != c.wantStart || end != c.wantEnd || style != c.wantStyle {
				t.Fatalf("got [%d,%d) %v, want [%d,%d) %v", start, end, style, c.wantStart, c.wantEnd, c.wantStyle)
			}
		})
	}
}

func TestWindowKeepsActiveVisible(t *testing.T) {
	for height := 0; height <= 25; height++ {
		for total := 1; total <= 45; total++ {
			printable := Printable(height)
			for active := 0; active < total; active++ {
				start, end, style := Window(total, active, height)
				if start < 0 || end > total || start >= end {
					t.Fatalf("h=%d total=%d active=%d: range [%d,%d) out of bounds", height, total, active, start, end)
				}
				if active < start || active >= end {
					t.Fatalf("h=%d total=%d active=%d: active outside [%d,%d)", height, total, active, start, end)
				}
				if end-start != min(total, printable) {
					t.Fatalf("h=%d total=%d active=%d: window size %d", height, total, active, end-start)
				}
				if total <= printable && style != Top {
					t.Fatalf("h=%d total=%d: expected Top when everything fits", height, total)
				}
			}
		}
	}
}

func TestWindowMovesByOneWhileCentered(t *testing.T) {
	prevStart := -1
	for active := 0; active < 50; active++ {
		start, _, style := Window(50, active, 10)
		if prevStart >= 0 && start-prevStart > 1 {
			t.Fatalf("window jumped from %d to %d at active %d (%v)", prevStart, start, active, style)
		}
		prevStart = start
	}
}

func TestWindowEmpty(t *testing.T) {
	start, end, style := Window(0, 0, 20)
	if start != 0 || end != 0 || style != Top {
		t.Fatalf("got [%d,%d) %v", start, end, style)
	}
}

func TestPlace(t *testing.T) {
	cases := []struct {
		text     string
		width    int
		wantCol  int
		wantText string
	}{
		{"abcd", 20, 8, "abcd"},
		{"abc", 20, 9, "abc"},
		{"", 20, 10, ""},
		{"0123456789", 10, 0, "0123456789"},
		{"0123456789abc", 10, 0, "0123456789"},
		{"żółw", 2, 0, "żó"},
		{"żółw", 10, 3, "żółw"},
		{"x", 0, 0, ""},
	}

	for _, c := range cases {
		col, shown := Place(c.text, c.width)
		if col != c.wantCol || shown != c.wantText {
			t.Errorf("Place(%q, %d) = (%d, %q), want (%d, %q)", c.text, c.width, col, shown, c.wantCol, c.wantText)
		}
	}
}

func TestLayout(t *testing.T) {
	texts := []string{"a", "b", "c", "d", "e", "f"}
	frame := Layout(texts, 4, 10, 5)

	if frame.Style != Center || frame.Start != 3 || frame.End != 6 {
		t.Fatalf("unexpected frame %+v", frame)
	}
	if len(frame.Rows) != 3 {
		t.Fatalf("expected 3 rows got %d", len(frame.Rows))
	}

	for i, row := range frame.Rows {
		if row.Y != TopOffset+i {
			t.Errorf("row %d at y=%d", i, row.Y)
		}
		if row.Text != texts[frame.Start+i] {
			t.Errorf("row %d text %q", i, row.Text)
		}
		if row.Active != (frame.Start+i == 4) {
			t.Errorf("row %d active=%v", i, row.Active)
		}
	}
}
