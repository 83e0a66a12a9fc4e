package lyrics

import "sort"

// Resolve returns the index of the last verse whose timestamp is at or before
// positionMs. Positions before the first verse resolve to 0 so the opening
// line is shown during the intro. Verses must be sorted, as Parse returns
// them. An empty slice yields -1.
func Resolve(verses []Verse, positionMs int) int {
	if len(verses) == 0 {
		return -1
	}

	idx := sort.Search(len(verses), func(i int) bool {
		return verses[i].Timestamp > positionMs
	}) - 1

	if idx < 0 {
		return 0
	}
	return idx
}
