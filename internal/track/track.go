package track

// Identity names the track a player reports. File is carried for lyric
// lookups next to the audio file and takes no part in equality.
type Identity struct {
	Title  string
	Artist string
	File   string
}

func (t *Identity) IsValid() bool {
	if t == nil {
		return false
	}
	return t.Title != "" && t.Artist != ""
}

// Equal reports whether both identities name the same song.
func (t *Identity) Equal(other *Identity) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Title == other.Title && t.Artist == other.Artist
}

func (t *Identity) String() string {
	if t == nil {
		return ""
	}
	return t.Artist + " - " + t.Title
}

// Snapshot is one poll of the player.
type Snapshot struct {
	Track      Identity
	PositionMs int
}
