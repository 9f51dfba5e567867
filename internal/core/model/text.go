package model

// TextKey identifies one ayah for text lookup and caching.
type TextKey struct {
	SurahNumber int
	Ayah        int
}

// AyahText is the outcome of a text lookup. Unavailability is a value, not an
// error: the display renders "translation unavailable" and playback logic is
// never interrupted.
type AyahText struct {
	Arabic    string
	English   string
	Available bool
}
