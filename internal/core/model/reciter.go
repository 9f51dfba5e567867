package model

import "strings"

// ReciterKind is the closed taxonomy of reciter labels attached by the
// indexing pipeline. Labels are open-ended strings on the wire; the closed
// kinds keep the smoothing and grouping logic exhaustive while OtherReciter
// preserves forward compatibility.
type ReciterKind int

const (
	ReciterHasan ReciterKind = iota
	ReciterSamir
	ReciterTalk
	ReciterUnknown
	ReciterOther
)

// ReciterLabel pairs a closed kind with the display name carried on the wire.
type ReciterLabel struct {
	Kind ReciterKind
	Name string
}

// UnknownReciter is the label applied when no reciter can be resolved.
var UnknownReciter = ReciterLabel{Kind: ReciterUnknown, Name: "Unknown"}

// ParseReciter classifies a raw reciter tag. Empty tags map to Unknown.
func ParseReciter(raw string) ReciterLabel {
	name := strings.TrimSpace(raw)
	switch strings.ToLower(name) {
	case "hasan":
		return ReciterLabel{Kind: ReciterHasan, Name: "Hasan"}
	case "samir":
		return ReciterLabel{Kind: ReciterSamir, Name: "Samir"}
	case "talk", "dua", "khatira":
		return ReciterLabel{Kind: ReciterTalk, Name: "Talk"}
	case "", "unknown":
		return UnknownReciter
	default:
		return ReciterLabel{Kind: ReciterOther, Name: name}
	}
}

// IsPerformer reports whether the label denotes an actual reciter, as opposed
// to a talk/interstitial segment or an unresolved tag.
func (r ReciterLabel) IsPerformer() bool {
	return r.Kind == ReciterHasan || r.Kind == ReciterSamir || r.Kind == ReciterOther
}

// GroupRank orders reciter subgroups within a surah: the two regular reciters
// first, then Talk, then Unknown. Everything else sorts after those,
// alphabetically by name.
func (r ReciterLabel) GroupRank() int {
	switch r.Kind {
	case ReciterHasan:
		return 0
	case ReciterSamir:
		return 1
	case ReciterTalk:
		return 2
	case ReciterUnknown:
		return 3
	default:
		return 4
	}
}

// DisplayName returns the label shown in grouping and display views. Unknown
// labels always render as "Unknown" so dedup keys stay stable.
func (r ReciterLabel) DisplayName() string {
	if r.Name == "" {
		return "Unknown"
	}
	return r.Name
}
