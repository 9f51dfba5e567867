package model

import (
	"strings"
)

// Quality describes how a marker's ayah assignment was produced by the
// indexing pipeline. Markers without an explicit quality are treated as high.
type Quality string

const (
	QualityHigh      Quality = "high"
	QualityManual    Quality = "manual"
	QualityAmbiguous Quality = "ambiguous"
	QualityInferred  Quality = "inferred"
)

// ParseQuality normalizes a raw quality string. Unknown or empty values
// default to high, matching the marker file contract.
func ParseQuality(raw string) Quality {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "manual":
		return QualityManual
	case "ambiguous":
		return QualityAmbiguous
	case "inferred":
		return QualityInferred
	default:
		return QualityHigh
	}
}

// Rank returns the preference order used when picking between markers of
// different quality tiers. Higher is better.
func (q Quality) Rank() int {
	switch q {
	case QualityHigh:
		return 3
	case QualityManual:
		return 2
	case QualityAmbiguous:
		return 1
	case QualityInferred:
		return 0
	default:
		return 0
	}
}

// Marker is one point in a recitation timeline, as emitted by the indexing
// pipeline. Field names follow the marker file contract.
type Marker struct {
	Time        float64 `json:"time"`
	Surah       string  `json:"surah"`
	SurahNumber int     `json:"surah_number,omitempty"`
	Ayah        int     `json:"ayah"`
	Juz         int     `json:"juz,omitempty"`
	Quality     string  `json:"quality,omitempty"`
	Reciter     string  `json:"reciter,omitempty"`
	ArabicText  string  `json:"arabic_text,omitempty"`
	EnglishText string  `json:"english_text,omitempty"`
}

// QualityTier returns the marker's normalized quality.
func (m Marker) QualityTier() Quality {
	return ParseQuality(m.Quality)
}

// HasJuz reports whether the marker carries a valid juz assignment.
func (m Marker) HasJuz() bool {
	return m.Juz >= 1 && m.Juz <= 30
}

// surahNameReplacer strips the separators that vary between spellings of the
// same surah name ("Al-Fatiha", "al fatiha", "AlFaatihah", ...).
var surahNameReplacer = strings.NewReplacer(" ", "", "-", "", "'", "", "’", "", "`", "")

// NormalizeSurahName lowercases a surah display name and removes spacing,
// hyphenation and apostrophes so containment checks are spelling-tolerant.
func NormalizeSurahName(name string) string {
	return surahNameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// IsOpeningChapter recognizes Al-Fatiha under its common spellings and the
// Arabic script literal. The opening chapter is recited every night, so it is
// excluded from navigation and grouping views (but never from playback
// resolution).
func IsOpeningChapter(surah string) bool {
	normalized := NormalizeSurahName(surah)
	return strings.Contains(normalized, "fatiha") ||
		strings.Contains(normalized, "faatiha") ||
		strings.Contains(surah, "فاتحة")
}
