package formatter

// ProgressRow is one day in the cumulative coverage report.
type ProgressRow struct {
	Day        int `json:"day"`
	JuzCount   int `json:"juzCount"`
	SurahCount int `json:"surahCount"`
}

// SurahStartRow is the canonical first recitation of one surah across all
// scanned days.
type SurahStartRow struct {
	Surah       string  `json:"surah"`
	SurahNumber int     `json:"surahNumber,omitempty"`
	Day         int     `json:"day"`
	PartID      int     `json:"part"`
	Time        float64 `json:"time"`
	Reciter     string  `json:"reciter"`
	Quality     string  `json:"quality"`
}

// Report is the output of the offline analysis command.
type Report struct {
	Days         []int           `json:"days"`
	TotalMarkers int             `json:"totalMarkers"`
	Progress     []ProgressRow   `json:"progress"`
	SurahStarts  []SurahStartRow `json:"surahStarts"`
}

// Formatter renders a report to its output.
type Formatter interface {
	Format(report *Report) error
}
