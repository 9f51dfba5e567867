package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// CSVFormatter renders the surah start report as CSV, one row per surah.
type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

func (f *CSVFormatter) Format(report *Report) error {
	w := csv.NewWriter(f.w)
	defer w.Flush()

	headers := []string{"Surah", "Surah Number", "Day", "Part", "Time", "Reciter", "Quality"}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range report.SurahStarts {
		number := ""
		if row.SurahNumber > 0 {
			number = fmt.Sprintf("%d", row.SurahNumber)
		}
		record := []string{
			row.Surah,
			number,
			fmt.Sprintf("%d", row.Day),
			fmt.Sprintf("%d", row.PartID),
			util.FormatClock(row.Time),
			row.Reciter,
			row.Quality,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
