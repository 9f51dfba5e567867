package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// SummaryFormatter renders a compact overview of the scanned data.
type SummaryFormatter struct {
	w io.Writer
}

func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

func (f *SummaryFormatter) Format(report *Report) error {
	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	fmt.Fprintln(f.w, util.FormatHeaderTitle("Taraweeh Recitation Summary"))
	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	fmt.Fprintln(f.w)

	if len(report.Days) == 0 {
		fmt.Fprintln(f.w, "No marker data found")
		fmt.Fprintln(f.w)
		fmt.Fprintln(f.w, strings.Repeat("=", 60))
		return nil
	}

	fmt.Fprintf(f.w, "Days Indexed: %d (day %d to day %d)\n",
		len(report.Days), report.Days[0], report.Days[len(report.Days)-1])
	fmt.Fprintf(f.w, "Total Markers: %s\n", util.FormatNumber(report.TotalMarkers))
	fmt.Fprintln(f.w)

	if len(report.Progress) > 0 {
		latest := report.Progress[len(report.Progress)-1]
		juzPct := float64(latest.JuzCount) / 30 * 100
		fmt.Fprintln(f.w, "Coverage:")
		fmt.Fprintf(f.w, "  Juz:    %d / 30  %s %.0f%%\n",
			latest.JuzCount, util.CreateProgressBar(juzPct, 40), juzPct)
		fmt.Fprintf(f.w, "  Surahs: %d / 114\n", latest.SurahCount)
		fmt.Fprintln(f.w)
	}

	fmt.Fprintf(f.w, "Surahs With a Known Start: %d\n", len(report.SurahStarts))
	fmt.Fprintln(f.w)
	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	return nil
}
