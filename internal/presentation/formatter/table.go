package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// TableFormatter renders the report as bordered terminal tables.
type TableFormatter struct {
	w io.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{w: w}
}

func (f *TableFormatter) Format(report *Report) error {
	if err := f.formatProgress(report.Progress); err != nil {
		return err
	}
	fmt.Fprintln(f.w)
	return f.formatSurahStarts(report.SurahStarts)
}

func (f *TableFormatter) formatProgress(rows []ProgressRow) error {
	fmt.Fprintln(f.w, util.FormatSectionTitle("Cumulative Coverage"))

	headers := []string{"Day", "Juz Covered", "Surahs Started"}
	widths := columnWidths(headers, len(rows), func(i int) []string {
		return []string{
			fmt.Sprintf("%d", rows[i].Day),
			fmt.Sprintf("%d / 30", rows[i].JuzCount),
			fmt.Sprintf("%d / 114", rows[i].SurahCount),
		}
	})

	printBorder(f.w, widths)
	printRow(f.w, headers, widths)
	printBorder(f.w, widths)
	for _, row := range rows {
		printRow(f.w, []string{
			fmt.Sprintf("%d", row.Day),
			fmt.Sprintf("%d / 30", row.JuzCount),
			fmt.Sprintf("%d / 114", row.SurahCount),
		}, widths)
	}
	printBorder(f.w, widths)
	return nil
}

func (f *TableFormatter) formatSurahStarts(rows []SurahStartRow) error {
	fmt.Fprintln(f.w, util.FormatSectionTitle("Surah Starts"))

	headers := []string{"Surah", "Day", "Part", "Time", "Reciter", "Quality"}
	widths := columnWidths(headers, len(rows), func(i int) []string {
		return surahStartCells(rows[i])
	})

	printBorder(f.w, widths)
	printRow(f.w, headers, widths)
	printBorder(f.w, widths)
	for _, row := range rows {
		printRow(f.w, surahStartCells(row), widths)
	}
	printBorder(f.w, widths)
	return nil
}

func surahStartCells(row SurahStartRow) []string {
	name := row.Surah
	if row.SurahNumber > 0 {
		name = fmt.Sprintf("%d. %s", row.SurahNumber, row.Surah)
	}
	return []string{
		name,
		fmt.Sprintf("%d", row.Day),
		fmt.Sprintf("%d", row.PartID),
		util.FormatClock(row.Time),
		row.Reciter,
		row.Quality,
	}
}

// columnWidths sizes each column to its widest cell, header included.
func columnWidths(headers []string, rowCount int, cells func(i int) []string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for i := 0; i < rowCount; i++ {
		for j, cell := range cells(i) {
			if w := util.GetDisplayWidth(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}
	return widths
}

func printBorder(w io.Writer, widths []int) {
	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = strings.Repeat("-", width+2)
	}
	fmt.Fprintf(w, "+%s+\n", strings.Join(parts, "+"))
}

func printRow(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		pad := widths[i] - util.GetDisplayWidth(cell)
		if pad < 0 {
			pad = 0
		}
		parts[i] = " " + cell + strings.Repeat(" ", pad) + " "
	}
	fmt.Fprintf(w, "|%s|\n", strings.Join(parts, "|"))
}
