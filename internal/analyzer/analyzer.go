package analyzer

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/andalus/go-taraweeh-monitor/internal/data/aggregator"
	"github.com/andalus/go-taraweeh-monitor/internal/data/cache"
	"github.com/andalus/go-taraweeh-monitor/internal/data/parser"
	"github.com/andalus/go-taraweeh-monitor/internal/data/scanner"
	"github.com/andalus/go-taraweeh-monitor/internal/presentation/formatter"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

type Config struct {
	DataDir      string
	CacheDir     string
	OutputFormat string
	Days         []int // empty means every day found on disk
	Concurrency  int
}

type Analyzer struct {
	config  *Config
	scanner *scanner.DayScanner
	parser  *parser.Parser
	output  io.Writer
}

func New(config *Config) *Analyzer {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}

	p := parser.NewParser(config.Concurrency)
	if config.CacheDir != "" {
		markerCache, err := cache.NewMarkerCache(config.CacheDir)
		if err != nil {
			util.LogWarn(fmt.Sprintf("Marker cache unavailable, parsing without it: %v", err))
		} else {
			p = parser.NewParserWithCache(config.Concurrency, markerCache)
		}
	}

	return &Analyzer{
		config:  config,
		scanner: scanner.NewDayScanner(config.DataDir),
		parser:  p,
		output:  os.Stdout,
	}
}

// SetOutput redirects report rendering, primarily for tests.
func (a *Analyzer) SetOutput(w io.Writer) {
	a.output = w
}

func (a *Analyzer) Run() error {
	startTime := time.Now()
	util.LogInfo("Starting analysis of recitation markers...")

	// Phase 1: Discover days
	scanStart := time.Now()
	days := a.selectDays()
	scanDuration := time.Since(scanStart)
	util.LogDebug(fmt.Sprintf("Phase 1 - Day discovery duration: %v, found %d days", scanDuration, len(days)))

	if len(days) == 0 {
		return fmt.Errorf("no marker files found in %s", a.config.DataDir)
	}

	util.LogInfo(fmt.Sprintf("Found marker data for %d days", len(days)))

	// Phase 2: Load and stitch timelines
	loadStart := time.Now()
	stats := NewLoadStats()
	dayTimelines := make([]aggregator.DayTimeline, 0, len(days))
	totalMarkers := 0
	for _, day := range days {
		markers := parser.LoadDay(a.scanner, a.parser, day)
		if len(markers) == 0 {
			util.LogWarn(fmt.Sprintf("Day %d has no readable markers", day))
			continue
		}
		stats.RecordDay(markers)
		totalMarkers += len(markers)
		dayTimelines = append(dayTimelines, aggregator.DayTimeline{Day: day, Markers: markers})
	}
	loadDuration := time.Since(loadStart)
	util.LogDebug(fmt.Sprintf("Phase 2 - Timeline loading duration: %v, total markers: %d", loadDuration, totalMarkers))

	stats.PrintFinalStats()

	if len(dayTimelines) == 0 {
		return fmt.Errorf("no valid marker data found")
	}

	// Phase 3: Aggregate
	aggStart := time.Now()
	progress := aggregator.Progress(dayTimelines)
	starts := aggregator.SurahStarts(dayTimelines)
	aggDuration := time.Since(aggStart)
	util.LogDebug(fmt.Sprintf("Phase 3 - Aggregation duration: %v, %d surah starts", aggDuration, len(starts)))

	// Phase 4: Format and output
	outputStart := time.Now()
	report := buildReport(dayTimelines, totalMarkers, progress, starts)
	err := a.formatAndOutput(report)
	outputDuration := time.Since(outputStart)
	util.LogDebug(fmt.Sprintf("Phase 4 - Formatting and output duration: %v", outputDuration))

	totalDuration := time.Since(startTime)
	util.LogDebug(fmt.Sprintf("Total duration: %v (scan:%v load:%v aggregate:%v output:%v)",
		totalDuration, scanDuration, loadDuration, aggDuration, outputDuration))

	return err
}

// selectDays intersects the days on disk with the configured day filter.
func (a *Analyzer) selectDays() []int {
	available := a.scanner.Days()
	if len(a.config.Days) == 0 {
		return available
	}

	onDisk := make(map[int]bool, len(available))
	for _, day := range available {
		onDisk[day] = true
	}

	selected := make([]int, 0, len(a.config.Days))
	for _, day := range a.config.Days {
		if onDisk[day] {
			selected = append(selected, day)
		} else {
			util.LogWarn(fmt.Sprintf("Requested day %d has no marker files", day))
		}
	}
	sort.Ints(selected)
	return selected
}

func buildReport(days []aggregator.DayTimeline, totalMarkers int, progress []aggregator.ProgressPoint, starts []aggregator.SurahStart) *formatter.Report {
	report := &formatter.Report{
		Days:         make([]int, 0, len(days)),
		TotalMarkers: totalMarkers,
		Progress:     make([]formatter.ProgressRow, 0, len(progress)),
		SurahStarts:  make([]formatter.SurahStartRow, 0, len(starts)),
	}

	for _, dt := range days {
		report.Days = append(report.Days, dt.Day)
	}
	sort.Ints(report.Days)

	for _, p := range progress {
		report.Progress = append(report.Progress, formatter.ProgressRow{
			Day:        p.Day,
			JuzCount:   p.JuzCount,
			SurahCount: p.SurahCount,
		})
	}

	for _, s := range starts {
		report.SurahStarts = append(report.SurahStarts, formatter.SurahStartRow{
			Surah:       s.Surah,
			SurahNumber: s.SurahNumber,
			Day:         s.Day,
			PartID:      s.PartID,
			Time:        s.SeekTime,
			Reciter:     s.Reciter,
			Quality:     string(s.Quality),
		})
	}

	return report
}

func (a *Analyzer) formatAndOutput(report *formatter.Report) error {
	var f formatter.Formatter
	switch a.config.OutputFormat {
	case "json":
		f = formatter.NewJSONFormatter(a.output)
	case "csv":
		f = formatter.NewCSVFormatter(a.output)
	case "summary":
		f = formatter.NewSummaryFormatter(a.output)
	case "", "table":
		f = formatter.NewTableFormatter(a.output)
	default:
		return fmt.Errorf("unsupported output format: %s", a.config.OutputFormat)
	}
	return f.Format(report)
}
