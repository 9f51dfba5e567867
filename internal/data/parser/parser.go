package parser

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
	"github.com/andalus/go-taraweeh-monitor/internal/data/cache"
	"github.com/andalus/go-taraweeh-monitor/internal/data/scanner"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// MarkerFile is the payload contract of a marker JSON file as written by the
// indexing pipeline.
type MarkerFile struct {
	Source  string         `json:"source,omitempty"`
	Day     int            `json:"day,omitempty"`
	Markers []model.Marker `json:"markers"`
}

// Parser loads marker files. Per-part failures are swallowed: a part that
// cannot be read or decoded contributes zero markers without aborting the
// other parts.
type Parser struct {
	concurrency int
	cache       *cache.MarkerCache
}

// NewParser creates a Parser with the given fetch concurrency.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{concurrency: concurrency}
}

// NewParserWithCache creates a Parser that consults a marker cache before
// decoding and stores fresh parses back into it.
func NewParserWithCache(concurrency int, markerCache *cache.MarkerCache) *Parser {
	p := NewParser(concurrency)
	p.cache = markerCache
	return p
}

// ParseFile decodes a single marker file, going through the marker cache
// when one is configured.
func (p *Parser) ParseFile(path string) ([]model.Marker, error) {
	if p.cache != nil {
		if result := p.cache.Get(path); result.Found {
			return result.Markers, nil
		}
	}

	markers, err := p.parseFile(path)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		if err := p.cache.Set(path, markers); err != nil {
			util.LogDebug(fmt.Sprintf("Marker cache store failed for %s: %v", path, err))
		}
	}
	return markers, nil
}

func (p *Parser) parseFile(path string) ([]model.Marker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var payload MarkerFile
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return payload.Markers, nil
}

// LoadParts loads all part files concurrently and folds the results in fixed
// part order regardless of completion order. The fold happens only after
// every load has settled.
func (p *Parser) LoadParts(files []scanner.PartFile) []timeline.PartMarkers {
	if len(files) == 0 {
		return nil
	}

	start := time.Now()
	loaded := make([][]model.Marker, len(files))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.concurrency)
	for i, file := range files {
		wg.Add(1)
		go func(slot int, f scanner.PartFile) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			markers, err := p.ParseFile(f.Path)
			if err != nil {
				util.LogDebug(fmt.Sprintf("Part %d contributes no markers: %v", f.PartID, err))
				return
			}
			loaded[slot] = markers
		}(i, file)
	}
	wg.Wait()

	parts := make([]timeline.PartMarkers, len(files))
	total := 0
	for i, file := range files {
		parts[i] = timeline.PartMarkers{PartID: file.PartID, Markers: loaded[i]}
		total += len(loaded[i])
	}

	util.LogDebug(fmt.Sprintf("Loaded %d markers from %d part files in %v",
		total, len(files), time.Since(start)))
	return parts
}

// LoadDay scans and loads a day's full timeline in one call.
func LoadDay(dayScanner *scanner.DayScanner, p *Parser, day int) []timeline.Marker {
	files := dayScanner.DayFiles(day)
	if len(files) == 0 {
		return nil
	}
	return timeline.Build(p.LoadParts(files))
}
