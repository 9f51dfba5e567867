package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// partFilePattern matches multi-part marker files: day-<day>-part-<part>.json
var partFilePattern = regexp.MustCompile(`^day-(\d+)-part-(\d+)\.json$`)

// PartFile is one discovered marker file for a day.
type PartFile struct {
	PartID int
	Path   string
}

// DayScanner locates marker JSON files in the data directory by naming
// convention: a single-part day publishes day-N.json, a multi-part day
// publishes day-N-part-M.json per part.
type DayScanner struct {
	dataDir string
}

// NewDayScanner creates a DayScanner rooted at the given data directory.
func NewDayScanner(dataDir string) *DayScanner {
	return &DayScanner{dataDir: dataDir}
}

// DayFiles returns the marker files for a day in part order. A single-part
// file wins over part files when both exist. A missing day yields an empty
// slice, never an error: absent data degrades to an empty timeline.
func (s *DayScanner) DayFiles(day int) []PartFile {
	exact := filepath.Join(s.dataDir, fmt.Sprintf("day-%d.json", day))
	if info, err := os.Stat(exact); err == nil && !info.IsDir() {
		return []PartFile{{PartID: 1, Path: exact}}
	}

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Skip data directory scan: %s - %v", s.dataDir, err))
		return nil
	}

	var files []PartFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := partFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		fileDay, err := strconv.Atoi(m[1])
		if err != nil || fileDay != day {
			continue
		}
		partID, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		files = append(files, PartFile{
			PartID: partID,
			Path:   filepath.Join(s.dataDir, entry.Name()),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].PartID < files[j].PartID
	})
	return files
}

// CatalogFiles resolves a day's marker files from its catalog entry. Parts
// with an explicit dataFile win over the naming convention; relative paths
// are anchored at the data directory. Parts without a dataFile are skipped,
// so a fully convention-named day yields an empty slice and the caller falls
// back to DayFiles.
func (s *DayScanner) CatalogFiles(day model.Day) []PartFile {
	files := make([]PartFile, 0, len(day.Parts))
	for _, part := range day.Parts {
		if part.DataFile == "" {
			continue
		}
		path := part.DataFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dataDir, path)
		}
		files = append(files, PartFile{PartID: part.ID, Path: path})
	}
	return files
}

// Days returns the day numbers that have at least one marker file, ascending.
func (s *DayScanner) Days() []int {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Skip data directory scan: %s - %v", s.dataDir, err))
		return nil
	}

	seen := make(map[int]bool)
	singlePattern := regexp.MustCompile(`^day-(\d+)\.json$`)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if m := singlePattern.FindStringSubmatch(name); m != nil {
			if day, err := strconv.Atoi(m[1]); err == nil {
				seen[day] = true
			}
			continue
		}
		if m := partFilePattern.FindStringSubmatch(name); m != nil {
			if day, err := strconv.Atoi(m[1]); err == nil {
				seen[day] = true
			}
		}
	}

	days := make([]int, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}
