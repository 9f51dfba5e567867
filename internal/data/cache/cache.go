package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// MissReason explains why a lookup did not return cached markers.
type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNoFingerprint
	MissReasonNotFound
)

// Entry is a cached parse of one marker file, pinned to the file version it
// was parsed from.
type Entry struct {
	FilePath           string         `json:"filePath"`
	Markers            []model.Marker `json:"markers"`
	LastModified       int64          `json:"lastModified"`
	FileSize           int64          `json:"fileSize"`
	Inode              uint64         `json:"inode"`
	ContentFingerprint string         `json:"contentFingerprint,omitempty"`
}

// Result is the outcome of a cache lookup.
type Result struct {
	Markers    []model.Marker
	Found      bool
	MissReason MissReason
}

// MarkerCache stores parsed marker files in memory with a JSON spill
// directory, so restarting mid-night does not re-parse every day file.
// Entries are validated against the live file before use.
type MarkerCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*Entry
}

// NewMarkerCache creates a cache rooted at baseDir, creating it if needed.
func NewMarkerCache(baseDir string) (*MarkerCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &MarkerCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*Entry),
	}, nil
}

// cacheKey derives the cache filename from the marker file name,
// e.g. /srv/markers/day-15-part-2.json -> day-15-part-2.
func cacheKey(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Get returns cached markers for a marker file path if the file is unchanged.
func (c *MarkerCache) Get(filePath string) Result {
	key := cacheKey(filePath)

	c.mu.RLock()
	entry, exists := c.memoryCache[key]
	c.mu.RUnlock()

	if exists {
		if v := c.validate(entry); v.valid {
			return Result{Markers: entry.Markers, Found: true, MissReason: MissReasonNone}
		}
		c.mu.Lock()
		delete(c.memoryCache, key)
		c.mu.Unlock()
	}

	return c.getFromDisk(filePath, key)
}

func (c *MarkerCache) getFromDisk(filePath, key string) Result {
	data, err := os.ReadFile(filepath.Join(c.baseDir, key+".json"))
	if err != nil {
		return Result{MissReason: MissReasonNotFound}
	}

	var entry Entry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		return Result{MissReason: MissReasonError}
	}
	if entry.FilePath == "" {
		entry.FilePath = filePath
	}

	if v := c.validate(&entry); !v.valid {
		return Result{MissReason: v.reason}
	}

	c.mu.Lock()
	c.memoryCache[key] = &entry
	c.mu.Unlock()

	return Result{Markers: entry.Markers, Found: true, MissReason: MissReasonNone}
}

type validateResult struct {
	valid  bool
	reason MissReason
}

func (c *MarkerCache) validate(entry *Entry) validateResult {
	currentInfo, err := util.GetFileInfo(entry.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache validation failed for %s: %v", entry.FilePath, err))
		return validateResult{reason: MissReasonError}
	}

	if currentInfo.Inode != entry.Inode {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			entry.FilePath, entry.Inode, currentInfo.Inode))
		return validateResult{reason: MissReasonInode}
	}
	if currentInfo.Size != entry.FileSize {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			entry.FilePath, entry.FileSize, currentInfo.Size))
		return validateResult{reason: MissReasonSize}
	}
	if currentInfo.ModTime != entry.LastModified {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			entry.FilePath, entry.LastModified, currentInfo.ModTime))
		return validateResult{reason: MissReasonModTime}
	}

	// Marker files stop changing once a night is indexed; skip the
	// fingerprint read for files untouched for two days.
	modTime := time.Unix(currentInfo.ModTime, 0)
	if time.Since(modTime) > 48*time.Hour {
		return validateResult{valid: true}
	}

	if entry.ContentFingerprint == "" {
		return validateResult{reason: MissReasonNoFingerprint}
	}

	fingerprint, err := util.CalculateFileFingerprint(entry.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: fingerprint unavailable: %v", entry.FilePath, err))
		return validateResult{reason: MissReasonNoFingerprint}
	}
	if fingerprint != entry.ContentFingerprint {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			entry.FilePath, entry.ContentFingerprint, fingerprint))
		return validateResult{reason: MissReasonFingerprint}
	}
	return validateResult{valid: true}
}

// Set stores parsed markers for a marker file, capturing the current file
// identity so later lookups can detect changes.
func (c *MarkerCache) Set(filePath string, markers []model.Marker) error {
	fileInfo, err := util.GetFileInfo(filePath)
	if err != nil {
		return err
	}

	entry := &Entry{
		FilePath:     filePath,
		Markers:      markers,
		LastModified: fileInfo.ModTime,
		FileSize:     fileInfo.Size,
		Inode:        fileInfo.Inode,
	}
	if fingerprint, err := util.CalculateFileFingerprint(filePath); err == nil {
		entry.ContentFingerprint = fingerprint
	}

	key := cacheKey(filePath)
	data, err := sonic.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.baseDir, key+".json"), data, 0644); err != nil {
		return err
	}

	c.mu.Lock()
	c.memoryCache[key] = entry
	c.mu.Unlock()
	return nil
}

// Clear drops the memory cache and removes all spilled cache files.
func (c *MarkerCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*Entry)

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			os.Remove(filepath.Join(c.baseDir, e.Name()))
		}
	}
	return nil
}

// Len returns the number of in-memory entries.
func (c *MarkerCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memoryCache)
}
