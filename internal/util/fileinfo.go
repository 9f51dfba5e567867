package util

import (
	"fmt"
	"os"
	"syscall"
)

// FileInfo identifies a marker file version for cache validation: a file is
// considered unchanged only when modification time, size, and inode all match.
type FileInfo struct {
	ModTime int64
	Size    int64
	Inode   uint64
}

// GetFileInfo retrieves the identity of a file. Linux and macOS only.
func GetFileInfo(filepath string) (*FileInfo, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return nil, err
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("failed to get file system information: %s", filepath)
	}

	return &FileInfo{
		ModTime: stat.ModTime().Unix(),
		Size:    stat.Size(),
		Inode:   sysStat.Ino,
	}, nil
}

// Matches reports whether two file identities describe the same file version.
func (f *FileInfo) Matches(other *FileInfo) bool {
	if f == nil || other == nil {
		return false
	}
	return f.ModTime == other.ModTime && f.Size == other.Size && f.Inode == other.Inode
}
