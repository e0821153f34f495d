package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

// skipDirs are cache and build directories excluded from size accounting.
var skipDirs = map[string]bool{
	".git":          true,
	"__pycache__":   true,
	".pytest_cache": true,
	"build":         true,
	".vscode":       true,
}

const largeFileThreshold = 100 * 1024

// DirSize returns the total size in bytes of the tree rooted at path.
// Hard-linked files are counted once, symlinks count as the length of
// their target path, and the directories in skipDirs are excluded.
// Unreadable files are skipped.
func DirSize(path string) int64 {
	var total int64
	seen := make(map[inode]bool)

	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != path && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		size, counted := fileSize(p, seen)
		if counted {
			total += size
		}
		return nil
	})

	return total
}

// inode identifies a file across hard links.
type inode struct {
	dev uint64
	ino uint64
}

// fileSize returns the accountable size of a single file, deduplicating
// hard links through seen. The second return is false when the file was
// already counted or could not be stat'ed.
func fileSize(path string, seen map[inode]bool) (int64, bool) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, false
	}

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		key := inode{dev: uint64(st.Dev), ino: uint64(st.Ino)}
		if seen[key] {
			return 0, false
		}
		seen[key] = true
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return 0, false
		}
		return int64(len(target)), true
	}
	if !info.Mode().IsRegular() {
		return 0, false
	}
	return info.Size(), true
}

// FormatSize renders a byte count for display: bytes below 1 KB,
// one decimal of KB below 1 MB, otherwise one decimal of MB.
func FormatSize(bytes int64) string {
	switch {
	case bytes == 0:
		return "0 B"
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}

// LargeFile is a file above the large-file threshold, path relative to
// the package root.
type LargeFile struct {
	Name string `json:"name" bson:"name"`
	Size int64  `json:"size" bson:"size"`
}

// SizeDetails is a per-package disk usage breakdown.
type SizeDetails struct {
	TotalSize    int64       `json:"total_size" bson:"total_size"`
	FileCount    int         `json:"file_count" bson:"file_count"`
	RegularFiles int         `json:"regular_files" bson:"regular_files"`
	RegularSize  int64       `json:"regular_size" bson:"regular_size"`
	Symlinks     int         `json:"symlinks" bson:"symlinks"`
	SymlinkSize  int64       `json:"symlink_size" bson:"symlink_size"`
	SkippedFiles int         `json:"skipped_files" bson:"skipped_files"`
	DirCount     int         `json:"dir_count" bson:"dir_count"`
	SkippedDirs  int         `json:"skipped_dirs" bson:"skipped_dirs"`
	LargeFiles   []LargeFile `json:"large_files,omitempty" bson:"large_files,omitempty"`
}

// Details walks the tree rooted at path and returns a full usage
// breakdown, including the ten largest files above 100 KB.
func Details(path string) SizeDetails {
	var details SizeDetails
	seen := make(map[inode]bool)

	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			details.SkippedFiles++
			return nil
		}
		if d.IsDir() {
			if p != path && skipDirs[d.Name()] {
				details.SkippedDirs++
				return filepath.SkipDir
			}
			details.DirCount++
			return nil
		}

		details.FileCount++
		info, err := os.Lstat(p)
		if err != nil {
			details.SkippedFiles++
			return nil
		}

		if st, ok := info.Sys().(*syscall.Stat_t); ok {
			key := inode{dev: uint64(st.Dev), ino: uint64(st.Ino)}
			if seen[key] {
				return nil
			}
			seen[key] = true
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(p)
			if err != nil {
				details.SkippedFiles++
				return nil
			}
			details.Symlinks++
			details.SymlinkSize += int64(len(target))
			details.TotalSize += int64(len(target))
		case info.Mode().IsRegular():
			details.RegularFiles++
			details.RegularSize += info.Size()
			details.TotalSize += info.Size()
			if info.Size() > largeFileThreshold {
				rel, err := filepath.Rel(path, p)
				if err != nil {
					rel = p
				}
				details.LargeFiles = append(details.LargeFiles, LargeFile{Name: rel, Size: info.Size()})
			}
		}
		return nil
	})

	sort.Slice(details.LargeFiles, func(i, j int) bool {
		return details.LargeFiles[i].Size > details.LargeFiles[j].Size
	})
	if len(details.LargeFiles) > 10 {
		details.LargeFiles = details.LargeFiles[:10]
	}

	return details
}
