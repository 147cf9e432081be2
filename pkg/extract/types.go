package extract

import (
	"sort"
)

// FileRecord is one collected file: its root-relative, slash-separated path
// and its full text content.
type FileRecord struct {
	Path    string `json:"path" xml:"path"`
	Content string `json:"content" xml:"content"`
}

// Files maps root-relative paths to file contents. Map iteration order is
// unspecified; use Sorted for deterministic output.
type Files map[string]string

// Paths returns the collected paths in ascending order.
func (f Files) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Sorted returns the collected files as records ordered by path.
func (f Files) Sorted() []FileRecord {
	records := make([]FileRecord, 0, len(f))
	for _, p := range f.Paths() {
		records = append(records, FileRecord{Path: p, Content: f[p]})
	}
	return records
}

// TotalBytes returns the summed length of all contents.
func (f Files) TotalBytes() int64 {
	var n int64
	for _, c := range f {
		n += int64(len(c))
	}
	return n
}
