package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsplit/internal/logfields"
)

// Category identifies one of the three source partitions. The category a file
// lives in determines which output target(s) it feeds.
type Category string

const (
	CategoryShared      Category = "shared"
	CategoryGitBookOnly Category = "gitbook-only"
	CategoryMCPOnly     Category = "mcp-only"
)

// Categories lists all partitions in a stable order.
var Categories = []Category{CategoryShared, CategoryGitBookOnly, CategoryMCPOnly}

// ParseCategory validates a category name from configuration input.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryShared, CategoryGitBookOnly, CategoryMCPOnly:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// File is an immutable snapshot of one source document taken at scan time.
type File struct {
	RelPath  string // file name within its category directory
	Category Category
	AbsPath  string
	ModTime  time.Time
	Content  []byte
}

// Key returns the classification key used for frontmatter template lookup.
func (f File) Key() string {
	return string(f.Category) + "/" + f.RelPath
}

// Scanner partitions the source tree into the three fixed categories.
type Scanner struct {
	root string
}

// NewScanner creates a scanner rooted at the source directory.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// Root returns the source root directory.
func (s *Scanner) Root() string { return s.root }

// List returns the markdown files directly contained in the category
// subdirectory (non-recursive), sorted by name. A missing subdirectory yields
// an empty list and a warning; downstream emitters tolerate empty categories.
func (s *Scanner) List(category Category) ([]File, error) {
	dir := filepath.Join(s.root, string(category))

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Source category directory missing",
				logfields.Category(string(category)),
				logfields.Path(dir))
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCategoryReadFailed, dir, err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !IsMarkdownFile(entry.Name()) {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		abs := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, abs, err)
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, abs, err)
		}

		files = append(files, File{
			RelPath:  entry.Name(),
			Category: category,
			AbsPath:  abs,
			ModTime:  info.ModTime(),
			Content:  content,
		})
	}

	slog.Debug("Source category scanned",
		logfields.Category(string(category)),
		slog.Int("files", len(files)))
	return files, nil
}

// Set holds one scan pass over all categories.
type Set struct {
	byCategory map[Category][]File
}

// Scan lists every category once and returns the combined snapshot.
func (s *Scanner) Scan() (*Set, error) {
	set := &Set{byCategory: make(map[Category][]File, len(Categories))}
	total := 0
	for _, cat := range Categories {
		files, err := s.List(cat)
		if err != nil {
			return nil, err
		}
		set.byCategory[cat] = files
		total += len(files)
	}
	slog.Info("Source tree scanned", logfields.Path(s.root), slog.Int("files", total))
	return set, nil
}

// Category returns the files scanned for one category.
func (set *Set) Category(cat Category) []File {
	return set.byCategory[cat]
}

// Find locates a file by name within a category.
func (set *Set) Find(cat Category, name string) (File, bool) {
	for _, f := range set.byCategory[cat] {
		if f.RelPath == name {
			return f, true
		}
	}
	return File{}, false
}

// Len returns the total file count across categories.
func (set *Set) Len() int {
	n := 0
	for _, files := range set.byCategory {
		n += len(files)
	}
	return n
}

// IsMarkdownFile reports whether a file name carries a markdown extension.
// Single source of truth for the scanner, the staleness detector and the
// watcher, so a file one of them picks up cannot be invisible to the others.
func IsMarkdownFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown" || ext == ".mdown" || ext == ".mkd"
}
