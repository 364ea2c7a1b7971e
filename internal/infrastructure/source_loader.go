package infrastructure

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yourusername/tubefetch/internal/domain"
)

// FileSourceLoader reads one URL per line. Blank lines and lines starting
// with '#' are skipped; everything else is kept verbatim (trimmed) so that
// invalid entries surface as failed attempts instead of disappearing.
type FileSourceLoader struct{}

// NewFileSourceLoader creates a file source loader
func NewFileSourceLoader() *FileSourceLoader {
	return &FileSourceLoader{}
}

// Load reads the item list from the file at path
func (l *FileSourceLoader) Load(ctx context.Context, path string) ([]domain.WorkItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer file.Close()

	items := []domain.WorkItem{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, domain.WorkItem(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", domain.ErrSourceUnavailable, path, err)
	}
	return items, nil
}

// SingleSourceLoader turns one URL into a one-item batch
type SingleSourceLoader struct{}

// NewSingleSourceLoader creates a single-item loader
func NewSingleSourceLoader() *SingleSourceLoader {
	return &SingleSourceLoader{}
}

// Load returns source as the only item
func (l *SingleSourceLoader) Load(ctx context.Context, source string) ([]domain.WorkItem, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: no URL given", domain.ErrSourceUnavailable)
	}
	return []domain.WorkItem{domain.WorkItem(source)}, nil
}

// ListSourceLoader wraps an in-memory URL list, as submitted over the API
type ListSourceLoader struct {
	urls []string
}

// NewListSourceLoader creates a loader over urls
func NewListSourceLoader(urls []string) *ListSourceLoader {
	return &ListSourceLoader{urls: urls}
}

// Load applies the same filtering as the file loader; source is ignored
func (l *ListSourceLoader) Load(ctx context.Context, _ string) ([]domain.WorkItem, error) {
	items := []domain.WorkItem{}
	for _, u := range l.urls {
		u = strings.TrimSpace(u)
		if u == "" || strings.HasPrefix(u, "#") {
			continue
		}
		items = append(items, domain.WorkItem(u))
	}
	return items, nil
}
