package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// Cache owns the loaded catalog of every platform touched in a run.
type Cache struct {
	fileName string
	states   map[string]*State
}

// NewCache creates a cache that loads fileName from each platform root.
func NewCache(fileName string) *Cache {
	return &Cache{
		fileName: fileName,
		states:   make(map[string]*State),
	}
}

// Get loads the catalog for root on first use. An unreadable catalog is
// returned as an empty state alongside the read error; later calls return
// the empty state without the error so it is reported once.
func (c *Cache) Get(root string) (*State, error) {
	if s, ok := c.states[root]; ok {
		return s, nil
	}
	s, err := Load(root, c.fileName)
	c.states[root] = s
	if err != nil {
		s.Exists = false
		return s, err
	}
	return s, nil
}

// States returns the loaded states ordered by root.
func (c *Cache) States() []*State {
	roots := make([]string, 0, len(c.states))
	for r := range c.states {
		roots = append(roots, r)
	}
	sort.Strings(roots)
	out := make([]*State, len(roots))
	for i, r := range roots {
		out[i] = c.states[r]
	}
	return out
}

// FlushResult describes one platform's flush.
type FlushResult struct {
	Root string
	Path string
	// Changed reports in-memory edits before the flush; in dry-run they stay
	// unwritten.
	Changed bool
	Backup  string
	Written bool
	Err     error
}

// FlushAll flushes every changed state. A failure on one platform does not
// stop the others; the failures are joined into the returned error.
func (c *Cache) FlushAll(dryRun bool) ([]FlushResult, error) {
	var (
		results []FlushResult
		errs    []error
	)
	for _, s := range c.States() {
		changed := s.Changed
		written, err := s.Flush(dryRun)
		res := FlushResult{Root: s.Root, Path: s.Path, Changed: changed, Backup: s.Backup, Written: written, Err: err}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Path, err))
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
