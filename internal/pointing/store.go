package pointing

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Archives loads survey archives from a directory and keeps each parsed
// table for later requests. Tables are shared and must not be modified.
type Archives struct {
	dir    string
	logger *slog.Logger

	mu     sync.RWMutex
	tables map[string]*Table
	group  singleflight.Group
}

// NewArchives creates an archive cache rooted at dir.
func NewArchives(dir string, logger *slog.Logger) *Archives {
	return &Archives{
		dir:    dir,
		logger: logger,
		tables: make(map[string]*Table),
	}
}

// Dir returns the archive directory.
func (a *Archives) Dir() string {
	return a.dir
}

// Path returns the on-disk location of the survey's archive.
func (a *Archives) Path(s Survey) string {
	return filepath.Join(a.dir, s.File)
}

// Load returns the pointing table for the named survey, reading it on the
// first request. Concurrent first requests share one read.
func (a *Archives) Load(name string) (*Table, Survey, error) {
	s, err := LookupSurvey(name)
	if err != nil {
		return nil, Survey{}, err
	}

	a.mu.RLock()
	t, ok := a.tables[name]
	a.mu.RUnlock()
	if ok {
		return t, s, nil
	}

	v, err, _ := a.group.Do(name, func() (any, error) {
		a.mu.RLock()
		t, ok := a.tables[name]
		a.mu.RUnlock()
		if ok {
			return t, nil
		}

		start := time.Now()
		t, err := ReadArchiveFile(a.Path(s))
		if err != nil {
			return nil, fmt.Errorf("loading survey %s: %w", name, err)
		}
		a.mu.Lock()
		a.tables[name] = t
		a.mu.Unlock()

		a.logger.Info("loaded pointing archive",
			"survey", name,
			"file", s.File,
			"pointings", t.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return t, nil
	})
	if err != nil {
		return nil, Survey{}, err
	}
	return v.(*Table), s, nil
}

// Loaded returns the number of tables held in memory.
func (a *Archives) Loaded() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.tables)
}
