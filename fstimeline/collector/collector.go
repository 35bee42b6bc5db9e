package collector

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sourcegraph/conc/pool"
)

// Options configures a collection run.
type Options struct {
	Root           string // File or directory to scan
	Recursive      bool   // Descend into subdirectories
	MaxDepth       int    // Maximum recursion depth (-1 = unlimited)
	FollowSymlinks bool   // Stat symlink targets instead of skipping links
	IncludeHidden  bool   // Include dotfiles and dot-directories
	IgnoreFile     string // Optional gitignore-style exclude file
	WithEXIF       bool   // Read EXIF capture timestamps from image files
	Workers        int    // Worker pool size (0 = derive from CPU count)
}

// WalkStats tracks performance metrics during collection
type WalkStats struct {
	DirsProcessed  int64
	FilesProcessed int64
	Skipped        int64
	StartTime      int64
	EndTime        int64
}

// Collector walks a root path and produces one FileRecord per regular file,
// using the conc package for robust worker pool and job management.
type Collector struct {
	opts          Options
	maxWorkers    int
	ctx           context.Context
	cancel        context.CancelFunc
	mu            sync.RWMutex
	processedDirs map[string]bool // Track processed directories to avoid duplicates
	ignored       *ignore.GitIgnore
	stats         WalkStats
}

// New creates a collector for the given options. The ignore file, when
// configured, is compiled up front so a bad pattern file fails the run early.
func New(ctx context.Context, opts Options) (*Collector, error) {
	if strings.TrimSpace(opts.Root) == "" {
		return nil, ErrRootEmpty
	}

	// Optimal worker count: CPU cores * 2 for I/O bound operations
	maxWorkers := opts.Workers
	if maxWorkers <= 0 {
		maxWorkers = min(max(runtime.NumCPU()*2, 4), 32)
	}

	var ignored *ignore.GitIgnore
	if opts.IgnoreFile != "" {
		compiled, err := ignore.CompileIgnoreFile(opts.IgnoreFile)
		if err != nil {
			return nil, fmt.Errorf("failed to compile ignore file %s: %w", opts.IgnoreFile, err)
		}
		ignored = compiled
	}

	ctxWithCancel, cancel := context.WithCancel(ctx)

	return &Collector{
		opts:          opts,
		maxWorkers:    maxWorkers,
		ctx:           ctxWithCancel,
		cancel:        cancel,
		processedDirs: make(map[string]bool),
		ignored:       ignored,
	}, nil
}

// Collect walks the configured root and returns one record per regular file.
// A missing or unreadable root is fatal; per-file failures are skipped and
// counted so a single vanished or unreadable file never aborts the run.
func (c *Collector) Collect() ([]*FileRecord, error) {
	c.stats = WalkStats{StartTime: time.Now().UnixMilli()}

	fi, err := os.Stat(c.opts.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotExist, c.opts.Root)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnreadable, c.opts.Root, err)
	}

	var records []*FileRecord

	switch {
	case fi.Mode().IsRegular():
		rec := c.buildRecord(c.opts.Root, fi)
		records = append(records, rec)
		atomic.AddInt64(&c.stats.FilesProcessed, 1)
	case fi.IsDir():
		records, err = c.collectTree(c.opts.Root)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, c.opts.Root)
	}

	c.stats.EndTime = time.Now().UnixMilli()
	c.logPerformanceStats()

	return records, nil
}

// Stats returns the metrics of the last Collect call.
func (c *Collector) Stats() WalkStats {
	return WalkStats{
		DirsProcessed:  atomic.LoadInt64(&c.stats.DirsProcessed),
		FilesProcessed: atomic.LoadInt64(&c.stats.FilesProcessed),
		Skipped:        atomic.LoadInt64(&c.stats.Skipped),
		StartTime:      c.stats.StartTime,
		EndTime:        c.stats.EndTime,
	}
}

// collectTree processes directories level by level using a BFS approach with
// conc.Pool for bounded concurrency.
func (c *Collector) collectTree(rootPath string) ([]*FileRecord, error) {
	var (
		records   []*FileRecord
		recordsMu sync.Mutex
	)

	currentLevel := []string{rootPath}
	maxDepth := c.opts.MaxDepth

	for depth := 0; (maxDepth == -1 || depth <= maxDepth) && len(currentLevel) > 0; depth++ {
		if !c.opts.Recursive && depth > 0 {
			break
		}

		nextLevel := make([]string, 0)
		var nextLevelMu sync.Mutex

		// Create a new pool for this level to avoid reusing closed pools
		levelPool := pool.New().WithMaxGoroutines(c.maxWorkers).WithContext(c.ctx)

		for _, dirPath := range currentLevel {
			levelPool.Go(func(ctx context.Context) error {
				children, files, err := c.processDirectory(ctx, dirPath)
				if err != nil {
					atomic.AddInt64(&c.stats.Skipped, 1)
					slog.Warn("Skipping unreadable directory",
						"path", dirPath,
						"error", err)
					return nil
				}

				atomic.AddInt64(&c.stats.DirsProcessed, 1)
				atomic.AddInt64(&c.stats.FilesProcessed, int64(len(files)))

				recordsMu.Lock()
				records = append(records, files...)
				recordsMu.Unlock()

				if c.opts.Recursive {
					nextLevelMu.Lock()
					nextLevel = append(nextLevel, children...)
					nextLevelMu.Unlock()
				}

				return nil
			})
		}

		if err := levelPool.Wait(); err != nil {
			return nil, err
		}

		currentLevel = nextLevel
	}

	return records, nil
}

// processDirectory reads one directory and returns its subdirectories and
// the records for its regular files.
func (c *Collector) processDirectory(ctx context.Context, dirPath string) ([]string, []*FileRecord, error) {
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}

	// Check if already processed (prevent duplicates)
	c.mu.RLock()
	if c.processedDirs[dirPath] {
		c.mu.RUnlock()
		return nil, nil, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	c.processedDirs[dirPath] = true
	c.mu.Unlock()

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}

	children := make([]string, 0, len(entries)/8+2)
	files := make([]*FileRecord, 0, len(entries))

	for _, entry := range entries {
		childPath := filepath.Join(dirPath, entry.Name())

		if !c.opts.IncludeHidden && strings.HasPrefix(entry.Name(), ".") {
			slog.Debug("Skipping hidden entry", "path", childPath)
			continue
		}

		if c.ignored != nil && c.ignored.MatchesPath(childPath) {
			slog.Debug("Ignoring file", "path", childPath)
			continue
		}

		switch {
		case entry.IsDir():
			children = append(children, childPath)

		case entry.Type()&os.ModeSymlink != 0:
			if rec, ok := c.resolveSymlink(childPath); ok {
				files = append(files, rec)
			}

		case entry.Type().IsRegular():
			entryInfo, err := entry.Info()
			if err != nil {
				// File vanished or became unreadable between enumeration and stat
				atomic.AddInt64(&c.stats.Skipped, 1)
				slog.Warn("Error getting file info",
					"path", childPath,
					"error", err)
				continue
			}
			files = append(files, c.buildRecord(childPath, entryInfo))

		default:
			slog.Debug("Skipping non-regular entry",
				"path", childPath,
				"mode", entry.Type().String())
		}
	}

	return children, files, nil
}

// resolveSymlink handles a symlink entry under the configured policy: links
// are skipped unless FollowSymlinks is set, and symlinked directories are
// never descended into.
func (c *Collector) resolveSymlink(path string) (*FileRecord, bool) {
	if !c.opts.FollowSymlinks {
		slog.Debug("Skipping symlink", "path", path)
		return nil, false
	}

	target, err := os.Stat(path)
	if err != nil {
		atomic.AddInt64(&c.stats.Skipped, 1)
		slog.Warn("Skipping broken symlink",
			"path", path,
			"error", err)
		return nil, false
	}

	if !target.Mode().IsRegular() {
		slog.Debug("Skipping symlink to non-regular target", "path", path)
		return nil, false
	}

	return c.buildRecord(path, target), true
}

func (c *Collector) buildRecord(path string, fi os.FileInfo) *FileRecord {
	rec := NewFileRecord(path, fi)
	if c.opts.WithEXIF {
		rec.CapturedAt = extractCaptureTime(path)
	}
	return rec
}

// logPerformanceStats logs collection metrics
func (c *Collector) logPerformanceStats() {
	stats := c.Stats()
	duration := stats.EndTime - stats.StartTime

	slog.Info("Collection completed",
		"dirs", stats.DirsProcessed,
		"files", stats.FilesProcessed,
		"skipped", stats.Skipped,
		"duration_ms", duration)
}

// Cleanup releases resources used by the collector
func (c *Collector) Cleanup() {
	if c.cancel != nil {
		c.cancel()
	}
}
