package index

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/armon/go-radix"

	"github.com/forensio/fstimeline/fstimeline/collector"
)

// PathIndexStats tracks performance metrics for the path index
type PathIndexStats struct {
	TotalRecords     int64
	PathLookups      int64
	PrefixLookups    int64
	Insertions       int64
	AveragePathDepth float64
	mu               sync.RWMutex
}

// PathIndex provides O(k) path lookups over collected records using a
// compressed trie (patricia tree), where k is the length of the path being
// searched, not the number of records in the index
type PathIndex struct {
	tree  *radix.Tree  // Core patricia tree for path storage
	mu    sync.RWMutex // Read-write mutex for concurrent access
	stats *PathIndexStats
}

// NewPathIndex creates a new patricia tree-based path index
func NewPathIndex() *PathIndex {
	return &PathIndex{
		tree:  radix.New(),
		stats: &PathIndexStats{},
	}
}

// Build indexes a full record set in one pass.
func Build(records []*collector.FileRecord) *PathIndex {
	idx := NewPathIndex()
	for _, rec := range records {
		idx.Insert(rec)
	}
	return idx
}

// Insert adds a record to the path index keyed by its normalized path.
func (idx *PathIndex) Insert(rec *collector.FileRecord) error {
	if rec == nil {
		return fmt.Errorf("invalid input: record cannot be nil")
	}

	path := normalizePath(rec.Path)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	_, updated := idx.tree.Insert(path, rec)

	idx.stats.mu.Lock()
	if !updated {
		idx.stats.TotalRecords++
	}
	idx.stats.Insertions++
	idx.updateAverageDepth()
	idx.stats.mu.Unlock()

	return nil
}

// Lookup finds a record by its exact path with O(k) complexity
func (idx *PathIndex) Lookup(path string) (*collector.FileRecord, bool) {
	normalizedPath := normalizePath(path)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	value, found := idx.tree.Get(normalizedPath)

	idx.stats.mu.Lock()
	idx.stats.PathLookups++
	idx.stats.mu.Unlock()

	if !found {
		slog.Debug("Path lookup miss", "path", normalizedPath)
		return nil, false
	}

	return value.(*collector.FileRecord), true
}

// PrefixLookup finds all records whose paths start with the given prefix
func (idx *PathIndex) PrefixLookup(prefix string) []*collector.FileRecord {
	normalizedPrefix := normalizePath(prefix)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var results []*collector.FileRecord

	idx.tree.WalkPrefix(normalizedPrefix, func(key string, value interface{}) bool {
		if rec, ok := value.(*collector.FileRecord); ok {
			results = append(results, rec)
		}
		return false // Continue walking
	})

	idx.stats.mu.Lock()
	idx.stats.PrefixLookups++
	idx.stats.mu.Unlock()

	slog.Debug("Prefix lookup completed",
		"prefix", normalizedPrefix,
		"results_count", len(results))

	return results
}

// Walk executes a function for each path in the index in lexical order
func (idx *PathIndex) Walk(fn func(path string, rec *collector.FileRecord) bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	idx.tree.Walk(func(key string, value interface{}) bool {
		if rec, ok := value.(*collector.FileRecord); ok {
			return fn(key, rec)
		}
		return false // Continue if type assertion fails
	})
}

// Size returns the total number of records in the path index
func (idx *PathIndex) Size() int64 {
	idx.stats.mu.RLock()
	defer idx.stats.mu.RUnlock()
	return idx.stats.TotalRecords
}

// GetStats returns a copy of the current path index statistics
func (idx *PathIndex) GetStats() PathIndexStats {
	idx.stats.mu.RLock()
	defer idx.stats.mu.RUnlock()

	return PathIndexStats{
		TotalRecords:     idx.stats.TotalRecords,
		PathLookups:      idx.stats.PathLookups,
		PrefixLookups:    idx.stats.PrefixLookups,
		Insertions:       idx.stats.Insertions,
		AveragePathDepth: idx.stats.AveragePathDepth,
	}
}

// normalizePath ensures consistent path formatting for the index
func normalizePath(path string) string {
	// First replace backslashes with forward slashes (for Windows paths)
	normalized := strings.ReplaceAll(path, "\\", "/")

	// Then clean the path to resolve . and .. elements
	normalized = filepath.ToSlash(filepath.Clean(normalized))

	// Remove trailing slash unless it's the root
	if len(normalized) > 1 && strings.HasSuffix(normalized, "/") {
		normalized = strings.TrimSuffix(normalized, "/")
	}

	return normalized
}

// updateAverageDepth recalculates the average path depth (called with stats mutex held)
func (idx *PathIndex) updateAverageDepth() {
	if idx.stats.TotalRecords == 0 {
		idx.stats.AveragePathDepth = 0
		return
	}

	totalDepth := 0
	idx.tree.Walk(func(key string, value interface{}) bool {
		depth := strings.Count(key, "/")
		if key != "/" { // Root has depth 0, everything else adds 1
			depth++
		}
		totalDepth += depth
		return false
	})

	idx.stats.AveragePathDepth = float64(totalDepth) / float64(idx.stats.TotalRecords)
}
