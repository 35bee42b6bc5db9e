package db

import (
	"database/sql"
	"fmt"
	"sort"

	roaring "github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"
)

// RunDiff describes how a tree changed between two stored runs.
type RunDiff struct {
	Added    []string // Paths present only in the newer run
	Removed  []string // Paths present only in the older run
	Modified []string // Paths in both runs whose size, mtime or mode changed
}

// recordKey is the per-path state compared across runs.
type recordKey struct {
	Size  int64
	MTime sql.NullString
	Mode  string
}

// DiffRuns compares two stored runs. Presence is computed with roaring
// bitmaps over path dictionary ids: AndNot gives added/removed, And gives
// the candidates checked for modification.
func (s *RunStore) DiffRuns(oldID, newID uuid.UUID) (*RunDiff, error) {
	oldSet, err := s.runState(oldID)
	if err != nil {
		return nil, err
	}
	newSet, err := s.runState(newID)
	if err != nil {
		return nil, err
	}

	oldBitmap := presenceBitmap(oldSet)
	newBitmap := presenceBitmap(newSet)

	added := roaring.AndNot(newBitmap, oldBitmap)
	removed := roaring.AndNot(oldBitmap, newBitmap)
	common := roaring.And(oldBitmap, newBitmap)

	paths, err := s.pathDictionary()
	if err != nil {
		return nil, err
	}

	diff := &RunDiff{}
	diff.Added = resolvePaths(added, paths)
	diff.Removed = resolvePaths(removed, paths)

	it := common.Iterator()
	for it.HasNext() {
		pid := it.Next()
		before := oldSet[pid]
		after := newSet[pid]
		if before.Size != after.Size || before.MTime != after.MTime || before.Mode != after.Mode {
			diff.Modified = append(diff.Modified, paths[pid])
		}
	}
	sort.Strings(diff.Modified)

	return diff, nil
}

// runState loads the comparable state of every record in a run keyed by
// path dictionary id.
func (s *RunStore) runState(id uuid.UUID) (map[uint32]recordKey, error) {
	if _, err := s.GetRun(id); err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}

	rows, err := s.db.Query("SELECT path_id, size, mtime, mode FROM records WHERE run_id = ?", id.String())
	if err != nil {
		return nil, fmt.Errorf("error querying run state: %w", err)
	}
	defer rows.Close()

	state := make(map[uint32]recordKey)
	for rows.Next() {
		var (
			pid int64
			key recordKey
		)
		if err := rows.Scan(&pid, &key.Size, &key.MTime, &key.Mode); err != nil {
			return nil, fmt.Errorf("error scanning run state: %w", err)
		}
		state[uint32(pid)] = key
	}

	return state, rows.Err()
}

// pathDictionary loads the shared path id dictionary.
func (s *RunStore) pathDictionary() (map[uint32]string, error) {
	rows, err := s.db.Query("SELECT id, path FROM paths")
	if err != nil {
		return nil, fmt.Errorf("error querying paths: %w", err)
	}
	defer rows.Close()

	dict := make(map[uint32]string)
	for rows.Next() {
		var (
			id   int64
			path string
		)
		if err := rows.Scan(&id, &path); err != nil {
			return nil, fmt.Errorf("error scanning path: %w", err)
		}
		dict[uint32(id)] = path
	}

	return dict, rows.Err()
}

func presenceBitmap(state map[uint32]recordKey) *roaring.Bitmap {
	bm := roaring.New()
	for pid := range state {
		bm.Add(pid)
	}
	return bm
}

func resolvePaths(bm *roaring.Bitmap, dict map[uint32]string) []string {
	paths := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		paths = append(paths, dict[it.Next()])
	}
	sort.Strings(paths)
	return paths
}
