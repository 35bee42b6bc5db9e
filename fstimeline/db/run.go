package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/forensio/fstimeline/fstimeline/collector"
)

// Run identifies one persisted collection pass over a root path.
type Run struct {
	ID        uuid.UUID
	Root      string
	TakenAt   time.Time
	FileCount int64
}

// SaveRun stores a record set as a new run and returns its identity.
func (s *RunStore) SaveRun(root string, records []*collector.FileRecord) (*Run, error) {
	run := &Run{
		ID:        uuid.New(),
		Root:      root,
		TakenAt:   time.Now(),
		FileCount: int64(len(records)),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be a no-op if transaction is committed

	_, err = tx.Exec("INSERT INTO runs (id, root, taken_at, file_count) VALUES (?, ?, ?, ?)",
		run.ID.String(), run.Root, run.TakenAt.Format(time.RFC3339Nano), run.FileCount)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	for _, rec := range records {
		pathID, err := internPath(tx, rec.Path)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(`INSERT INTO records
			(run_id, path_id, name, size, mode, uid, gid, owner, inode, mtime, atime, ctime, btime, captured)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID.String(), pathID, rec.Name, rec.Size, rec.Perms,
			rec.UID, rec.GID, rec.Owner, rec.Inode,
			encodeTime(rec.ModifiedAt), encodeTime(rec.AccessedAt),
			encodeTime(rec.ChangedAt), encodeTime(rec.CreatedAt),
			encodeTime(rec.CapturedAt))
		if err != nil {
			return nil, fmt.Errorf("failed to insert record for %s: %w", rec.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}

	return run, nil
}

// GetRun looks up a single run by id.
func (s *RunStore) GetRun(id uuid.UUID) (*Run, error) {
	row := s.db.QueryRow("SELECT id, root, taken_at, file_count FROM runs WHERE id = ?", id.String())
	return scanRun(row)
}

// ListRuns returns all stored runs, newest first.
func (s *RunStore) ListRuns() ([]Run, error) {
	rows, err := s.db.Query("SELECT id, root, taken_at, file_count FROM runs ORDER BY taken_at DESC")
	if err != nil {
		return nil, fmt.Errorf("error querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetRunRecords reconstructs the record set of a stored run.
func (s *RunStore) GetRunRecords(id uuid.UUID) ([]*collector.FileRecord, error) {
	rows, err := s.db.Query(`SELECT p.path, r.name, r.size, r.mode, r.uid, r.gid, r.owner, r.inode,
			r.mtime, r.atime, r.ctime, r.btime, r.captured
		FROM records r JOIN paths p ON p.id = r.path_id
		WHERE r.run_id = ?`, id.String())
	if err != nil {
		return nil, fmt.Errorf("error querying records: %w", err)
	}
	defer rows.Close()

	var records []*collector.FileRecord
	for rows.Next() {
		var (
			rec                               collector.FileRecord
			owner                             sql.NullString
			mtime, atime, ctime, btime, captd sql.NullString
		)
		err := rows.Scan(&rec.Path, &rec.Name, &rec.Size, &rec.Perms, &rec.UID, &rec.GID,
			&owner, &rec.Inode, &mtime, &atime, &ctime, &btime, &captd)
		if err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}
		rec.Owner = owner.String
		rec.ModifiedAt = decodeTime(mtime)
		rec.AccessedAt = decodeTime(atime)
		rec.ChangedAt = decodeTime(ctime)
		rec.CreatedAt = decodeTime(btime)
		rec.CapturedAt = decodeTime(captd)
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// DeleteRun removes a run and its records. The path dictionary is shared
// between runs and left untouched.
func (s *RunStore) DeleteRun(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records WHERE run_id = ?", id.String()); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}

	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", id)
	}

	return tx.Commit()
}

// internPath resolves a path to its dictionary id, inserting it when new.
func internPath(tx *sql.Tx, path string) (int64, error) {
	if _, err := tx.Exec("INSERT OR IGNORE INTO paths (path) VALUES (?)", path); err != nil {
		return 0, fmt.Errorf("failed to intern path %s: %w", path, err)
	}

	var id int64
	if err := tx.QueryRow("SELECT id FROM paths WHERE path = ?", path).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to resolve path id for %s: %w", path, err)
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		rawID, rawTakenAt string
		run               Run
	)
	if err := row.Scan(&rawID, &run.Root, &rawTakenAt, &run.FileCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run not found")
		}
		return nil, fmt.Errorf("error scanning run: %w", err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("error parsing run id: %w", err)
	}
	run.ID = id

	takenAt, err := time.Parse(time.RFC3339Nano, rawTakenAt)
	if err != nil {
		return nil, fmt.Errorf("error parsing time: %w", err)
	}
	run.TakenAt = takenAt

	return &run, nil
}

func encodeTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func decodeTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
