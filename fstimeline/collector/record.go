package collector

import (
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"
)

// FileRecord represents one filesystem entry at observation time.
// Records are created once during collection and never mutated afterwards;
// a fresh run re-collects rather than updating in place.
type FileRecord struct {
	Path       string      `json:"path"`
	Name       string      `json:"name"`
	Size       int64       `json:"size"`
	Mode       os.FileMode `json:"-"`
	Perms      string      `json:"permissions"`
	UID        uint32      `json:"owner_uid"`
	GID        uint32      `json:"owner_gid"`
	Owner      string      `json:"owner,omitempty"`
	Inode      uint64      `json:"inode,omitempty"`
	ModifiedAt time.Time   `json:"modified_at"`
	AccessedAt time.Time   `json:"accessed_at,omitzero"`
	ChangedAt  time.Time   `json:"changed_at,omitzero"`
	CreatedAt  time.Time   `json:"created_at,omitzero"`
	CapturedAt time.Time   `json:"captured_at,omitzero"`
}

// NewFileRecord builds a record from a stat result. Timestamp fields the
// platform cannot provide are left as zero times and treated as absent.
func NewFileRecord(path string, fi os.FileInfo) *FileRecord {
	rec := &FileRecord{
		Path:       path,
		Name:       filepath.Base(path),
		Size:       fi.Size(),
		Mode:       fi.Mode(),
		Perms:      fi.Mode().String(),
		ModifiedAt: fi.ModTime(),
	}

	extra := statExtra(fi)
	rec.AccessedAt = extra.AccessedAt
	rec.ChangedAt = extra.ChangedAt
	rec.CreatedAt = extra.CreatedAt
	if extra.HasOwner {
		rec.UID = extra.UID
		rec.GID = extra.GID
		rec.Inode = extra.Inode
		rec.Owner = lookupOwner(extra.UID)
	}

	return rec
}

// sysTimes holds the platform-specific portion of a stat result.
type sysTimes struct {
	AccessedAt time.Time
	ChangedAt  time.Time
	CreatedAt  time.Time
	UID        uint32
	GID        uint32
	Inode      uint64
	HasOwner   bool
}

// lookupOwner resolves a uid to a username, falling back to the numeric id
func lookupOwner(uid uint32) string {
	if u, err := user.LookupId(strconv.Itoa(int(uid))); err == nil {
		return u.Username
	}
	return strconv.Itoa(int(uid))
}
