package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/forensio/fstimeline/fstimeline/collector"
)

// Field selects which timestamp a timeline is ordered by.
type Field string

const (
	FieldModified Field = "mtime"
	FieldAccessed Field = "atime"
	FieldChanged  Field = "ctime"
	FieldCreated  Field = "btime"
	FieldCaptured Field = "exif"
)

// ParseField maps a user-supplied sort field name to a Field.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldModified, FieldAccessed, FieldChanged, FieldCreated, FieldCaptured:
		return Field(s), nil
	default:
		return "", fmt.Errorf("unknown sort field %q (want mtime, atime, ctime, btime or exif)", s)
	}
}

// Entry pairs a record with the concrete timestamp it is ordered by.
// A zero Key means the field is absent on the record's platform.
type Entry struct {
	Record *collector.FileRecord
	Key    time.Time
}

// Build orders records ascending by the chosen timestamp field. Records
// missing the field carry a zero key and therefore sort first; equal keys
// fall back to ascending path order so output is deterministic.
func Build(records []*collector.FileRecord, field Field) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, Entry{Record: rec, Key: fieldValue(rec, field)})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Key.Equal(entries[j].Key) {
			return entries[i].Key.Before(entries[j].Key)
		}
		return entries[i].Record.Path < entries[j].Record.Path
	})

	return entries
}

func fieldValue(rec *collector.FileRecord, field Field) time.Time {
	switch field {
	case FieldAccessed:
		return rec.AccessedAt
	case FieldChanged:
		return rec.ChangedAt
	case FieldCreated:
		return rec.CreatedAt
	case FieldCaptured:
		return rec.CapturedAt
	default:
		return rec.ModifiedAt
	}
}
