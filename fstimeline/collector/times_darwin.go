//go:build darwin

package collector

import (
	"os"
	"syscall"
	"time"
)

// statExtra extracts the timestamps Go's portable FileInfo does not expose.
// Darwin exposes the file birth time via Birthtimespec.
func statExtra(fi os.FileInfo) sysTimes {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return sysTimes{}
	}

	return sysTimes{
		AccessedAt: time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec),
		ChangedAt:  time.Unix(stat.Ctimespec.Sec, stat.Ctimespec.Nsec),
		CreatedAt:  time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec),
		UID:        stat.Uid,
		GID:        stat.Gid,
		Inode:      stat.Ino,
		HasOwner:   true,
	}
}
