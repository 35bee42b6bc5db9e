//go:build linux

package collector

import (
	"os"
	"syscall"
	"time"
)

// statExtra extracts the timestamps Go's portable FileInfo does not expose.
// Linux has no birth time in struct stat, so CreatedAt stays absent.
func statExtra(fi os.FileInfo) sysTimes {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return sysTimes{}
	}

	return sysTimes{
		AccessedAt: time.Unix(stat.Atim.Sec, stat.Atim.Nsec),
		ChangedAt:  time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec),
		UID:        stat.Uid,
		GID:        stat.Gid,
		Inode:      stat.Ino,
		HasOwner:   true,
	}
}
