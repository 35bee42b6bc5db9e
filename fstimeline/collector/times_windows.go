//go:build windows

package collector

import (
	"os"
	"syscall"
	"time"
)

// statExtra extracts the timestamps Go's portable FileInfo does not expose.
// Windows has no inode change time; ownership is not mapped to numeric ids.
func statExtra(fi os.FileInfo) sysTimes {
	attrs, ok := fi.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return sysTimes{}
	}

	return sysTimes{
		AccessedAt: time.Unix(0, attrs.LastAccessTime.Nanoseconds()),
		CreatedAt:  time.Unix(0, attrs.CreationTime.Nanoseconds()),
	}
}
