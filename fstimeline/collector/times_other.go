//go:build !linux && !darwin && !windows

package collector

import "os"

// statExtra reports only portable metadata on platforms without a known
// stat layout; access, change and birth times stay absent.
func statExtra(fi os.FileInfo) sysTimes {
	return sysTimes{}
}
