package collector

import (
	"os"
	"time"

	exiflib "github.com/rwcarlsen/goexif/exif"
)

// extractCaptureTime returns the EXIF capture timestamp for a file.
// On any error (non-image, missing EXIF, read failure) it returns a zero time.
func extractCaptureTime(path string) time.Time {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}
	}
	defer f.Close()

	x, err := exiflib.Decode(f)
	if err != nil {
		return time.Time{}
	}

	taken, err := x.DateTime()
	if err != nil {
		return time.Time{}
	}
	return taken
}
