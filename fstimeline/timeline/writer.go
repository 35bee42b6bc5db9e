package timeline

import (
	"errors"
	"fmt"
	"os"
)

// ErrOutputUnwritable marks a destination that could not be created
var ErrOutputUnwritable = errors.New("output destination is not writable")

// Write renders the timeline to the named file, or stdout when outputPath is
// empty. The file is truncated and overwritten; diagnostics never share this
// stream, they go to the logger on stderr.
func Write(entries []Entry, format Format, outputPath string) error {
	if outputPath == "" {
		return Render(os.Stdout, entries, format)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputUnwritable, outputPath, err)
	}

	if err := Render(f, entries, format); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finalize output file %s: %w", outputPath, err)
	}
	return nil
}
