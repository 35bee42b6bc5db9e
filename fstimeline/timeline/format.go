package timeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"
)

// Format selects the textual layout of a rendered timeline.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv, text or json)", s)
	}
}

// csvHeader is the fixed column order of the CSV layout.
var csvHeader = []string{
	"modified_at", "accessed_at", "changed_at", "created_at", "captured_at",
	"path", "name", "size", "permissions", "owner_uid", "owner_gid", "owner",
}

// Render writes the ordered timeline to w in the requested format.
func Render(w io.Writer, entries []Entry, format Format) error {
	switch format {
	case FormatText:
		return renderText(w, entries)
	case FormatJSON:
		return renderJSON(w, entries)
	default:
		return renderCSV(w, entries)
	}
}

func renderCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, entry := range entries {
		rec := entry.Record
		row := []string{
			formatTime(rec.ModifiedAt),
			formatTime(rec.AccessedAt),
			formatTime(rec.ChangedAt),
			formatTime(rec.CreatedAt),
			formatTime(rec.CapturedAt),
			rec.Path,
			rec.Name,
			strconv.FormatInt(rec.Size, 10),
			rec.Perms,
			strconv.FormatUint(uint64(rec.UID), 10),
			strconv.FormatUint(uint64(rec.GID), 10),
			rec.Owner,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", rec.Path, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func renderText(w io.Writer, entries []Entry) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "MODIFIED\tACCESSED\tCHANGED\tCREATED\tSIZE\tMODE\tOWNER\tPATH")
	for _, entry := range entries {
		rec := entry.Record
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			formatTime(rec.ModifiedAt),
			formatTime(rec.AccessedAt),
			formatTime(rec.ChangedAt),
			formatTime(rec.CreatedAt),
			rec.Size,
			rec.Perms,
			rec.Owner,
			rec.Path)
	}

	return tw.Flush()
}

func renderJSON(w io.Writer, entries []Entry) error {
	records := make([]any, 0, len(entries))
	for _, entry := range entries {
		records = append(records, entry.Record)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// formatTime renders absent (zero) timestamps as empty strings so every
// platform produces the same column layout.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
