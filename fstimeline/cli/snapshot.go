package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/forensio/fstimeline/fstimeline/timeline"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect and compare stored scan runs",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

// snapshotShowFlags holds the flags for snapshot show
type snapshotShowFlags struct {
	output    string
	sortField string
	format    string
}

var showOpts = &snapshotShowFlags{}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Render the timeline of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotShow,
}

var snapshotDiffCmd = &cobra.Command{
	Use:   "diff <old-run-id> <new-run-id>",
	Short: "Compare two stored runs",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapshotDiff,
}

var snapshotRmCmd = &cobra.Command{
	Use:   "rm <run-id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotRm,
}

func init() {
	snapshotShowCmd.Flags().StringVarP(&showOpts.output, "output", "o", "", "output file for the timeline (defaults to stdout)")
	snapshotShowCmd.Flags().StringVar(&showOpts.sortField, "sort", "mtime", "timestamp field to order by (mtime, atime, ctime, btime, exif)")
	snapshotShowCmd.Flags().StringVar(&showOpts.format, "format", "csv", "output format (csv, text, json)")

	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotDiffCmd)
	snapshotCmd.AddCommand(snapshotRmCmd)
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	store, err := openRunStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTAKEN_AT\tFILES\tROOT")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			run.ID, run.TakenAt.Format(time.RFC3339), run.FileCount, run.Root)
	}
	return tw.Flush()
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	sortField, err := timeline.ParseField(showOpts.sortField)
	if err != nil {
		return err
	}
	format, err := timeline.ParseFormat(showOpts.format)
	if err != nil {
		return err
	}

	store, err := openRunStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.GetRunRecords(runID)
	if err != nil {
		return err
	}

	entries := timeline.Build(records, sortField)
	return timeline.Write(entries, format, showOpts.output)
}

func runSnapshotDiff(cmd *cobra.Command, args []string) error {
	oldID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}
	newID, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[1], err)
	}

	store, err := openRunStore()
	if err != nil {
		return err
	}
	defer store.Close()

	diff, err := store.DiffRuns(oldID, newID)
	if err != nil {
		return err
	}

	for _, path := range diff.Added {
		fmt.Printf("+ %s\n", path)
	}
	for _, path := range diff.Removed {
		fmt.Printf("- %s\n", path)
	}
	for _, path := range diff.Modified {
		fmt.Printf("~ %s\n", path)
	}
	return nil
}

func runSnapshotRm(cmd *cobra.Command, args []string) error {
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	store, err := openRunStore()
	if err != nil {
		return err
	}
	defer store.Close()

	return store.DeleteRun(runID)
}
