package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ZanzyTHEbar/assert-lib"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forensio/fstimeline/fstimeline/collector"
	"github.com/forensio/fstimeline/fstimeline/config"
	"github.com/forensio/fstimeline/fstimeline/db"
	"github.com/forensio/fstimeline/fstimeline/index"
	"github.com/forensio/fstimeline/fstimeline/timeline"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "fstimeline <path>",
		Short: "Create a forensic timeline of file timestamps",
		Long: `fstimeline walks a file or directory tree, collects per-file timestamps
(modification, access, metadata-change and creation where the platform
supports it) and produces a chronologically ordered timeline for forensic
review.

The timeline is written to stdout or to a file; diagnostics always go to
stderr so they never mix into the timeline itself.`,
		Args:          cobra.ExactArgs(1),
		RunE:          runScan,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// scanFlags holds the flags for the scan command
type scanFlags struct {
	recursive      bool
	output         string
	verbose        bool
	followSymlinks bool
	skipHidden     bool
	prefix         string
	withEXIF       bool
	save           bool
	dbDSN          string
}

var scanOpts = &scanFlags{}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the fstimeline config directory)")
	rootCmd.PersistentFlags().BoolVarP(&scanOpts.verbose, "verbose", "v", false, "enable verbose diagnostic logging")
	rootCmd.PersistentFlags().StringVar(&scanOpts.dbDSN, "db", "", "run database DSN (default from config)")

	// Scan flags
	rootCmd.Flags().BoolVarP(&scanOpts.recursive, "recursive", "r", false, "recursively process all files in the directory")
	rootCmd.Flags().StringVarP(&scanOpts.output, "output", "o", "", "output file for the timeline (defaults to stdout)")
	rootCmd.Flags().String("sort", "mtime", "timestamp field to order by (mtime, atime, ctime, btime, exif)")
	rootCmd.Flags().String("format", "csv", "output format (csv, text, json)")
	rootCmd.Flags().Int("max-depth", -1, "maximum recursion depth (-1 = unlimited)")
	rootCmd.Flags().Int("workers", 0, "worker pool size (0 = derive from CPU count)")
	rootCmd.Flags().String("exclude-from", "", "gitignore-style file of paths to exclude")
	rootCmd.Flags().BoolVar(&scanOpts.followSymlinks, "follow-symlinks", false, "stat symlink targets instead of skipping links")
	rootCmd.Flags().BoolVar(&scanOpts.skipHidden, "skip-hidden", false, "skip dotfiles and dot-directories")
	rootCmd.Flags().StringVar(&scanOpts.prefix, "prefix", "", "only report files under this path prefix")
	rootCmd.Flags().BoolVar(&scanOpts.withEXIF, "exif", false, "read EXIF capture timestamps from image files")
	rootCmd.Flags().BoolVar(&scanOpts.save, "save", false, "record this run in the run database")

	// Bind flags to viper
	viper.BindPFlag("timeline.sortField", rootCmd.Flags().Lookup("sort"))
	viper.BindPFlag("timeline.format", rootCmd.Flags().Lookup("format"))
	viper.BindPFlag("timeline.workers", rootCmd.Flags().Lookup("workers"))
	viper.BindPFlag("timeline.maxDepth", rootCmd.Flags().Lookup("max-depth"))
	viper.BindPFlag("timeline.excludeFrom", rootCmd.Flags().Lookup("exclude-from"))

	// Bind environment variables
	viper.BindEnv("timeline.sortField", "FSTIMELINE_SORT")
	viper.BindEnv("timeline.format", "FSTIMELINE_FORMAT")
	viper.BindEnv("timeline.database.dsn", "FSTIMELINE_DB_DSN")

	rootCmd.AddCommand(snapshotCmd)
}

func initConfig() {
	setupLogging(scanOpts.verbose)

	if _, err := config.LoadConfig(cfgFile); err != nil {
		cobra.CheckErr(err)
	}
}

// setupLogging configures the default slog handler. Verbose mode lowers the
// level to Debug; the default level keeps the timeline stream clean.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runScan(cmd *cobra.Command, args []string) error {
	sortField, err := timeline.ParseField(viper.GetString("timeline.sortField"))
	if err != nil {
		return err
	}

	format, err := timeline.ParseFormat(viper.GetString("timeline.format"))
	if err != nil {
		return err
	}

	col, err := collector.New(cmd.Context(), collector.Options{
		Root:           args[0],
		Recursive:      scanOpts.recursive,
		MaxDepth:       viper.GetInt("timeline.maxDepth"),
		FollowSymlinks: scanOpts.followSymlinks,
		IncludeHidden:  !scanOpts.skipHidden,
		IgnoreFile:     viper.GetString("timeline.excludeFrom"),
		WithEXIF:       scanOpts.withEXIF || config.AppConfig.Timeline.IncludeEXIF,
		Workers:        viper.GetInt("timeline.workers"),
	})
	if err != nil {
		return err
	}
	defer col.Cleanup()

	records, err := col.Collect()
	if err != nil {
		return err
	}

	if scanOpts.prefix != "" {
		idx := index.Build(records)
		records = idx.PrefixLookup(scanOpts.prefix)
		slog.Debug("Applied prefix filter",
			"prefix", scanOpts.prefix,
			"remaining", len(records))
	}

	if scanOpts.save {
		store, err := openRunStore()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.SaveRun(args[0], records)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		slog.Info("Run saved", "id", run.ID, "files", run.FileCount)
	}

	entries := timeline.Build(records, sortField)
	return timeline.Write(entries, format, scanOpts.output)
}

// openRunStore opens the run database configured via --db, env or config file.
func openRunStore() (*db.RunStore, error) {
	dsn := scanOpts.dbDSN
	if dsn == "" {
		dsn = viper.GetString("timeline.database.dsn")
	}

	assertHandler := assert.NewAssertHandler()
	return db.NewRunStore(dsn, assertHandler)
}
