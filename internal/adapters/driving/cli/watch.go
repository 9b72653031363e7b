package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/digest/internal/connectors/filesystem"
	"github.com/custodia-labs/digest/internal/logger"
)

var (
	watchNoClean  bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest files dropped into a directory",
	Long: `Watches a directory and ingests every supported file written to it.
Each file is cleaned with the configured defaults unless --no-clean is set,
so summaries can be requested as soon as it appears.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoClean, "no-clean", false, "ingest only")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", filesystem.DefaultDebounce,
		"quiet period before a file is picked up")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	clean := !watchNoClean
	if clean && cleaningService == nil {
		return errors.New("cleaning service not configured")
	}

	opts := []filesystem.WatcherOption{filesystem.WithDebounce(watchDebounce)}
	if inboxFilter != nil {
		opts = append(opts, filesystem.WithFilter(inboxFilter))
	}
	watcher := filesystem.NewWatcher(args[0], opts...)
	defer watcher.Close()

	ctx := cmd.Context()
	paths, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", watcher.Root())
	for path := range paths {
		if err := ingestOne(ctx, cmd, path, clean); err != nil {
			logger.Warn("%s: %v", path, err)
		}
	}
	return nil
}
