package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xcode-links/xcache/internal/config"
	"github.com/xcode-links/xcache/internal/orchestrator"
	"github.com/xcode-links/xcache/internal/selector"
)

var fetchNewestOnly bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the current Xcode releases",
	Long: `Select releases the way "list" does and download each one in turn. Without
--output the payload is discarded, which warms a caching proxy without
keeping the files. A failed download is reported and the run moves on.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchNewestOnly, "newest-only", false, "Keep only the newest release of every family")
	addSelectionFlags(fetchCmd)
	addTransferFlags(fetchCmd)
	rootCmd.AddCommand(fetchCmd)
}

func addTransferFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Directory to save downloads in (default: discard)")
	cmd.Flags().Int("retries", 5, "Retries handed to the downloader")
	cmd.Flags().Int("resume-attempts", 3, "Extra attempts after a partial transfer")
	cmd.Flags().String("cookie-path", "", "Location of the temporary cookie file")
}

func runFetch(cmd *cobra.Command, args []string) error {
	settings, err := config.Current()
	if err != nil {
		return err
	}
	if err := ensureOutputDir(settings.Output); err != nil {
		return err
	}

	ctx := cmd.Context()
	session, err := signIn(ctx, settings)
	if err != nil {
		return err
	}
	releases, err := loadReleases(ctx, session, settings)
	if err != nil {
		return err
	}

	if fetchNewestOnly {
		releases = selector.Newest(releases, settings.FamilySegments)
	} else {
		releases = selector.Select(releases, selectorOptions(settings))
	}

	engine := newEngine(settings, progressTo(cmd))
	o := orchestrator.New(engine,
		orchestrator.WithCookie(session.Cookie()),
		orchestrator.WithOutput(cmd.OutOrStdout()),
		orchestrator.WithLogger(logger),
	)

	report, err := o.Run(ctx, orchestrator.ReleaseItems(releases, settings.Output))
	if err != nil {
		return err
	}
	return finish(o, report)
}

// finish logs the summary and turns failed items into the exit status.
func finish(o *orchestrator.Orchestrator, report orchestrator.Report) error {
	logger.Info(o.Summary(report))
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d downloads failed", len(report.Failed), report.Total())
	}
	return nil
}

func ensureOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return nil
}

func progressTo(cmd *cobra.Command) func(string) {
	w := cmd.ErrOrStderr()
	return func(line string) {
		fmt.Fprintln(w, line)
	}
}
