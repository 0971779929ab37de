package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xcode-links/xcache/internal/catalog"
	"github.com/xcode-links/xcache/internal/config"
	"github.com/xcode-links/xcache/internal/orchestrator"
	"github.com/xcode-links/xcache/internal/release"
	"github.com/xcode-links/xcache/internal/selector"
)

func init() {
	simulatorsListCmd.Flags().String("simulators-file", "", "YAML manifest of installed simulator runtimes")
	simulatorsFetchCmd.Flags().String("simulators-file", "", "YAML manifest of installed simulator runtimes")
	simulatorsListCmd.Flags().Int("keep", 2, "Images kept per platform version family")
	simulatorsFetchCmd.Flags().Int("keep", 2, "Images kept per platform version family")
	addTransferFlags(simulatorsFetchCmd)

	simulatorsCmd.AddCommand(simulatorsListCmd)
	simulatorsCmd.AddCommand(simulatorsFetchCmd)
	rootCmd.AddCommand(simulatorsCmd)
}

var simulatorsCmd = &cobra.Command{
	Use:   "simulators",
	Short: "List or download simulator runtimes",
	Long: `Read the simulator runtimes available to the installed Xcodes from a YAML
manifest and select the newest images of every platform family above the
per-platform floors (config key simulator_floors).`,
}

var simulatorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the selected simulator runtimes",
	RunE: func(cmd *cobra.Command, args []string) error {
		images, _, err := selectedSimulators()
		if err != nil {
			return err
		}
		return printSimulators(cmd.OutOrStdout(), images)
	},
}

var simulatorsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the selected simulator runtimes",
	RunE: func(cmd *cobra.Command, args []string) error {
		images, settings, err := selectedSimulators()
		if err != nil {
			return err
		}
		if err := ensureOutputDir(settings.Output); err != nil {
			return err
		}

		o := orchestrator.New(newEngine(settings, progressTo(cmd)),
			orchestrator.WithOutput(cmd.OutOrStdout()),
			orchestrator.WithLogger(logger),
		)
		report, err := o.Run(cmd.Context(), orchestrator.SimulatorItems(images, settings.Output))
		if err != nil {
			return err
		}
		return finish(o, report)
	},
}

func selectedSimulators() ([]release.SimulatorImage, config.Settings, error) {
	settings, err := config.Current()
	if err != nil {
		return nil, settings, err
	}
	if settings.SimulatorsFile == "" {
		return nil, settings, fmt.Errorf("no simulator manifest: pass --simulators-file or set %s", config.KeySimulatorsFile)
	}

	images, err := catalog.LoadSimulators(settings.SimulatorsFile)
	if err != nil {
		return nil, settings, err
	}
	selected := selector.SelectSimulators(images, simulatorOptions(settings))
	logger.Debug("Simulators selected", "available", len(images), "selected", len(selected))
	return selected, settings, nil
}

func printSimulators(w io.Writer, images []release.SimulatorImage) error {
	if len(images) == 0 {
		_, err := fmt.Fprintln(w, "No simulator runtimes matched.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "PLATFORM\tNAME\tVERSION\tSOURCE")
	for _, img := range images {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", img.Platform(), img.Name, img.Version, img.Source)
	}
	return tw.Flush()
}
