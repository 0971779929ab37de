package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/xcode-links/xcache/internal/catalog"
	"github.com/xcode-links/xcache/internal/config"
	"github.com/xcode-links/xcache/internal/release"
	"github.com/xcode-links/xcache/internal/selector"
)

var (
	listFormat     string
	listAll        bool
	listNewestOnly bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current Xcode releases",
	Long: `Sign in, read the download catalog and the pre-releases on the download page,
and print the releases that would be fetched: the newest builds of every
minor version family at or above the floor, newest first.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format (table, yaml, json)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "List every catalog release, oldest first, without selecting")
	listCmd.Flags().BoolVar(&listNewestOnly, "newest-only", false, "Keep only the newest release of every family")
	addSelectionFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

// addSelectionFlags registers the flags that shape the selection. Their
// defaults mirror the config defaults; only flags given explicitly override
// the config file and environment.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("floor", "7.0", "Oldest version to keep")
	cmd.Flags().Int("keep", 2, "Releases kept per version family")
	cmd.Flags().Int("family-segments", 2, "Version segments that form a family (2 = major.minor)")
	cmd.Flags().String("constraint", "", "Additional semver constraint, e.g. \">= 14, < 16\"")
}

// releaseView is the serialized form of a release.
type releaseView struct {
	Name            string `json:"name" yaml:"name"`
	Version         string `json:"version" yaml:"version"`
	URL             string `json:"url" yaml:"url"`
	ReleaseNotesURL string `json:"release_notes_url,omitempty" yaml:"release_notes_url,omitempty"`
	DateModified    string `json:"date_modified,omitempty" yaml:"date_modified,omitempty"`
}

func releaseViews(releases []release.Release) []releaseView {
	views := make([]releaseView, 0, len(releases))
	for _, r := range releases {
		v := releaseView{
			Name:            r.Label(),
			Version:         r.Version.String(),
			URL:             r.URL,
			ReleaseNotesURL: r.ReleaseNotesURL,
		}
		if r.DateModified > 0 {
			v.DateModified = time.Unix(r.DateModified, 0).UTC().Format(time.RFC3339)
		}
		views = append(views, v)
	}
	return views
}

func runList(cmd *cobra.Command, args []string) error {
	settings, err := config.Current()
	if err != nil {
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

	switch {
	case listAll:
		catalog.SortByDateModified(releases)
	case listNewestOnly:
		releases = selector.Newest(releases, settings.FamilySegments)
	default:
		releases = selector.Select(releases, selectorOptions(settings))
	}

	return printReleases(cmd.OutOrStdout(), listFormat, releases)
}

func printReleases(w io.Writer, format string, releases []release.Release) error {
	views := releaseViews(releases)
	switch format {
	case "json":
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling releases: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(views)
		if err != nil {
			return fmt.Errorf("marshaling releases: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "table", "":
		if len(views) == 0 {
			_, err := fmt.Fprintln(w, "No releases matched.")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "NAME\tVERSION\tURL")
		for _, v := range views {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Name, v.Version, v.URL)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want table, yaml or json)", format)
	}
}
