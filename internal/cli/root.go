package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/xcode-links/xcache/internal/branding"
	"github.com/xcode-links/xcache/internal/config"
	"github.com/xcode-links/xcache/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose bool
	logger  = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` lists the Xcode releases published in the Apple developer
download catalog, keeps the newest builds of every minor version family and
downloads them with resumable, retrying transfers.

Credentials are read from ` + branding.EnvVar("USER") + ` and ` + branding.EnvVar("PASSWORD") + `
(plus ` + branding.EnvVar("TEAM_ID") + ` for multi-team accounts).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(cmd.ErrOrStderr(), verbose)
		config.Load()
		return bindFlags(cmd.Flags())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// bindFlags lets explicitly passed flags override config and environment.
// Flag names use dashes where config keys use underscores.
func bindFlags(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, ok := bindableKeys[key]; !ok || err != nil {
			return
		}
		if bindErr := viper.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("binding flag --%s: %w", f.Name, bindErr)
		}
	})
	return err
}

var bindableKeys = map[string]struct{}{
	config.KeyFloor:          {},
	config.KeyFamilySegments: {},
	config.KeyKeep:           {},
	config.KeyConstraint:     {},
	config.KeyRetries:        {},
	config.KeyResumeAttempts: {},
	config.KeyOutput:         {},
	config.KeyCookiePath:     {},
	config.KeySimulatorsFile: {},
}

// Execute runs the root command with build info injected via ldflags. The
// error is printed before it is returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
