package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xcode-links/xcache/internal/config"
	"github.com/xcode-links/xcache/internal/doctor"
	"github.com/xcode-links/xcache/internal/transfer"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Remove a cookie file left by an interrupted run")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check downloaders, credentials and settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cookiePath := config.Get(config.KeyCookiePath)
		if cookiePath == "" {
			cookiePath = transfer.DefaultCookiePath()
		}

		problems := doctor.Run(cmd.OutOrStdout(), doctor.Options{
			Host:       transfer.Probe(),
			CookiePath: cookiePath,
			Fix:        doctorFix,
		})
		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		return nil
	},
}
