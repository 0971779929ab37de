// Package doctor runs the environment checks behind "xcache doctor" and
// reports each one on its own line.
package doctor

import (
	"fmt"
	"io"
	"os"

	"github.com/xcode-links/xcache/internal/auth"
	"github.com/xcode-links/xcache/internal/catalog"
	"github.com/xcode-links/xcache/internal/config"
	"github.com/xcode-links/xcache/internal/transfer"
)

// Options selects what Run inspects.
type Options struct {
	Host       transfer.HostTransports
	CookiePath string
	// Fix removes a leftover cookie file.
	Fix bool
}

// Run prints one line per check to w and returns the number of problems.
func Run(w io.Writer, opts Options) int {
	problems := 0
	problems += CheckDownloaders(w, opts.Host)
	problems += CheckCredentials(w)
	problems += CheckSettings(w)
	problems += CheckCookieFile(w, opts.CookiePath, opts.Fix)
	return problems
}

// CheckDownloaders reports which transports are available. Only a missing
// curl is a problem: wget alone cannot present the session cookie.
func CheckDownloaders(w io.Writer, host transfer.HostTransports) int {
	fmt.Fprintln(w, "Downloaders:")
	problems := 0
	if host.Curl != "" {
		fmt.Fprintf(w, "  [ OK ] curl (%s)\n", host.Curl)
	} else {
		fmt.Fprintln(w, "  [MISS] curl not found on PATH; authenticated downloads need it")
		problems++
	}
	if host.Wget != "" {
		fmt.Fprintf(w, "  [ OK ] wget (%s)\n", host.Wget)
	} else {
		fmt.Fprintln(w, "  [WARN] wget not found; anonymous downloads will use curl")
	}
	return problems
}

// CheckCredentials verifies the account variables are set without printing
// the password.
func CheckCredentials(w io.Writer) int {
	fmt.Fprintln(w, "Credentials:")
	creds, err := auth.CredentialsFromEnv()
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s and %s must both be set\n", auth.UserEnv(), auth.PasswordEnv())
		return 1
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", creds)
	return 0
}

// CheckSettings resolves the configuration and, when one is configured,
// parses the simulator manifest.
func CheckSettings(w io.Writer) int {
	fmt.Fprintln(w, "Settings:")
	s, err := config.Current()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return 1
	}
	fmt.Fprintf(w, "  [ OK ] floor %s, keep %d per family\n", s.Floor, s.Keep)

	if s.SimulatorsFile == "" {
		return 0
	}
	images, err := catalog.LoadSimulators(s.SimulatorsFile)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return 1
	}
	fmt.Fprintf(w, "  [ OK ] %s (%d simulator runtimes)\n", s.SimulatorsFile, len(images))
	return 0
}

// CheckCookieFile warns about a cookie file left by an interrupted transfer.
// With fix the file is removed.
func CheckCookieFile(w io.Writer, path string, fix bool) int {
	fmt.Fprintln(w, "Cookie file:")
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [ OK ] %s absent\n", path)
		return 0
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return 1
	}

	fmt.Fprintf(w, "  [WARN] %s left behind (permissions %o)\n", path, info.Mode().Perm())
	if !fix {
		fmt.Fprintln(w, "         Run with --fix to remove it")
		return 1
	}
	if err := os.Remove(path); err != nil {
		fmt.Fprintf(w, "  [FAIL] Could not remove %s: %v\n", path, err)
		return 1
	}
	fmt.Fprintf(w, "  [FIX ] Removed %s\n", path)
	return 0
}
