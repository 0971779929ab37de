// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is embedded with //go:embed; edit it to rename the binary or
// point it at a different catalog host.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	ServicesURL string `yaml:"services_url"`
	SiteURL     string `yaml:"site_url"`
	DownloadURL string `yaml:"download_url"`
	SignInURL   string `yaml:"sign_in_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "xcache",
			DisplayName: "xcache",
			Description: "Select and download the current Xcode releases",
			HomeDir:     ".xcache",
			EnvPrefix:   "XCODE_LINKS",
			GoModule:    "github.com/xcode-links/xcache",
			ServicesURL: "https://developer.apple.com",
			SiteURL:     "https://developer.apple.com",
			DownloadURL: "https://developer.apple.com/devcenter/download.action?path=",
			SignInURL:   "https://idmsa.apple.com/appleauth/auth/signin",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "xcache").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".xcache").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "XCODE_LINKS").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path.
func GoModule() string { load(); return defaults.GoModule }

// ServicesURL is the host serving the listDownloads catalog endpoint.
func ServicesURL() string { load(); return defaults.ServicesURL }

// SiteURL is the developer site hosting the /download/ page.
func SiteURL() string { load(); return defaults.SiteURL }

// DownloadURL is the prefix a remote path is appended to.
func DownloadURL() string { load(); return defaults.DownloadURL }

// SignInURL is where credentials are posted.
func SignInURL() string { load(); return defaults.SignInURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("USER") → "XCODE_LINKS_USER".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
