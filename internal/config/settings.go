package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/xcode-links/xcache/internal/branding"
	"github.com/xcode-links/xcache/internal/version"
)

// Keys understood by Current.
const (
	KeyFloor           = "floor"
	KeyFamilySegments  = "family_segments"
	KeyKeep            = "keep"
	KeyConstraint      = "constraint"
	KeyRetries         = "retries"
	KeyResumeAttempts  = "resume_attempts"
	KeyOutput          = "output"
	KeyCookiePath      = "cookie_path"
	KeySimulatorFloors = "simulator_floors"
	KeySimulatorsFile  = "simulators_file"
	KeyServicesURL     = "services_url"
	KeySiteURL         = "site_url"
	KeyDownloadURL     = "download_url"
	KeySignInURL       = "sign_in_url"
)

// DefaultSimulatorFloors are the oldest runtimes still mirrored per platform.
var DefaultSimulatorFloors = map[string]string{
	"iOS":     "12.0",
	"tvOS":    "12.0",
	"watchOS": "5.0",
}

// platformNames restores the case viper folds out of map keys.
var platformNames = map[string]string{
	"ios":      "iOS",
	"tvos":     "tvOS",
	"watchos":  "watchOS",
	"visionos": "visionOS",
	"xros":     "xrOS",
	"macos":    "macOS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyFloor, "7.0")
	v.SetDefault(KeyFamilySegments, version.DefaultFamilySegments)
	v.SetDefault(KeyKeep, 2)
	v.SetDefault(KeyConstraint, "")
	v.SetDefault(KeyRetries, 5)
	v.SetDefault(KeyResumeAttempts, 3)
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyCookiePath, "")
	v.SetDefault(KeySimulatorFloors, DefaultSimulatorFloors)
	v.SetDefault(KeySimulatorsFile, "")
	v.SetDefault(KeyServicesURL, branding.ServicesURL())
	v.SetDefault(KeySiteURL, branding.SiteURL())
	v.SetDefault(KeyDownloadURL, branding.DownloadURL())
	v.SetDefault(KeySignInURL, branding.SignInURL())
}

// Settings are the typed values for one run.
type Settings struct {
	Floor          version.Version
	FamilySegments int
	Keep           int
	Constraint     *version.Constraint
	Retries        int
	ResumeAttempts int
	// Output is the download directory; empty discards the payload.
	Output string
	// CookiePath overrides the cookie file location; empty uses the default.
	CookiePath      string
	SimulatorFloors map[string]version.Version
	SimulatorsFile  string
	ServicesURL     string
	SiteURL         string
	DownloadURL     string
	SignInURL       string
}

// Current resolves the settings from the global viper instance.
func Current() (Settings, error) {
	return fromViper(viper.GetViper())
}

func fromViper(v *viper.Viper) (Settings, error) {
	s := Settings{
		FamilySegments: v.GetInt(KeyFamilySegments),
		Keep:           v.GetInt(KeyKeep),
		Retries:        v.GetInt(KeyRetries),
		ResumeAttempts: v.GetInt(KeyResumeAttempts),
		Output:         v.GetString(KeyOutput),
		CookiePath:     v.GetString(KeyCookiePath),
		SimulatorsFile: v.GetString(KeySimulatorsFile),
		ServicesURL:    strings.TrimRight(v.GetString(KeyServicesURL), "/"),
		SiteURL:        strings.TrimRight(v.GetString(KeySiteURL), "/"),
		DownloadURL:    v.GetString(KeyDownloadURL),
		SignInURL:      v.GetString(KeySignInURL),
	}

	floor := v.GetString(KeyFloor)
	s.Floor = version.Parse(floor)
	if floor != "" && !s.Floor.Valid() {
		return Settings{}, fmt.Errorf("invalid %s %q", KeyFloor, floor)
	}

	c, err := version.ParseConstraint(v.GetString(KeyConstraint))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", KeyConstraint, err)
	}
	s.Constraint = c

	if s.Retries < 0 {
		return Settings{}, fmt.Errorf("%s must not be negative", KeyRetries)
	}
	if s.ResumeAttempts < 0 {
		return Settings{}, fmt.Errorf("%s must not be negative", KeyResumeAttempts)
	}

	floors, err := simulatorFloors(v.GetStringMapString(KeySimulatorFloors))
	if err != nil {
		return Settings{}, err
	}
	s.SimulatorFloors = floors
	return s, nil
}

func simulatorFloors(raw map[string]string) (map[string]version.Version, error) {
	out := make(map[string]version.Version, len(raw))
	for platform, floor := range raw {
		v := version.Parse(floor)
		if !v.Valid() {
			return nil, fmt.Errorf("invalid %s.%s %q", KeySimulatorFloors, platform, floor)
		}
		if name, ok := platformNames[strings.ToLower(platform)]; ok {
			platform = name
		}
		out[platform] = v
	}
	return out, nil
}
