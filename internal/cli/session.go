package cli

import (
	"context"
	"fmt"

	"github.com/xcode-links/xcache/internal/auth"
	"github.com/xcode-links/xcache/internal/catalog"
	"github.com/xcode-links/xcache/internal/config"
	"github.com/xcode-links/xcache/internal/release"
	"github.com/xcode-links/xcache/internal/selector"
	"github.com/xcode-links/xcache/internal/transfer"
)

// signIn authenticates with the credentials from the environment.
func signIn(ctx context.Context, s config.Settings) (*auth.Session, error) {
	creds, err := auth.CredentialsFromEnv()
	if err != nil {
		return nil, err
	}

	client := auth.New(auth.WithEndpoints(auth.Endpoints{
		SignIn:   s.SignInURL,
		Services: s.ServicesURL,
		Site:     s.SiteURL,
		Download: s.DownloadURL,
	}))

	logger.Debug("Signing in", "account", creds.String())
	session, err := client.Authenticate(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("signing in as %s: %w", creds.User, err)
	}
	if team := session.TeamID(); team != "" {
		logger.Debug("Signed in", "team", team)
	}
	return session, nil
}

// loadReleases reads the catalog and the pre-releases on the download page
// and merges them. A failing download page only costs the pre-releases.
func loadReleases(ctx context.Context, session *auth.Session, s config.Settings) ([]release.Release, error) {
	endpoints := session.Endpoints()

	body, err := session.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := catalog.Decode(body)
	if err != nil {
		return nil, err
	}
	listed := catalog.Releases(resp, catalog.Options{DownloadBase: endpoints.Download, Floor: s.Floor})
	logger.Debug("Catalog loaded", "records", len(resp.Downloads), "releases", len(listed))

	page, err := session.FetchDownloadPage(ctx)
	if err != nil {
		logger.Warn("Skipping pre-releases", "error", err)
		return listed, nil
	}
	pre := catalog.ScrapePrereleases(page, catalog.Bases{Download: endpoints.Download, Site: endpoints.Site})
	logger.Debug("Download page scraped", "prereleases", len(pre))

	return catalog.Merge(listed, pre), nil
}

func selectorOptions(s config.Settings) selector.Options {
	return selector.Options{
		Floor:          s.Floor,
		FamilySegments: s.FamilySegments,
		KeepPerFamily:  s.Keep,
		Constraint:     s.Constraint,
	}
}

func simulatorOptions(s config.Settings) selector.SimulatorOptions {
	return selector.SimulatorOptions{
		Floors:         s.SimulatorFloors,
		FamilySegments: s.FamilySegments,
		KeepPerFamily:  s.Keep,
	}
}

// engineOptions are applied after the settings-derived options. Tests use it
// to swap the downloaders.
var engineOptions []transfer.Option

// newEngine builds the transfer engine from settings. Downloader progress
// goes to progress line by line.
func newEngine(s config.Settings, progress func(string)) *transfer.Engine {
	opts := []transfer.Option{
		transfer.WithRetries(s.Retries),
		transfer.WithResumeAttempts(s.ResumeAttempts),
		transfer.WithLogger(logger),
		transfer.WithProgress(progress),
	}
	if s.CookiePath != "" {
		opts = append(opts, transfer.WithCookiePath(s.CookiePath))
	}
	opts = append(opts, engineOptions...)
	e := transfer.New(opts...)
	h := e.Host()
	logger.Debug("Probed downloaders", "curl", h.Curl, "wget", h.Wget)
	return e
}
