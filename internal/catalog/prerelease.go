package catalog

import (
	"regexp"
	"strings"

	"github.com/xcode-links/xcache/internal/release"
)

var (
	installerLink = regexp.MustCompile(`<a.+?href="(.+?\.(?:dmg|xip))".*>(.*)</a>`)
	parentPath    = regexp.MustCompile(`path=(/.*/.*/)`)
	labelPrefix   = regexp.MustCompile(`.*Xcode `)
	htmlTag       = regexp.MustCompile(`<.*?>`)

	betaBanner  = regexp.MustCompile(`platform-title.*Xcode.* beta.*</p>`)
	gmBanner    = regexp.MustCompile(`Xcode.* GM.*</p>`)
	buttonLink  = regexp.MustCompile(`<button .*"(.+?\.xip)".*</button>`)
	notesGoLink = regexp.MustCompile(`<a.+?href="(/go/\?id=xcode-.+?)".*>(.*)</a>`)
)

// Bases holds the URL prefixes used to turn scraped paths into links.
type Bases struct {
	// Download is prefixed to remote artifact paths.
	Download string
	// Site is prefixed to site-relative links such as "/go/?id=...".
	Site string
}

// ScrapePrereleases extracts installer links from the download page body.
// Each anchor to a .dmg or .xip becomes a release named after its label with
// everything up to "Xcode " removed; a release-notes PDF under the same
// parent directory is attached when the page mentions one. When the page has
// no installer anchors the beta or GM banner with its download button is used
// instead. A page with neither yields no releases.
func ScrapePrereleases(body string, bases Bases) []release.Release {
	var out []release.Release
	for _, m := range installerLink.FindAllStringSubmatch(body, -1) {
		href, label := m[1], m[2]
		name := labelPrefix.ReplaceAllString(strings.TrimSpace(label), "")
		out = append(out, release.NewPrerelease(name, href, notesFor(body, href), bases.Download))
	}
	if len(out) > 0 {
		return out
	}

	if r, ok := scrapeBanner(body, bases); ok {
		out = append(out, r)
	}
	return out
}

// notesFor finds "<parent>/...pdf" in body for the parent directory of href.
func notesFor(body, href string) string {
	pm := parentPath.FindStringSubmatch(href)
	if pm == nil {
		return ""
	}
	parent := pm[1]
	notes := regexp.MustCompile(regexp.QuoteMeta(parent) + `(.+?\.pdf)`).FindStringSubmatch(body)
	if notes == nil {
		return ""
	}
	return parent + notes[1]
}

func scrapeBanner(body string, bases Bases) (release.Release, bool) {
	banner := betaBanner.FindString(body)
	if banner == "" {
		banner = gmBanner.FindString(body)
	}
	if banner == "" {
		return release.Release{}, false
	}

	link := buttonLink.FindStringSubmatch(body)
	if link == nil {
		return release.Release{}, false
	}

	name := labelPrefix.ReplaceAllString(htmlTag.ReplaceAllString(banner, ""), "")
	r := release.NewPrerelease(name, link[1], "", bases.Download)
	if notes := notesGoLink.FindStringSubmatch(body); notes != nil {
		r.ReleaseNotesURL = strings.TrimRight(bases.Site, "/") + notes[1]
	}
	return r, true
}
